// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapping

// Registry holds the extension identifiers the validator accepts. The
// template engine consuming the mapping owns the authoritative list, so
// unknown identifiers are reported as warnings rather than errors.
type Registry struct {
	known map[string]struct{}
}

// builtinExtensions lists the identifiers shipped with the Jinja2 template
// engine, the only engine the built-in extractors scan.
var builtinExtensions = []string{
	"jinja2.ext.autoescape",
	"jinja2.ext.debug",
	"jinja2.ext.do",
	"jinja2.ext.i18n",
	"jinja2.ext.loopcontrols",
	"jinja2.ext.with_",
}

// NewRegistry returns a registry recognizing exactly the given identifiers.
func NewRegistry(ids ...string) *Registry {
	r := &Registry{known: make(map[string]struct{}, len(ids))}
	r.Add(ids...)
	return r
}

// DefaultRegistry returns a registry preloaded with the builtin template
// engine extensions.
func DefaultRegistry() *Registry {
	return NewRegistry(builtinExtensions...)
}

// Add registers additional identifiers as known.
func (r *Registry) Add(ids ...string) {
	for _, id := range ids {
		r.known[id] = struct{}{}
	}
}

// Known reports whether id is a recognized extension identifier.
func (r *Registry) Known(id string) bool {
	_, ok := r.known[id]
	return ok
}
