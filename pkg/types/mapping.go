// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// ScanRule pairs a source kind with a glob pattern describing which files
// of that kind the extraction stage scans. Patterns are relative to the
// project root and use forward slashes; ** crosses directory boundaries.
type ScanRule struct {
	// Kind is the source-kind tag (e.g. "python", "jinja2", "ignore").
	Kind string `json:"kind" yaml:"kind"`

	// Pattern is the glob pattern for files of this kind.
	Pattern string `json:"pattern" yaml:"pattern"`

	// Options holds the option lines declared in the rule's section, in
	// file order. Only "extensions" carries meaning here; everything else
	// is preserved verbatim for the consuming scanner.
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`
}

// Option is a single key/value option line scoped to a scan rule.
type Option struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Option returns the value of the named option and whether it was declared.
func (r ScanRule) Option(key string) (string, bool) {
	for _, o := range r.Options {
		if o.Key == key {
			return o.Value, true
		}
	}
	return "", false
}

// Extensions returns the parsed "extensions" option: an ordered list of
// template-engine extension identifiers. Empty when the option is absent.
func (r ScanRule) Extensions() []string {
	raw, ok := r.Option("extensions")
	if !ok {
		return nil
	}
	var exts []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			exts = append(exts, part)
		}
	}
	return exts
}
