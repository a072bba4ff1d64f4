// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"github.com/pdiddy/localize-engine/pkg/types"
)

// pythonKeywords are the gettext call names recognized in python sources.
// The value says whether the marker carries a plural second argument.
var pythonKeywords = map[string]bool{
	"_":            false,
	"_l":           false,
	"gettext":      false,
	"lazy_gettext": false,
	"ngettext":     true,
}

type pythonExtractor struct{}

func (pythonExtractor) Kind() string { return "python" }

func (pythonExtractor) Extract(path string, src []byte, _ types.ScanRule) ([]types.Message, error) {
	text := string(src)
	ix := newLineIndex(text)

	var msgs []types.Message
	for _, c := range scanCalls(text, pythonKeywords) {
		msgs = append(msgs, types.Message{
			ID:     c.id,
			Plural: c.plural,
			Occurrences: []types.Occurrence{
				{File: path, Line: ix.lineOf(c.offset)},
			},
		})
	}
	return msgs, nil
}
