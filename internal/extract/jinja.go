// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/localize-engine/pkg/types"
)

// jinjaKeywords are the gettext call names recognized inside template
// expressions and statements.
var jinjaKeywords = map[string]bool{
	"_":        false,
	"gettext":  false,
	"ngettext": true,
}

// transBlockRe matches {% trans %}...{% endtrans %} blocks, including an
// optional {% pluralize %} divider. Tag arguments (e.g. trans count=n)
// are skipped; only the block text is the message.
var transBlockRe = regexp.MustCompile(`(?s)\{%-?\s*trans\b[^%]*?-?%\}(.*?)\{%-?\s*endtrans\s*-?%\}`)

var pluralizeRe = regexp.MustCompile(`\{%-?\s*pluralize\b[^%]*?-?%\}`)

var whitespaceRe = regexp.MustCompile(`\s+`)

type jinjaExtractor struct{}

func (jinjaExtractor) Kind() string { return "jinja2" }

func (jinjaExtractor) Extract(path string, src []byte, _ types.ScanRule) ([]types.Message, error) {
	text := string(src)
	ix := newLineIndex(text)

	var msgs []types.Message

	for _, loc := range transBlockRe.FindAllStringSubmatchIndex(text, -1) {
		body := text[loc[2]:loc[3]]
		line := ix.lineOf(loc[0])

		id, plural := body, ""
		if div := pluralizeRe.FindStringIndex(body); div != nil {
			id, plural = body[:div[0]], body[div[1]:]
		}

		id = normalizeBlock(id)
		if id == "" {
			continue
		}
		msgs = append(msgs, types.Message{
			ID:          id,
			Plural:      normalizeBlock(plural),
			Occurrences: []types.Occurrence{{File: path, Line: line}},
		})
	}

	for _, c := range scanCalls(text, jinjaKeywords) {
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

// normalizeBlock collapses the whitespace of a trans block body the way
// the template engine renders it.
func normalizeBlock(s string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}
