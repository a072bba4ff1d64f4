// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract scans planned files for translatable-string markers and
// collects them into messages for the template catalog. Scanning is
// lexical: markers are recognized by keyword and string literal, without
// parsing the host language.
package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdiddy/localize-engine/internal/scan"
	"github.com/pdiddy/localize-engine/pkg/types"
)

// Extractor finds translatable messages in one source file of its kind.
type Extractor interface {
	// Kind is the source-kind tag the extractor handles.
	Kind() string

	// Extract scans src and returns the messages found, with occurrences
	// referencing path.
	Extract(path string, src []byte, rule types.ScanRule) ([]types.Message, error)
}

// IgnoreKind marks scan rules whose files are excluded from extraction.
const IgnoreKind = "ignore"

// builtins maps source kinds to their extractors.
var builtins = map[string]Extractor{
	"python": pythonExtractor{},
	"jinja2": jinjaExtractor{},
}

// For returns the extractor for a source kind.
func For(kind string) (Extractor, bool) {
	e, ok := builtins[kind]
	return e, ok
}

// Kinds lists the source kinds with a built-in extractor, plus the ignore
// kind, sorted.
func Kinds() []string {
	kinds := []string{IgnoreKind}
	for k := range builtins {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Result holds counters from an extraction run.
type Result struct {
	Scanned  int
	Skipped  int
	Failed   int
	Messages int
}

// Run extracts messages from every file in the plan, in plan order.
// Files under ignore rules or kinds without an extractor are skipped;
// unreadable files are reported to w and counted as failures. Messages
// seen in several places are merged, first occurrence first.
func Run(plan *scan.Plan, w io.Writer) ([]types.Message, Result, error) {
	var (
		res      Result
		messages []types.Message
		index    = map[string]int{}
	)

	for _, pr := range plan.Rules {
		if pr.Rule.Kind == IgnoreKind {
			res.Skipped += len(pr.Files)
			continue
		}
		extractor, ok := For(pr.Rule.Kind)
		if !ok {
			if len(pr.Files) > 0 {
				fmt.Fprintf(w, "warning: no extractor for kind %q, skipping %d file(s)\n", pr.Rule.Kind, len(pr.Files))
			}
			res.Skipped += len(pr.Files)
			continue
		}

		for _, rel := range pr.Files {
			src, err := os.ReadFile(filepath.Join(plan.Root, filepath.FromSlash(rel)))
			if err != nil {
				fmt.Fprintf(w, "failed  %s: %v\n", rel, err)
				res.Failed++
				continue
			}

			msgs, err := extractor.Extract(rel, src, pr.Rule)
			if err != nil {
				fmt.Fprintf(w, "failed  %s: %v\n", rel, err)
				res.Failed++
				continue
			}
			res.Scanned++

			for _, m := range msgs {
				key := m.ID + "\x04" + m.Plural
				if i, ok := index[key]; ok {
					messages[i].Occurrences = append(messages[i].Occurrences, m.Occurrences...)
					continue
				}
				index[key] = len(messages)
				messages = append(messages, m)
			}
		}
	}

	res.Messages = len(messages)
	fmt.Fprintf(w, "\nscanned: %d, skipped: %d, failed: %d, messages: %d\n",
		res.Scanned, res.Skipped, res.Failed, res.Messages)
	return messages, res, nil
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex []int

func newLineIndex(src string) lineIndex {
	starts := lineIndex{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (ix lineIndex) lineOf(offset int) int {
	return sort.Search(len(ix), func(i int) bool { return ix[i] > offset })
}

// call is one keyword marker found by scanCalls.
type call struct {
	offset int
	id     string
	plural string
}

// scanCalls finds keyword(<string literal>[, <string literal>]) markers in
// src. keywords maps a marker name to whether it takes a plural second
// argument. Calls whose first argument is not a literal are skipped: a
// dynamic message id cannot be extracted.
func scanCalls(src string, keywords map[string]bool) []call {
	var calls []call

	for i := 0; i < len(src); i++ {
		if !isIdentStart(src[i]) || (i > 0 && isIdentByte(src[i-1])) {
			continue
		}
		j := i
		for j < len(src) && isIdentByte(src[j]) {
			j++
		}
		word := src[i:j]
		plural, ok := keywords[word]
		if !ok {
			i = j - 1
			continue
		}

		k := skipSpaces(src, j)
		if k >= len(src) || src[k] != '(' {
			i = j - 1
			continue
		}
		k = skipSpaces(src, k+1)

		id, k, litOK := parseStringLiteral(src, k)
		if !litOK {
			i = j - 1
			continue
		}

		c := call{offset: i, id: id}
		if plural {
			k = skipSpaces(src, k)
			if k >= len(src) || src[k] != ',' {
				i = j - 1
				continue
			}
			k = skipSpaces(src, k+1)
			pluralStr, _, pluralOK := parseStringLiteral(src, k)
			if !pluralOK {
				i = j - 1
				continue
			}
			c.plural = pluralStr
		}
		calls = append(calls, c)
		i = j - 1
	}
	return calls
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentByte(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func skipSpaces(src string, i int) int {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return i
}

// parseStringLiteral reads a single- or double-quoted literal starting at
// src[i]. Literals do not span lines.
func parseStringLiteral(src string, i int) (value string, next int, ok bool) {
	if i >= len(src) || (src[i] != '\'' && src[i] != '"') {
		return "", i, false
	}
	quote := src[i]
	var sb []byte
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case quote:
			return string(sb), j + 1, true
		case '\n':
			return "", i, false
		case '\\':
			if j+1 >= len(src) {
				return "", i, false
			}
			j++
			switch src[j] {
			case 'n':
				sb = append(sb, '\n')
			case 't':
				sb = append(sb, '\t')
			case '\'', '"', '\\':
				sb = append(sb, src[j])
			default:
				sb = append(sb, '\\', src[j])
			}
		default:
			sb = append(sb, src[j])
		}
	}
	return "", i, false
}
