// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mapping parses, validates, and serializes the extraction mapping
// file that tells the toolchain which files to scan for translatable
// strings. The format is the babel.cfg dialect: one section per scan rule
// with a `[kind: glob]` header, option lines of the form `key = value`
// scoped to the preceding section, and `#` line comments.
package mapping

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/localize-engine/pkg/types"
)

// Rule is one scan rule together with the comments that precede its
// section header in the file.
type Rule struct {
	types.ScanRule

	// Comments holds the comment lines above the section header, without
	// the leading "#".
	Comments []string

	// Line is the 1-based line number of the section header.
	Line int
}

// Mapping is the parsed extraction mapping file.
type Mapping struct {
	// Rules lists the scan rules in file order. Order matters: the scan
	// stage assigns each file to the first rule that matches it.
	Rules []Rule

	// Trailing holds comment lines after the last section.
	Trailing []string
}

// Load reads and parses the mapping file at path.
func Load(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mapping file: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

// Parse reads a mapping from r. Section headers must carry both a kind and
// a pattern, option lines must follow a section, and no two sections may
// declare the same kind/pattern pair. Errors name the offending line.
func Parse(r io.Reader) (*Mapping, error) {
	var (
		m        Mapping
		comments []string
		seen     = map[string]int{}
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue

		case strings.HasPrefix(line, "#"):
			comments = append(comments, strings.TrimSpace(strings.TrimPrefix(line, "#")))

		case strings.HasPrefix(line, "["):
			kind, pattern, err := parseHeader(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			key := kind + ": " + pattern
			if prev, ok := seen[key]; ok {
				return nil, fmt.Errorf("line %d: duplicate section [%s] (first declared on line %d)", lineNo, key, prev)
			}
			seen[key] = lineNo

			m.Rules = append(m.Rules, Rule{
				ScanRule: types.ScanRule{Kind: kind, Pattern: pattern},
				Comments: comments,
				Line:     lineNo,
			})
			comments = nil

		default:
			if len(m.Rules) == 0 {
				return nil, fmt.Errorf("line %d: option %q before any section", lineNo, line)
			}
			key, value, ok := strings.Cut(line, "=")
			if !ok {
				return nil, fmt.Errorf("line %d: malformed option %q (want key = value)", lineNo, line)
			}
			rule := &m.Rules[len(m.Rules)-1]
			rule.Options = append(rule.Options, types.Option{
				Key:   strings.TrimSpace(key),
				Value: strings.TrimSpace(value),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading mapping: %w", err)
	}

	m.Trailing = comments
	return &m, nil
}

func parseHeader(line string) (kind, pattern string, err error) {
	if !strings.HasSuffix(line, "]") {
		return "", "", fmt.Errorf("unterminated section header %q", line)
	}
	body := strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
	kind, pattern, ok := strings.Cut(body, ":")
	if !ok {
		return "", "", fmt.Errorf("section header %q missing pattern (want [kind: glob])", line)
	}
	kind = strings.TrimSpace(kind)
	pattern = strings.TrimSpace(pattern)
	if kind == "" {
		return "", "", fmt.Errorf("section header %q has an empty source kind", line)
	}
	if pattern == "" {
		return "", "", fmt.Errorf("section header %q has an empty glob pattern", line)
	}
	return kind, pattern, nil
}

// Write serializes the mapping in canonical form. Parsing the output
// yields an equivalent rule set: same kind/pattern pairs, same options,
// same order.
func (m *Mapping) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, rule := range m.Rules {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		for _, c := range rule.Comments {
			fmt.Fprintf(bw, "# %s\n", c)
		}
		fmt.Fprintf(bw, "[%s: %s]\n", rule.Kind, rule.Pattern)
		for _, o := range rule.Options {
			fmt.Fprintf(bw, "%s = %s\n", o.Key, o.Value)
		}
	}
	if len(m.Trailing) > 0 && len(m.Rules) > 0 {
		fmt.Fprintln(bw)
	}
	for _, c := range m.Trailing {
		fmt.Fprintf(bw, "# %s\n", c)
	}
	return bw.Flush()
}

// Save writes the mapping to path in canonical form.
func (m *Mapping) Save(path string) error {
	var sb strings.Builder
	if err := m.Write(&sb); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing mapping file: %w", err)
	}
	return nil
}

// ScanRules returns the bare scan rules in file order, without comment or
// position bookkeeping.
func (m *Mapping) ScanRules() []types.ScanRule {
	rules := make([]types.ScanRule, len(m.Rules))
	for i, r := range m.Rules {
		rules[i] = r.ScanRule
	}
	return rules
}
