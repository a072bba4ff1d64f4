// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog reads and maintains gettext catalogs: the extraction
// template, the per-language catalogs derived from it, and the compiled
// message files the application loads at runtime. The on-disk formats are
// external conventions (PO in, go-i18n TOML out); nothing here defines a
// format of its own.
package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/localize-engine/pkg/types"
)

// Entry is one message entry of a PO file.
type Entry struct {
	// ID is the msgid; the empty ID belongs to the header entry, which
	// File models separately.
	ID string

	// Plural is the msgid_plural, empty for singular entries.
	Plural string

	// Str is the msgstr of a singular entry.
	Str string

	// PluralStr holds msgstr[0..n] of a plural entry.
	PluralStr []string

	// Occurrences are the `#:` source references.
	Occurrences []types.Occurrence

	// TranslatorComments are `# ` comments carried across updates.
	TranslatorComments []string

	// Flags are the `#,` flags (e.g. "fuzzy").
	Flags []string

	// Obsolete marks `#~` entries kept for reference after an update.
	Obsolete bool
}

// Fuzzy reports whether the entry carries the fuzzy flag.
func (e *Entry) Fuzzy() bool {
	for _, f := range e.Flags {
		if f == "fuzzy" {
			return true
		}
	}
	return false
}

// SetFuzzy adds or removes the fuzzy flag.
func (e *Entry) SetFuzzy(fuzzy bool) {
	if fuzzy == e.Fuzzy() {
		return
	}
	if fuzzy {
		e.Flags = append(e.Flags, "fuzzy")
		return
	}
	flags := e.Flags[:0]
	for _, f := range e.Flags {
		if f != "fuzzy" {
			flags = append(flags, f)
		}
	}
	e.Flags = flags
}

// Translated reports whether the entry has a translation. Plural entries
// count as translated when their first form is filled in.
func (e *Entry) Translated() bool {
	if e.Plural != "" {
		return len(e.PluralStr) > 0 && e.PluralStr[0] != ""
	}
	return e.Str != ""
}

// State classifies the entry for statistics.
func (e *Entry) State() types.TranslationState {
	switch {
	case !e.Translated():
		return types.StateUntranslated
	case e.Fuzzy():
		return types.StateFuzzy
	default:
		return types.StateTranslated
	}
}

// Header is one key/value line of the PO header entry.
type Header struct {
	Key   string
	Value string
}

// File is a parsed PO catalog or template.
type File struct {
	// HeaderComments are the `# ` comments above the header entry.
	HeaderComments []string

	// Headers holds the header fields in file order.
	Headers []Header

	// Entries lists the message entries in file order, header excluded.
	Entries []*Entry
}

// Header returns the value of the named header field, or "".
func (f *File) Header(key string) string {
	for _, h := range f.Headers {
		if h.Key == key {
			return h.Value
		}
	}
	return ""
}

// SetHeader replaces the named header field, appending it if absent.
func (f *File) SetHeader(key, value string) {
	for i, h := range f.Headers {
		if h.Key == key {
			f.Headers[i].Value = value
			return
		}
	}
	f.Headers = append(f.Headers, Header{Key: key, Value: value})
}

// Get returns the entry with the given msgid, or nil. Obsolete entries are
// not considered.
func (f *File) Get(id string) *Entry {
	for _, e := range f.Entries {
		if !e.Obsolete && e.ID == id {
			return e
		}
	}
	return nil
}

// LoadFile reads and parses the PO file at path.
func LoadFile(path string) (*File, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer r.Close()

	f, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// rawEntry accumulates one entry's lines during parsing.
type rawEntry struct {
	entry   Entry
	last    *string // target of continuation strings
	started bool
}

// Parse reads a PO file from r.
func Parse(r io.Reader) (*File, error) {
	var (
		f       File
		cur     rawEntry
		sawID   bool
		lineNo  int
		flushed []*Entry
	)

	flush := func() error {
		if !cur.started {
			return nil
		}
		e := cur.entry
		if e.ID == "" && !e.Obsolete && len(f.Headers) == 0 && len(flushed) == 0 {
			f.HeaderComments = e.TranslatorComments
			f.Headers = parseHeaders(e.Str)
		} else {
			copied := e
			flushed = append(flushed, &copied)
		}
		cur = rawEntry{}
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		obsolete := false
		if strings.HasPrefix(line, "#~") {
			obsolete = true
			line = strings.TrimSpace(strings.TrimPrefix(line, "#~"))
		}

		switch {
		case line == "":
			if err := flush(); err != nil {
				return nil, err
			}

		case strings.HasPrefix(line, "#:"):
			for _, ref := range strings.Fields(strings.TrimPrefix(line, "#:")) {
				file, ln, ok := strings.Cut(ref, ":")
				occ := types.Occurrence{File: ref}
				if ok {
					if n, err := strconv.Atoi(ln); err == nil {
						occ = types.Occurrence{File: file, Line: n}
					}
				}
				cur.entry.Occurrences = append(cur.entry.Occurrences, occ)
			}
			cur.started = true

		case strings.HasPrefix(line, "#,"):
			for _, flag := range strings.Split(strings.TrimPrefix(line, "#,"), ",") {
				if flag = strings.TrimSpace(flag); flag != "" {
					cur.entry.Flags = append(cur.entry.Flags, flag)
				}
			}
			cur.started = true

		case strings.HasPrefix(line, "#"):
			cur.entry.TranslatorComments = append(cur.entry.TranslatorComments,
				strings.TrimSpace(strings.TrimPrefix(line, "#")))
			cur.started = true

		case strings.HasPrefix(line, "msgid_plural"):
			s, err := poUnquote(strings.TrimSpace(strings.TrimPrefix(line, "msgid_plural")))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			cur.entry.Plural = s
			cur.entry.Obsolete = cur.entry.Obsolete || obsolete
			cur.last = &cur.entry.Plural
			cur.started = true

		case strings.HasPrefix(line, "msgid"):
			// A msgid while one is already open starts a new entry
			// (entries separated by comments only, no blank line).
			if sawID && cur.started && cur.last != nil {
				if err := flush(); err != nil {
					return nil, err
				}
			}
			s, err := poUnquote(strings.TrimSpace(strings.TrimPrefix(line, "msgid")))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			cur.entry.ID = s
			cur.entry.Obsolete = cur.entry.Obsolete || obsolete
			cur.last = &cur.entry.ID
			cur.started = true
			sawID = true

		case strings.HasPrefix(line, "msgstr["):
			rest := strings.TrimPrefix(line, "msgstr[")
			idxStr, quoted, ok := strings.Cut(rest, "]")
			if !ok {
				return nil, fmt.Errorf("line %d: malformed msgstr index in %q", lineNo, line)
			}
			idx, err := strconv.Atoi(idxStr)
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("line %d: malformed msgstr index in %q", lineNo, line)
			}
			s, err := poUnquote(strings.TrimSpace(quoted))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			for len(cur.entry.PluralStr) <= idx {
				cur.entry.PluralStr = append(cur.entry.PluralStr, "")
			}
			cur.entry.PluralStr[idx] = s
			cur.last = &cur.entry.PluralStr[idx]
			cur.started = true

		case strings.HasPrefix(line, "msgstr"):
			s, err := poUnquote(strings.TrimSpace(strings.TrimPrefix(line, "msgstr")))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			cur.entry.Str = s
			cur.last = &cur.entry.Str
			cur.started = true

		case strings.HasPrefix(line, `"`):
			if cur.last == nil {
				return nil, fmt.Errorf("line %d: continuation string outside an entry", lineNo)
			}
			s, err := poUnquote(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			*cur.last += s

		default:
			return nil, fmt.Errorf("line %d: unrecognized line %q", lineNo, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	f.Entries = flushed
	return &f, nil
}

func parseHeaders(s string) []Header {
	var headers []Header
	for _, line := range strings.Split(s, "\n") {
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		headers = append(headers, Header{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)})
	}
	return headers
}

// Write serializes the file in PO syntax.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	for _, c := range f.HeaderComments {
		fmt.Fprintf(bw, "# %s\n", c)
	}
	fmt.Fprintln(bw, `msgid ""`)
	fmt.Fprintln(bw, `msgstr ""`)
	for _, h := range f.Headers {
		fmt.Fprintf(bw, "%s\n", poQuote(h.Key+": "+h.Value+"\n"))
	}

	for _, e := range f.Entries {
		fmt.Fprintln(bw)
		prefix := ""
		if e.Obsolete {
			prefix = "#~ "
		}
		for _, c := range e.TranslatorComments {
			fmt.Fprintf(bw, "# %s\n", c)
		}
		if len(e.Occurrences) > 0 {
			refs := make([]string, len(e.Occurrences))
			for i, o := range e.Occurrences {
				refs[i] = fmt.Sprintf("%s:%d", o.File, o.Line)
			}
			fmt.Fprintf(bw, "#: %s\n", strings.Join(refs, " "))
		}
		if len(e.Flags) > 0 {
			fmt.Fprintf(bw, "#, %s\n", strings.Join(e.Flags, ", "))
		}
		fmt.Fprintf(bw, "%smsgid %s\n", prefix, poQuote(e.ID))
		if e.Plural != "" {
			fmt.Fprintf(bw, "%smsgid_plural %s\n", prefix, poQuote(e.Plural))
			forms := e.PluralStr
			if len(forms) == 0 {
				forms = []string{"", ""}
			}
			for i, s := range forms {
				fmt.Fprintf(bw, "%smsgstr[%d] %s\n", prefix, i, poQuote(s))
			}
		} else {
			fmt.Fprintf(bw, "%smsgstr %s\n", prefix, poQuote(e.Str))
		}
	}

	return bw.Flush()
}

// Save writes the file to path, creating parent directories.
func (f *File) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating catalog directory: %w", err)
	}
	var sb strings.Builder
	if err := f.Write(&sb); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}

// poQuote renders s as a PO double-quoted string.
func poQuote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// poUnquote parses a PO double-quoted string.
func poUnquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("malformed quoted string %s", s)
	}
	body := s[1 : len(s)-1]
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("dangling escape in %s", s)
		}
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		default:
			return "", fmt.Errorf("unsupported escape \\%c in %s", body[i], s)
		}
	}
	return sb.String(), nil
}
