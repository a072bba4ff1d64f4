// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapping

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/localize-engine/pkg/types"
)

const sampleMapping = `# Extraction configuration.
[python: app/**.py]
[jinja2: app/templates/**.html]
extensions=ext.a,ext.b
`

func TestParseSample(t *testing.T) {
	m, err := Parse(strings.NewReader(sampleMapping))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Rules) != 2 {
		t.Fatalf("len(Rules) = %d, want 2", len(m.Rules))
	}

	r0 := m.Rules[0]
	if r0.Kind != "python" || r0.Pattern != "app/**.py" {
		t.Errorf("rule 0 = [%s: %s], want [python: app/**.py]", r0.Kind, r0.Pattern)
	}
	if len(r0.Comments) != 1 || r0.Comments[0] != "Extraction configuration." {
		t.Errorf("rule 0 comments = %v", r0.Comments)
	}

	r1 := m.Rules[1]
	if r1.Kind != "jinja2" || r1.Pattern != "app/templates/**.html" {
		t.Errorf("rule 1 = [%s: %s], want [jinja2: app/templates/**.html]", r1.Kind, r1.Pattern)
	}
	if got, want := r1.Extensions(), []string{"ext.a", "ext.b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Extensions() = %v, want %v", got, want)
	}
}

func TestParseOptionWhitespaceAndRepeatedKind(t *testing.T) {
	input := `[jinja2: app/templates/**.html]
extensions = jinja2.ext.autoescape , jinja2.ext.with_
[jinja2: emails/**.txt]
`
	m, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Rules) != 2 {
		t.Fatalf("len(Rules) = %d, want 2", len(m.Rules))
	}
	want := []string{"jinja2.ext.autoescape", "jinja2.ext.with_"}
	if got := m.Rules[0].Extensions(); !reflect.DeepEqual(got, want) {
		t.Errorf("Extensions() = %v, want %v", got, want)
	}
	// Same kind with a different pattern is legal.
	if m.Rules[1].Kind != "jinja2" {
		t.Errorf("rule 1 kind = %q", m.Rules[1].Kind)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{"empty kind", "[: app/**.py]\n", "empty source kind"},
		{"empty pattern", "[python:]\n", "empty glob pattern"},
		{"missing pattern", "[python]\n", "missing pattern"},
		{"unterminated header", "[python: app/**.py\n", "unterminated"},
		{"option before section", "extensions=ext.a\n", "before any section"},
		{"malformed option", "[python: app/**.py]\nextensions\n", "malformed option"},
		{"duplicate section", "[python: app/**.py]\n[python: app/**.py]\n", "duplicate section"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Parse error = %v, want substring %q", err, tt.errMsg)
			}
		})
	}
}

func TestParseErrorsNameLine(t *testing.T) {
	input := "[python: app/**.py]\n\n[python: app/**.py]\n"
	_, err := Parse(strings.NewReader(input))
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error should name line 3, got: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	m, err := Parse(strings.NewReader(sampleMapping))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	m2, err := Parse(&buf)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !reflect.DeepEqual(m.ScanRules(), m2.ScanRules()) {
		t.Errorf("round-trip rules differ:\n  before: %+v\n  after:  %+v", m.ScanRules(), m2.ScanRules())
	}
}

func TestWriteIsCanonical(t *testing.T) {
	// Whatever the input spacing, a second format pass is a fixed point.
	input := "[jinja2:app/templates/**.html]\nextensions=ext.a,  ext.b\n"
	m, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var first, second bytes.Buffer
	if err := m.Write(&first); err != nil {
		t.Fatalf("Write: %v", err)
	}
	m2, err := Parse(bytes.NewReader(first.Bytes()))
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if err := m2.Write(&second); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if first.String() != second.String() {
		t.Errorf("format not idempotent:\n  first:  %q\n  second: %q", first.String(), second.String())
	}
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "babel.cfg")
	if err := os.WriteFile(path, []byte(sampleMapping), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	out := filepath.Join(dir, "babel.out.cfg")
	if err := m.Save(out); err != nil {
		t.Fatalf("Save: %v", err)
	}

	m2, err := Load(out)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(m.ScanRules(), m2.ScanRules()) {
		t.Errorf("saved rules differ from loaded rules")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "no-such.cfg"))
	if err == nil {
		t.Error("expected error for missing mapping file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantErrors   int
		wantWarnings int
	}{
		{
			name:  "clean mapping",
			input: "[python: app/**.py]\n[jinja2: app/templates/**.html]\nextensions=jinja2.ext.autoescape,jinja2.ext.with_\n",
		},
		{
			name:       "malformed glob",
			input:      "[python: app/[**.py]\n",
			wantErrors: 1,
		},
		{
			name:         "unknown extensions",
			input:        "[jinja2: app/templates/**.html]\nextensions=ext.a,ext.b\n",
			wantWarnings: 2,
		},
		{
			name:         "empty extensions list",
			input:        "[jinja2: app/templates/**.html]\nextensions=\n",
			wantWarnings: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			problems := m.Validate(DefaultRegistry())

			var errors, warnings int
			for _, p := range problems {
				switch p.Severity {
				case SeverityError:
					errors++
				case SeverityWarning:
					warnings++
				}
				if p.Line == 0 {
					t.Errorf("problem without line number: %v", p)
				}
			}
			if errors != tt.wantErrors {
				t.Errorf("errors = %d, want %d (%v)", errors, tt.wantErrors, problems)
			}
			if warnings != tt.wantWarnings {
				t.Errorf("warnings = %d, want %d (%v)", warnings, tt.wantWarnings, problems)
			}
			if HasErrors(problems) != (tt.wantErrors > 0) {
				t.Errorf("HasErrors = %v", HasErrors(problems))
			}
		})
	}
}

func TestRegistryAdd(t *testing.T) {
	reg := NewRegistry()
	if reg.Known("ext.custom") {
		t.Error("empty registry should know nothing")
	}
	reg.Add("ext.custom")
	if !reg.Known("ext.custom") {
		t.Error("Add should register the identifier")
	}

	m, err := Parse(strings.NewReader("[jinja2: t/**.html]\nextensions=ext.custom\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if problems := m.Validate(reg); len(problems) != 0 {
		t.Errorf("registered extension should not warn: %v", problems)
	}
}

func TestScanRuleOptionLookup(t *testing.T) {
	rule := types.ScanRule{
		Kind:    "jinja2",
		Pattern: "t/**.html",
		Options: []types.Option{
			{Key: "extensions", Value: "jinja2.ext.i18n"},
			{Key: "silent", Value: "false"},
		},
	}
	if v, ok := rule.Option("silent"); !ok || v != "false" {
		t.Errorf("Option(silent) = %q, %v", v, ok)
	}
	if _, ok := rule.Option("absent"); ok {
		t.Error("Option(absent) should not be found")
	}
}
