// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pdiddy/localize-engine/internal/scan"
	"github.com/pdiddy/localize-engine/pkg/types"
)

func TestPythonExtractor(t *testing.T) {
	src := `from flask_babel import _, lazy_gettext as _l

class LoginForm(FlaskForm):
    username = StringField(_l('Username'))

@app.route('/login')
def login():
    flash(_('Invalid username or password'))
    flash(_("Welcome back, %(username)s!", username=user.username))
    n = ngettext('%(num)d follower', '%(num)d followers', count)
    dynamic = _(variable_name)
    underscored = my_function('not a marker')
`
	msgs, err := pythonExtractor{}.Extract("app/routes.py", []byte(src), types.ScanRule{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := []types.Message{
		{ID: "Username", Occurrences: []types.Occurrence{{File: "app/routes.py", Line: 4}}},
		{ID: "Invalid username or password", Occurrences: []types.Occurrence{{File: "app/routes.py", Line: 8}}},
		{ID: "Welcome back, %(username)s!", Occurrences: []types.Occurrence{{File: "app/routes.py", Line: 9}}},
		{ID: "%(num)d follower", Plural: "%(num)d followers", Occurrences: []types.Occurrence{{File: "app/routes.py", Line: 10}}},
	}
	if !reflect.DeepEqual(msgs, want) {
		t.Errorf("messages:\n  got:  %+v\n  want: %+v", msgs, want)
	}
}

func TestPythonExtractorEscapes(t *testing.T) {
	src := `flash(_('It\'s done'))` + "\n" + `flash(_("line\nbreak"))` + "\n"
	msgs, err := pythonExtractor{}.Extract("a.py", []byte(src), types.ScanRule{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d, want 2", len(msgs))
	}
	if msgs[0].ID != "It's done" {
		t.Errorf("msgs[0].ID = %q", msgs[0].ID)
	}
	if msgs[1].ID != "line\nbreak" {
		t.Errorf("msgs[1].ID = %q", msgs[1].ID)
	}
}

func TestJinjaExtractorCalls(t *testing.T) {
	src := `<html>
  <h1>{{ _('Sign In') }}</h1>
  {% if x %}{{ gettext('Hello') }}{% endif %}
</html>
`
	msgs, err := jinjaExtractor{}.Extract("app/templates/login.html", []byte(src), types.ScanRule{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d: %+v", len(msgs), msgs)
	}
	if msgs[0].ID != "Sign In" || msgs[0].Occurrences[0].Line != 2 {
		t.Errorf("msgs[0] = %+v", msgs[0])
	}
	if msgs[1].ID != "Hello" || msgs[1].Occurrences[0].Line != 3 {
		t.Errorf("msgs[1] = %+v", msgs[1])
	}
}

func TestJinjaExtractorTransBlocks(t *testing.T) {
	src := `{% trans %}New users welcome!{% endtrans %}
{% trans count=posts|length %}
  {{ count }} post
{% pluralize %}
  {{ count }} posts
{% endtrans %}
{% trans %}   {% endtrans %}
`
	msgs, err := jinjaExtractor{}.Extract("app/templates/index.html", []byte(src), types.ScanRule{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d: %+v", len(msgs), msgs)
	}
	if msgs[0].ID != "New users welcome!" {
		t.Errorf("msgs[0].ID = %q", msgs[0].ID)
	}
	if msgs[1].ID != "{{ count }} post" || msgs[1].Plural != "{{ count }} posts" {
		t.Errorf("msgs[1] = %+v", msgs[1])
	}
	if msgs[1].Occurrences[0].Line != 2 {
		t.Errorf("plural block line = %d, want 2", msgs[1].Occurrences[0].Line)
	}
}

func TestKinds(t *testing.T) {
	want := []string{"ignore", "jinja2", "python"}
	if got := Kinds(); !reflect.DeepEqual(got, want) {
		t.Errorf("Kinds() = %v, want %v", got, want)
	}
}

func TestRunMergesOccurrences(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("app/routes.py", "flash(_('Sign In'))\n")
	write("app/forms.py", "label = _('Sign In')\nother = _('Remember Me')\n")
	write("app/templates/login.html", "{{ _('Sign In') }}\n")
	write("app/generated.py", "x = _('Generated')\n")

	rules := []types.ScanRule{
		{Kind: IgnoreKind, Pattern: "app/generated.py"},
		{Kind: "python", Pattern: "app/**.py"},
		{Kind: "jinja2", Pattern: "app/templates/**.html"},
	}
	plan, err := scan.BuildPlan(root, rules, "")
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	var buf bytes.Buffer
	msgs, res, err := Run(plan, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Scanned != 3 || res.Skipped != 1 || res.Failed != 0 {
		t.Errorf("result = %+v", res)
	}
	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d: %+v", len(msgs), msgs)
	}

	signIn := msgs[0]
	if signIn.ID != "Sign In" {
		t.Fatalf("msgs[0].ID = %q", signIn.ID)
	}
	if len(signIn.Occurrences) != 3 {
		t.Errorf("Sign In occurrences = %+v", signIn.Occurrences)
	}
	// The ignored file's message must not appear.
	for _, m := range msgs {
		if m.ID == "Generated" {
			t.Error("ignored file was extracted")
		}
	}
}

func TestRunCountsUnreadableFiles(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(root, rel), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("routes.py", "flash(_('Sign In'))\n")
	write("forms.py", "label = _('Remember Me')\n")

	plan, err := scan.BuildPlan(root, []types.ScanRule{{Kind: "python", Pattern: "**.py"}}, "")
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	// The file vanishes between planning and extraction.
	if err := os.Remove(filepath.Join(root, "forms.py")); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	msgs, res, err := Run(plan, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Failed != 1 || res.Scanned != 1 {
		t.Errorf("result = %+v, want 1 failed, 1 scanned", res)
	}
	if !bytes.Contains(buf.Bytes(), []byte("failed  forms.py")) {
		t.Errorf("output = %q", buf.String())
	}
	// The readable file still extracts.
	if len(msgs) != 1 || msgs[0].ID != "Sign In" {
		t.Errorf("msgs = %+v", msgs)
	}
}

func TestRunReportsUnknownKind(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "page.php"), []byte("<?php _('x'); ?>"), 0o644); err != nil {
		t.Fatal(err)
	}

	plan, err := scan.BuildPlan(root, []types.ScanRule{{Kind: "php", Pattern: "**.php"}}, "")
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	var buf bytes.Buffer
	msgs, res, err := Run(plan, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(msgs) != 0 || res.Skipped != 1 {
		t.Errorf("msgs = %v, res = %+v", msgs, res)
	}
	if !bytes.Contains(buf.Bytes(), []byte("no extractor for kind")) {
		t.Errorf("output = %q", buf.String())
	}
}

func TestLineIndex(t *testing.T) {
	ix := newLineIndex("a\nbb\n\nccc")
	tests := []struct {
		offset, want int
	}{
		{0, 1}, {1, 1}, {2, 2}, {4, 2}, {5, 3}, {6, 4}, {8, 4},
	}
	for _, tt := range tests {
		if got := ix.lineOf(tt.offset); got != tt.want {
			t.Errorf("lineOf(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}
