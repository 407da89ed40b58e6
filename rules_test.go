package tagsanitizer_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cybergodev/tagsanitizer"
)

const sampleRules = `
default:
  allow: [style]
tags:
  HTML: {action: unwrap}
  body: {action: unwrap}
  head: {action: drop}
  script: {action: drop}
  a:
    allow: [href]
  img:
    action: rewrite
    require: src
    rewrite: '<a href="{{.Attr "src" | escape}}">{{.Attr "src" | basename | escape}}</a>'
`

func TestRulesEndToEnd(t *testing.T) {
	t.Parallel()

	rules, err := tagsanitizer.ParseRules([]byte(sampleRules))
	if err != nil {
		t.Fatalf("ParseRules() failed: %v", err)
	}

	tree, err := tagsanitizer.ParseString(`<html><head><title>t</title></head><body>` +
		`<p style="color:red" class="c">Hi</p>` +
		`<a href="/x" onclick="evil()">link</a>` +
		`<img src="http://h/p/cat.png" alt="cat">` +
		`<img alt="none">` +
		`<script>alert(1)</script>` +
		`</body></html>`)
	if err != nil {
		t.Fatalf("ParseString() failed: %v", err)
	}

	got := tagsanitizer.Walk(tree, rules)
	want := `<p style="color:red">Hi</p>` +
		`<a href="/x">link</a>` +
		`<a href="http://h/p/cat.png">cat.png</a>` +
		`<img></img>`
	if got != want {
		t.Errorf("Walk() =\n%q\nwant\n%q", got, want)
	}
}

func TestRulesCaseInsensitive(t *testing.T) {
	t.Parallel()

	rules, err := tagsanitizer.ParseRules([]byte(sampleRules))
	if err != nil {
		t.Fatalf("ParseRules() failed: %v", err)
	}

	tree := tagsanitizer.NewTree()
	html := tree.AppendElement(tree.Root(), "Html")
	tree.AppendText(html, "inner")

	if got := tagsanitizer.Walk(tree, rules); got != "inner" {
		t.Errorf("Walk() = %q, want %q", got, "inner")
	}
}

func TestRulesValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{"unknown action", "tags:\n  p: {action: explode}\n"},
		{"rewrite without template", "tags:\n  p: {action: rewrite}\n"},
		{"template without rewrite", "tags:\n  p: {action: drop, rewrite: x}\n"},
		{"bad template", "tags:\n  p: {action: rewrite, rewrite: '{{.Attr'}\n"},
		{"duplicate after folding", "tags:\n  p: {}\n  P: {}\n"},
		{"empty tag name", "tags:\n  ' ': {}\n"},
		{"unknown field", "default:\n  allowed: [id]\n"},
		{"not yaml", "tags: [\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tagsanitizer.ParseRules([]byte(tt.yaml))
			if !errors.Is(err, tagsanitizer.ErrInvalidRules) {
				t.Errorf("ParseRules() error = %v, want ErrInvalidRules", err)
			}
		})
	}
}

func TestRulesTemplateFailureDrops(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	rules := &tagsanitizer.Rules{
		Tags: map[string]tagsanitizer.TagRule{
			"x": {Action: tagsanitizer.ActionRewrite, Rewrite: `{{.Missing}}`},
		},
		Logger: &logger,
	}
	if err := rules.Compile(); err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}

	tree := tagsanitizer.NewTree()
	x := tree.AppendElement(tree.Root(), "x")
	tree.AppendText(x, "hidden")
	tree.AppendText(tree.Root(), "after")

	if got := tagsanitizer.Walk(tree, rules); got != "after" {
		t.Errorf("Walk() = %q, want %q", got, "after")
	}
	if !strings.Contains(buf.String(), "rewrite template failed") {
		t.Errorf("expected a warning in the log, got %q", buf.String())
	}
}

func TestRulesBasenameWithoutSlash(t *testing.T) {
	t.Parallel()

	rules, err := tagsanitizer.ParseRules([]byte(sampleRules))
	if err != nil {
		t.Fatalf("ParseRules() failed: %v", err)
	}

	tree := tagsanitizer.NewTree()
	tree.AppendElement(tree.Root(), "img", tagsanitizer.Attribute{Key: "src", Val: `cat.png"`})

	want := `<a href="cat.png&#34;"></a>`
	if got := tagsanitizer.Walk(tree, rules); got != want {
		t.Errorf("Walk() = %q, want %q", got, want)
	}
}

func TestRulesCacheKey(t *testing.T) {
	t.Parallel()

	r1, err := tagsanitizer.ParseRules([]byte(sampleRules))
	if err != nil {
		t.Fatalf("ParseRules() failed: %v", err)
	}
	r2, err := tagsanitizer.ParseRules([]byte(sampleRules))
	if err != nil {
		t.Fatalf("ParseRules() failed: %v", err)
	}
	r3, err := tagsanitizer.ParseRules([]byte("default:\n  allow: [id]\n"))
	if err != nil {
		t.Fatalf("ParseRules() failed: %v", err)
	}

	if r1.CacheKey() == "" {
		t.Error("compiled rules should have a cache key")
	}
	if r1.CacheKey() != r2.CacheKey() {
		t.Error("identical documents should share a cache key")
	}
	if r1.CacheKey() == r3.CacheKey() {
		t.Error("different documents should have different cache keys")
	}

	var uncompiled tagsanitizer.Rules
	if uncompiled.CacheKey() != "" {
		t.Error("uncompiled rules should not have a cache key")
	}
}

func TestLoadRules(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte(sampleRules), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	if _, err := tagsanitizer.LoadRules(path); err != nil {
		t.Errorf("LoadRules() failed: %v", err)
	}

	_, err := tagsanitizer.LoadRules(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, tagsanitizer.ErrInvalidRules) {
		t.Errorf("LoadRules(missing) error = %v, want ErrInvalidRules", err)
	}
}
