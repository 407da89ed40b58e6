package tagsanitizer_test

import (
	"testing"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/cybergodev/tagsanitizer"
)

func TestTagAttr(t *testing.T) {
	t.Parallel()

	tree := tagsanitizer.NewTree()
	tree.AppendElement(tree.Root(), "a",
		tagsanitizer.Attribute{Key: "href", Val: "/first"},
		tagsanitizer.Attribute{Key: "href", Val: "/second"},
	)

	var got string
	var found, missing bool
	tagsanitizer.Walk(tree, tagsanitizer.PolicyFunc(func(tag *tagsanitizer.Tag) {
		got, found = tag.Attr("href")
		_, missing = tag.Attr("title")
	}))

	if !found || got != "/first" {
		t.Errorf("Attr(href) = %q, %v; want first occurrence", got, found)
	}
	if missing {
		t.Error("Attr(title) should report absence")
	}
}

func TestTagDecisionsAccumulate(t *testing.T) {
	t.Parallel()

	tree := tagsanitizer.NewTree()
	tree.AppendElement(tree.Root(), "p",
		tagsanitizer.Attribute{Key: "id", Val: "1"},
		tagsanitizer.Attribute{Key: "class", Val: "c"},
		tagsanitizer.Attribute{Key: "title", Val: "t"},
	)

	out := tagsanitizer.Walk(tree, tagsanitizer.PolicyFunc(func(tag *tagsanitizer.Tag) {
		tag.AllowAttribute("title")
		tag.AllowAttributes("id", "missing")
		if got := tag.AllowedAttributes(); len(got) != 3 {
			t.Errorf("AllowedAttributes() = %v, want 3 names", got)
		}
	}))

	// Attributes come out in document order, not in the order they were allowed.
	if want := `<p id="1" title="t"></p>`; out != want {
		t.Errorf("Walk() = %q, want %q", out, want)
	}
}

func TestTagIgnoreAccessors(t *testing.T) {
	t.Parallel()

	tree := tagsanitizer.NewTree()
	tree.AppendElement(tree.Root(), "div")

	tagsanitizer.Walk(tree, tagsanitizer.PolicyFunc(func(tag *tagsanitizer.Tag) {
		if tag.IgnoresSelf() || tag.IgnoresContents() {
			t.Error("fresh tag should not ignore anything")
		}
		if _, ok := tag.Rewrite(); ok {
			t.Error("fresh tag should have no rewrite")
		}
		tag.IgnoreSelf()
		if !tag.IgnoresSelf() || tag.IgnoresContents() {
			t.Error("IgnoreSelf() should only ignore the element itself")
		}
		tag.IgnoreSelfAndContents()
		if !tag.IgnoresSelf() || !tag.IgnoresContents() {
			t.Error("IgnoreSelfAndContents() should set both flags")
		}
		tag.RewriteAs("")
		if s, ok := tag.Rewrite(); !ok || s != "" {
			t.Errorf("Rewrite() = %q, %v; want empty rewrite set", s, ok)
		}
	}))
}

func TestTagEmptyRewrite(t *testing.T) {
	t.Parallel()

	tree := tagsanitizer.NewTree()
	div := tree.AppendElement(tree.Root(), "div")
	tree.AppendText(div, "gone")
	tree.AppendText(tree.Root(), "kept")

	out := tagsanitizer.Walk(tree, tagsanitizer.PolicyFunc(func(tag *tagsanitizer.Tag) {
		tag.RewriteAs("")
	}))
	if out != "kept" {
		t.Errorf("Walk() = %q, want %q", out, "kept")
	}
}

func TestTagRewriteAsNode(t *testing.T) {
	t.Parallel()

	tree := tagsanitizer.NewTree()
	tree.AppendElement(tree.Root(), "img", tagsanitizer.Attribute{Key: "src", Val: `/x/cat".png`})

	out := tagsanitizer.Walk(tree, tagsanitizer.PolicyFunc(func(tag *tagsanitizer.Tag) {
		src, _ := tag.Attr("src")
		if err := tag.RewriteAsNode(h.A(h.Href(src), g.Text("<cat>"))); err != nil {
			t.Errorf("RewriteAsNode() failed: %v", err)
		}
	}))

	want := `<a href="/x/cat&#34;.png">&lt;cat&gt;</a>`
	if out != want {
		t.Errorf("Walk() = %q, want %q", out, want)
	}
}
