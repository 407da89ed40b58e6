package tagsanitizer

import (
	"strings"

	g "maragu.dev/gomponents"
)

// Tag is the decision made for one element. A fresh Tag is handed to the
// Policy for every element of a walk; the Policy reads Name and Attrs and
// records its ruling through the methods below.
//
// By default the element is printed with all of its children and none of
// its attributes.
type Tag struct {
	// Name is the element's tag name, e.g. "div" or "img".
	Name string

	// Attrs are the element's attributes in document order. They belong to
	// the Tree and must not be modified.
	Attrs []Attribute

	allowed        []string
	ignoreSelf     bool
	ignoreContents bool
	rewrite        string
	rewritten      bool
}

func newTag(name string, attrs []Attribute) *Tag {
	return &Tag{Name: name, Attrs: attrs}
}

// Attr returns the value of the first attribute named key.
func (t *Tag) Attr(key string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// AllowAttribute keeps the named attribute when the element is printed.
// The attribute does not have to exist on the element.
func (t *Tag) AllowAttribute(name string) {
	t.allowed = append(t.allowed, name)
}

// AllowAttributes is AllowAttribute for several names.
func (t *Tag) AllowAttributes(names ...string) {
	t.allowed = append(t.allowed, names...)
}

// IgnoreSelf omits the element's own markup but still prints its children.
func (t *Tag) IgnoreSelf() {
	t.ignoreSelf = true
}

// IgnoreSelfAndContents omits the element and everything inside it.
func (t *Tag) IgnoreSelfAndContents() {
	t.ignoreSelf = true
	t.ignoreContents = true
}

// RewriteAs replaces the element and all of its children with s. The text
// is printed as is; the caller is responsible for its markup. A rewrite
// takes precedence over every other decision.
func (t *Tag) RewriteAs(s string) {
	t.rewrite = s
	t.rewritten = true
}

// RewriteAsNode renders n and uses the result as the rewrite text.
// Text and attribute values inside n are escaped by gomponents.
func (t *Tag) RewriteAsNode(n g.Node) error {
	var sb strings.Builder
	if err := n.Render(&sb); err != nil {
		return err
	}
	t.RewriteAs(sb.String())
	return nil
}

// AllowedAttributes returns the names allowed so far, in the order given.
func (t *Tag) AllowedAttributes() []string { return t.allowed }

func (t *Tag) IgnoresSelf() bool { return t.ignoreSelf }

func (t *Tag) IgnoresContents() bool { return t.ignoreContents }

// Rewrite returns the rewrite text and whether one was set.
func (t *Tag) Rewrite() (string, bool) { return t.rewrite, t.rewritten }

func (t *Tag) isAllowed(key string) bool {
	for _, a := range t.allowed {
		if a == key {
			return true
		}
	}
	return false
}
