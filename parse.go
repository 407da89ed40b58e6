package tagsanitizer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Parse reads an HTML document from r and converts it into a Tree.
// Scripting is disabled while parsing, so <noscript> content is parsed as
// markup rather than raw text.
func Parse(r io.Reader) (*Tree, error) {
	doc, err := html.ParseWithOptions(r, html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHTML, err)
	}
	return FromHTML(doc), nil
}

// ParseString is Parse over an in-memory document.
func ParseString(s string) (*Tree, error) {
	return Parse(strings.NewReader(s))
}

// FromHTML converts an x/net/html node and its descendants into a Tree.
// A document node becomes the Tree root; any other node becomes the single
// child of a fresh root.
func FromHTML(n *html.Node) *Tree {
	t := NewTree()
	if n == nil {
		return t
	}
	if n.Type == html.DocumentNode {
		convertChildren(t, t.Root(), n)
	} else {
		convertNode(t, t.Root(), n)
	}
	return t
}

func convertChildren(t *Tree, parent NodeID, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		convertNode(t, parent, c)
	}
}

func convertNode(t *Tree, parent NodeID, n *html.Node) {
	var id NodeID
	switch n.Type {
	case html.ElementNode:
		var attrs []Attribute
		if len(n.Attr) > 0 {
			attrs = make([]Attribute, len(n.Attr))
			for i, a := range n.Attr {
				attrs[i] = Attribute{Key: qualifiedName(a.Namespace, a.Key), Val: a.Val}
			}
		}
		id = t.AppendElement(parent, n.Data, attrs...)
	case html.TextNode:
		id = t.AppendText(parent, n.Data)
	case html.CommentNode:
		id = t.AppendComment(parent, n.Data)
	case html.DoctypeNode:
		id = t.AppendDoctype(parent, n.Data)
	case html.DocumentNode:
		// A nested document is not something the parser produces; keep its
		// children under the current parent.
		convertChildren(t, parent, n)
		return
	default:
		id = t.AppendProcessingInstruction(parent, n.Data)
	}
	convertChildren(t, id, n)
}

func qualifiedName(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + ":" + key
}
