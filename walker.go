package tagsanitizer

import (
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

// Text directly inside these elements is never escaped; the parser hands it
// over as raw text and escaping it would change what the element contains.
var rawTextElements = map[string]bool{
	"iframe":    true,
	"noembed":   true,
	"noframes":  true,
	"plaintext": true,
	"script":    true,
	"style":     true,
	"xmp":       true,
}

// Walker serializes a Tree under a Policy. A Walker holds only its options
// and is safe for concurrent use.
type Walker struct {
	logger   zerolog.Logger
	verbatim bool
}

// WalkerOption configures a Walker.
type WalkerOption func(*Walker)

// WithLogger sets the logger that receives nodes the walker cannot render.
func WithLogger(l zerolog.Logger) WalkerOption {
	return func(w *Walker) { w.logger = l }
}

// WithVerbatim turns escaping off: text and attribute values are printed
// exactly as the parser produced them.
func WithVerbatim() WalkerOption {
	return func(w *Walker) { w.verbatim = true }
}

// NewWalker returns a Walker that escapes text and attribute values.
func NewWalker(opts ...WalkerOption) *Walker {
	w := &Walker{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

var defaultWalker = NewWalker()

// Walk serializes tree under policy with a default Walker.
func Walk(tree *Tree, policy Policy) string {
	return defaultWalker.Walk(tree, policy)
}

// Walk visits the tree depth-first in document order, asks policy about
// every element and returns the sanitized markup. A nil policy behaves like
// DenyAttributes.
func (w *Walker) Walk(tree *Tree, policy Policy) string {
	if tree == nil {
		return ""
	}
	if policy == nil {
		policy = DenyAttributes
	}
	var sb strings.Builder
	sb.Grow(builderInitialSize)
	w.walk(&sb, tree, tree.Root(), policy, false)
	return sb.String()
}

func (w *Walker) walk(sb *strings.Builder, t *Tree, id NodeID, policy Policy, rawParent bool) {
	switch t.Kind(id) {
	case ElementNode:
		w.walkElement(sb, t, id, policy)
		return
	case TextNode:
		text := strings.TrimSpace(t.Content(id))
		if w.verbatim || rawParent {
			sb.WriteString(text)
		} else {
			sb.WriteString(html.EscapeString(text))
		}
		return
	case CommentNode, DoctypeNode:
		return
	case DocumentNode:
	default:
		w.logger.Debug().
			Str("kind", t.Kind(id).String()).
			Str("data", t.Content(id)).
			Msg("skipping node that cannot be rendered")
	}
	for _, c := range t.Children(id) {
		w.walk(sb, t, c, policy, false)
	}
}

func (w *Walker) walkElement(sb *strings.Builder, t *Tree, id NodeID, policy Policy) {
	name := t.Name(id)
	tag := newTag(name, t.Attributes(id))
	policy.Decide(tag)

	if rewrite, ok := tag.Rewrite(); ok {
		sb.WriteString(rewrite)
		return
	}
	if tag.ignoreSelf && tag.ignoreContents {
		return
	}

	if !tag.ignoreSelf {
		sb.WriteByte('<')
		sb.WriteString(name)
		for _, a := range tag.Attrs {
			if !tag.isAllowed(a.Key) {
				continue
			}
			sb.WriteByte(' ')
			sb.WriteString(a.Key)
			sb.WriteString(`="`)
			if w.verbatim {
				sb.WriteString(a.Val)
			} else {
				sb.WriteString(html.EscapeString(a.Val))
			}
			sb.WriteByte('"')
		}
		sb.WriteByte('>')
	}

	if !tag.ignoreContents {
		// Unwrapped raw text has no element around it and is escaped like any other.
		raw := !tag.ignoreSelf && rawTextElements[strings.ToLower(name)]
		for _, c := range t.Children(id) {
			w.walk(sb, t, c, policy, raw)
		}
	}

	if !tag.ignoreSelf {
		sb.WriteString("</")
		sb.WriteString(name)
		sb.WriteByte('>')
	}
}
