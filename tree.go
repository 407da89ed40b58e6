package tagsanitizer

// NodeKind identifies the type of a Tree node.
type NodeKind uint8

const (
	DocumentNode NodeKind = iota
	ElementNode
	TextNode
	CommentNode
	DoctypeNode
	ProcessingInstructionNode
)

var nodeKindNames = [...]string{
	DocumentNode:              "document",
	ElementNode:               "element",
	TextNode:                  "text",
	CommentNode:               "comment",
	DoctypeNode:               "doctype",
	ProcessingInstructionNode: "processing-instruction",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "unknown"
}

// NodeID addresses a node inside the Tree that created it.
type NodeID int

// Attribute is a single key/value pair of an element, in document order.
type Attribute struct {
	Key string
	Val string
}

type node struct {
	kind     NodeKind
	name     string
	content  string
	attrs    []Attribute
	children []NodeID
}

// Tree is an arena of nodes addressed by NodeID. Children are stored as ID
// lists on their parent, so a Tree has no back-pointers and is walked top-down.
//
// A Tree must not be modified while it is being walked. Any number of walks
// may share one Tree concurrently as long as nobody appends to it.
type Tree struct {
	nodes []node
}

// NewTree returns a Tree holding only its Document root.
func NewTree() *Tree {
	t := &Tree{nodes: make([]node, 1, initialTreeCap)}
	t.nodes[0] = node{kind: DocumentNode}
	return t
}

// Root returns the Document node.
func (t *Tree) Root() NodeID { return 0 }

// Len returns the number of nodes, including the root.
func (t *Tree) Len() int { return len(t.nodes) }

func (t *Tree) Kind(id NodeID) NodeKind { return t.nodes[id].kind }

// Name returns the tag name of an element, or "" for other kinds.
func (t *Tree) Name(id NodeID) string { return t.nodes[id].name }

// Attributes returns the element's attributes in document order. The slice
// is owned by the Tree and must be treated as read-only.
func (t *Tree) Attributes(id NodeID) []Attribute { return t.nodes[id].attrs }

// Children returns the child IDs in document order. The slice is owned by
// the Tree and must be treated as read-only.
func (t *Tree) Children(id NodeID) []NodeID { return t.nodes[id].children }

// Content returns the raw text of a text, comment, doctype or processing
// instruction node.
func (t *Tree) Content(id NodeID) string { return t.nodes[id].content }

// AppendElement adds an element as the last child of parent.
func (t *Tree) AppendElement(parent NodeID, name string, attrs ...Attribute) NodeID {
	return t.append(parent, node{kind: ElementNode, name: name, attrs: attrs})
}

// AppendText adds a text node as the last child of parent.
func (t *Tree) AppendText(parent NodeID, content string) NodeID {
	return t.append(parent, node{kind: TextNode, content: content})
}

func (t *Tree) AppendComment(parent NodeID, data string) NodeID {
	return t.append(parent, node{kind: CommentNode, content: data})
}

func (t *Tree) AppendDoctype(parent NodeID, name string) NodeID {
	return t.append(parent, node{kind: DoctypeNode, content: name})
}

// AppendProcessingInstruction adds a node the sanitizer does not render.
// Parsers map node types without an equivalent here as well.
func (t *Tree) AppendProcessingInstruction(parent NodeID, data string) NodeID {
	return t.append(parent, node{kind: ProcessingInstructionNode, content: data})
}

func (t *Tree) append(parent NodeID, n node) NodeID {
	_ = t.nodes[parent] // parent must exist
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id
}

// Depth returns the number of nodes on the longest root-to-leaf path,
// not counting the Document root.
func (t *Tree) Depth() int {
	return t.depth(t.Root())
}

func (t *Tree) depth(id NodeID) int {
	deepest := 0
	for _, c := range t.nodes[id].children {
		if d := t.depth(c) + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}

// deeperThan reports whether any path below id is longer than limit,
// stopping at the first one that is.
func (t *Tree) deeperThan(id NodeID, limit int) bool {
	if limit < 0 {
		return true
	}
	for _, c := range t.nodes[id].children {
		if t.deeperThan(c, limit-1) {
			return true
		}
	}
	return false
}
