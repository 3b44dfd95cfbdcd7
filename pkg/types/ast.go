package types

// Document is the parsed AST of one machine definition file: a title, the
// ordered import statements, and the ordered top-level definitions.
// The linking core only relies on definition names and containment; the
// definition bodies travel through untouched for downstream tooling.
type Document struct {
	Title   string
	Imports []ImportStatement
	Nodes   []*Node
}

// NodeKind distinguishes the definition categories of the DSL.
type NodeKind int

const (
	StateNode NodeKind = iota
	TaskNode
	ContextNode
)

// String returns the string representation of a NodeKind.
func (k NodeKind) String() string {
	switch k {
	case StateNode:
		return "state"
	case TaskNode:
		return "task"
	case ContextNode:
		return "context"
	default:
		return "unknown"
	}
}

// Node is one named definition, possibly nested. Parent is a non-owning
// back-reference to the containing definition: Clone never follows it, so
// cloning a definition during merge cannot drag in its enclosing file.
type Node struct {
	Name        string
	Kind        NodeKind
	Initial     bool
	Transitions []Transition
	Children    []*Node
	Parent      *Node
}

// Transition is one outgoing edge of a state or task definition.
type Transition struct {
	Event  string
	Target string
}

// Clone deep-copies the node and its children. The copy's Parent is nil and
// the children's Parent pointers are rewired to the copies.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Name:    n.Name,
		Kind:    n.Kind,
		Initial: n.Initial,
	}
	if len(n.Transitions) > 0 {
		out.Transitions = make([]Transition, len(n.Transitions))
		copy(out.Transitions, n.Transitions)
	}
	for _, child := range n.Children {
		c := child.Clone()
		c.Parent = out
		out.Children = append(out.Children, c)
	}
	return out
}

// QualifiedName is the dotted path of the node within its document, e.g.
// "Traffic.Green" for a child of "Traffic".
func (n *Node) QualifiedName() string {
	if n.Parent == nil {
		return n.Name
	}
	return n.Parent.QualifiedName() + "." + n.Name
}

// Walk visits the node and its descendants in depth-first declaration order.
// Returning false from fn stops the traversal.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// FindNode locates a definition by name in depth-first declaration order.
// An exact match against the dotted qualified name is preferred; otherwise
// the first node whose own name equals the last dot-separated segment wins.
// When several nodes share the short name, the first structural match in
// declaration order is returned deliberately (not a traversal accident);
// callers that care about ambiguity use FindNodes.
func (d *Document) FindNode(name string) *Node {
	matches := d.FindNodes(name)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// FindNodes returns every definition matching name, in declaration order.
// Exact qualified-name matches sort ahead of short-name matches.
func (d *Document) FindNodes(name string) []*Node {
	short := name
	if i := lastDot(name); i >= 0 {
		short = name[i+1:]
	}

	var exact, bySegment []*Node
	for _, top := range d.Nodes {
		top.Walk(func(n *Node) bool {
			switch {
			case n.Name == name || n.QualifiedName() == name:
				exact = append(exact, n)
			case n.Name == short:
				bySegment = append(bySegment, n)
			}
			return true
		})
	}
	return append(exact, bySegment...)
}

// LocalNames returns the names of every top-level definition, in order.
func (d *Document) LocalNames() []string {
	names := make([]string, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		names = append(names, n.Name)
	}
	return names
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}
