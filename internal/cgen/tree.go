// Package cgen holds the output tree handed to source synthesis. The core
// produces the tree skeleton — per-function nodes referencing the live
// statements and terms — and a diagnostic check that every reference belongs
// to the producing function's census. Rendering the tree into source text is
// outside the core.
package cgen

import "drift/internal/ir"

type NodeID int32

const NoNodeID NodeID = -1

// NodeKind distinguishes tree nodes.
type NodeKind uint8

const (
	// NodeUnit is the compilation-unit root.
	NodeUnit NodeKind = iota
	// NodeFunction is one function's subtree root.
	NodeFunction
	// NodeStatement mirrors an IR statement that survived liveness.
	NodeStatement
	// NodeExpression mirrors a live IR term.
	NodeExpression
)

// Node is one output tree node. Stmt and Term are back-references into the
// IR; NoStmtID/NoTermID for synthetic nodes.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Children []NodeID

	Func ir.FuncID
	Name string

	Stmt ir.StmtID
	Term ir.TermID
}

// Tree is the generated output tree.
type Tree struct {
	nodes []Node
	root  NodeID
}

func NewTree() *Tree {
	t := &Tree{}
	t.root = t.newNode(Node{Kind: NodeUnit, Func: ir.NoFuncID, Stmt: ir.NoStmtID, Term: ir.NoTermID})
	return t
}

func (t *Tree) newNode(n Node) NodeID {
	n.ID = NodeID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	return n.ID
}

// Root returns the unit node.
func (t *Tree) Root() NodeID { return t.root }

// Node returns the node for id.
func (t *Tree) Node(id NodeID) *Node { return &t.nodes[id] }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// AddFunction appends a function subtree root under the unit node.
func (t *Tree) AddFunction(f ir.FuncID, name string) NodeID {
	id := t.newNode(Node{Kind: NodeFunction, Func: f, Name: name, Stmt: ir.NoStmtID, Term: ir.NoTermID})
	root := &t.nodes[t.root]
	root.Children = append(root.Children, id)
	return id
}

// AddStatement appends a statement node under parent.
func (t *Tree) AddStatement(parent NodeID, stmt ir.StmtID) NodeID {
	id := t.newNode(Node{Kind: NodeStatement, Func: t.nodes[parent].Func, Stmt: stmt, Term: ir.NoTermID})
	p := &t.nodes[parent]
	p.Children = append(p.Children, id)
	return id
}

// AddExpression appends an expression node under parent.
func (t *Tree) AddExpression(parent NodeID, term ir.TermID) NodeID {
	id := t.newNode(Node{Kind: NodeExpression, Func: t.nodes[parent].Func, Stmt: ir.NoStmtID, Term: term})
	p := &t.nodes[parent]
	p.Children = append(p.Children, id)
	return id
}

// Walk visits every node reachable from the root in depth-first order.
func (t *Tree) Walk(visit func(*Node)) {
	var walk func(NodeID)
	walk = func(id NodeID) {
		n := &t.nodes[id]
		visit(n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	if len(t.nodes) > 0 {
		walk(t.root)
	}
}
