// Package cflow holds the structural region graph produced by the external
// control-flow structuring pass. The analysis core reads it to recognize
// control-flow shaping constructs, in particular the synthetic bounds-check
// branch of a recovered switch.
package cflow

import "drift/internal/ir"

type NodeID int32

const NoNodeID NodeID = -1

// NodeKind distinguishes graph nodes.
type NodeKind uint8

const (
	// NodeBasic wraps a single basic block.
	NodeBasic NodeKind = iota
	// NodeRegion groups child nodes into a recovered control structure.
	NodeRegion
)

// RegionKind enumerates recovered control structures.
type RegionKind uint8

const (
	RegionBlock RegionKind = iota
	RegionIfThen
	RegionIfThenElse
	RegionLoop
	RegionSwitch
)

// Node is a structural graph node: either a basic node wrapping one block or
// a region grouping children.
type Node struct {
	ID   NodeID
	Kind NodeKind

	// Block is the wrapped basic block for basic nodes.
	Block ir.BlockID

	// Region fields.
	Region   RegionKind
	Children []NodeID

	// BoundsCheck is, for a switch region, the basic node whose terminating
	// jump is the synthetic range check; NoNodeID when the switch has none.
	BoundsCheck NodeID
}

// Graph is the per-function structural region graph.
type Graph struct {
	nodes []Node
}

func NewGraph() *Graph {
	return &Graph{}
}

// NewBasicNode adds a basic node wrapping block.
func (g *Graph) NewBasicNode(block ir.BlockID) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{ID: id, Kind: NodeBasic, Block: block, BoundsCheck: NoNodeID})
	return id
}

// NewRegion adds a region node of the given kind over children.
func (g *Graph) NewRegion(kind RegionKind, children ...NodeID) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{
		ID:          id,
		Kind:        NodeRegion,
		Block:       ir.NoBlockID,
		Region:      kind,
		Children:    children,
		BoundsCheck: NoNodeID,
	})
	return id
}

// SetBoundsCheck marks a switch region's bounds-check node.
func (g *Graph) SetBoundsCheck(region, boundsCheck NodeID) {
	g.nodes[region].BoundsCheck = boundsCheck
}

// Node returns the node for id.
func (g *Graph) Node(id NodeID) *Node {
	return &g.nodes[id]
}

// Nodes returns all nodes in creation order.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Graphs maps each function to its structural graph.
type Graphs map[ir.FuncID]*Graph
