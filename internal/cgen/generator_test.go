package cgen_test

import (
	"testing"

	"drift/internal/arch"
	"drift/internal/cgen"
	"drift/internal/diag"
	"drift/internal/ir"
	"drift/internal/ir/liveness"
)

func regLoc(off uint64) ir.MemoryLocation {
	return ir.MemoryLocation{Domain: arch.DomainRegisters, Offset: off, Size: 8}
}

func countKind(tree *cgen.Tree, kind cgen.NodeKind) int {
	n := 0
	tree.Walk(func(node *cgen.Node) {
		if node.Kind == kind {
			n++
		}
	})
	return n
}

func TestGenerateDropsDeadAssignments(t *testing.T) {
	p := ir.NewProgram()
	b := p.NewBlock(0x1000, true)

	liveDst := p.NewMemAccess(regLoc(0), ir.AccessWrite)
	liveSrc := p.NewIntConst(1, 64)
	liveAssign := p.NewAssignment(liveDst, liveSrc)
	p.AppendStmt(b, liveAssign)

	deadDst := p.NewMemAccess(regLoc(8), ir.AccessWrite)
	deadSrc := p.NewIntConst(2, 64)
	p.AppendStmt(b, p.NewAssignment(deadDst, deadSrc))

	p.AppendStmt(b, p.NewKill(deadDst))
	p.AppendStmt(b, p.NewComment("prologue"))
	p.AppendStmt(b, p.NewReturn())

	fns := &ir.Functions{}
	fns.Add(&ir.Function{Name: "f", Entry: b, Blocks: []ir.BlockID{b}})

	live := liveness.NewLiveness()
	live.MakeLive(liveDst)
	live.MakeLive(liveSrc)

	tree := cgen.Generate(p, fns, nil, liveness.Livenesses{fns.Funcs[0].ID: live})

	// One function, three statements (assignment, comment, return), two
	// expressions under the assignment.
	if got := countKind(tree, cgen.NodeFunction); got != 1 {
		t.Fatalf("got %d function nodes", got)
	}
	if got := countKind(tree, cgen.NodeStatement); got != 3 {
		t.Fatalf("got %d statement nodes, want 3", got)
	}
	if got := countKind(tree, cgen.NodeExpression); got != 2 {
		t.Fatalf("got %d expression nodes, want 2", got)
	}

	stmts := map[ir.StmtID]bool{}
	tree.Walk(func(n *cgen.Node) {
		if n.Kind == cgen.NodeStatement {
			stmts[n.Stmt] = true
		}
	})
	if !stmts[liveAssign] {
		t.Fatalf("live assignment missing from tree")
	}
}

func TestGenerateDropsDeadJumps(t *testing.T) {
	p := ir.NewProgram()
	b := p.NewBlock(0x1000, true)

	cond := p.NewMemAccess(regLoc(0), ir.AccessRead)
	addr := p.NewIntConst(0x4000, 64)
	p.AppendStmt(b, p.NewJump(cond, ir.JumpTarget{Addr: addr, Block: ir.NoBlockID}, ir.NoJumpTarget()))

	fns := &ir.Functions{}
	fns.Add(&ir.Function{Name: "f", Entry: b, Blocks: []ir.BlockID{b}})

	// Nothing live: the jump disappears.
	tree := cgen.Generate(p, fns, nil, liveness.Livenesses{fns.Funcs[0].ID: liveness.NewLiveness()})
	if got := countKind(tree, cgen.NodeStatement); got != 0 {
		t.Fatalf("dead jump kept: %d statement nodes", got)
	}

	live := liveness.NewLiveness()
	live.MakeLive(cond)
	live.MakeLive(addr)
	tree = cgen.Generate(p, fns, nil, liveness.Livenesses{fns.Funcs[0].ID: live})
	if got := countKind(tree, cgen.NodeStatement); got != 1 {
		t.Fatalf("live jump dropped: %d statement nodes", got)
	}
	if got := countKind(tree, cgen.NodeExpression); got != 2 {
		t.Fatalf("got %d jump operand nodes, want 2", got)
	}
}

func TestGenerateKeepsCallsUnconditionally(t *testing.T) {
	p := ir.NewProgram()
	b := p.NewBlock(0x1000, true)
	target := p.NewIntConst(0x400100, 64)
	p.AppendStmt(b, p.NewCall(target))

	fns := &ir.Functions{}
	fns.Add(&ir.Function{Name: "f", Entry: b, Blocks: []ir.BlockID{b}})

	tree := cgen.Generate(p, fns, nil, liveness.Livenesses{fns.Funcs[0].ID: liveness.NewLiveness()})
	if got := countKind(tree, cgen.NodeStatement); got != 1 {
		t.Fatalf("call dropped: %d statement nodes", got)
	}
	if got := countKind(tree, cgen.NodeExpression); got != 1 {
		t.Fatalf("call target dropped: %d expression nodes", got)
	}
}

func TestCheckTreeFlagsForeignReferences(t *testing.T) {
	p := ir.NewProgram()
	b := p.NewBlock(0x1000, true)
	p.AppendStmt(b, p.NewReturn())
	fns := &ir.Functions{}
	fns.Add(&ir.Function{Name: "f", Entry: b, Blocks: []ir.BlockID{b}})

	// A statement and a term no census covers.
	foreignStmt := p.NewComment("unattached")
	foreignTerm := p.NewIntConst(0, 64)

	tree := cgen.NewTree()
	fnode := tree.AddFunction(fns.Funcs[0].ID, "f")
	tree.AddStatement(fnode, foreignStmt)
	tree.AddExpression(fnode, foreignTerm)

	bag := diag.NewBag(10)
	violations := cgen.CheckTree(p, fns, nil, tree, diag.BagReporter{Bag: bag})
	if violations != 2 {
		t.Fatalf("got %d violations, want 2", violations)
	}
	codes := map[diag.Code]bool{}
	for _, d := range bag.Items() {
		codes[d.Code] = true
	}
	if !codes[diag.TreeForeignStatement] || !codes[diag.TreeForeignTerm] {
		t.Fatalf("wrong diagnostic codes: %v", bag.Items())
	}

	clean := cgen.Generate(p, fns, nil, nil)
	if got := cgen.CheckTree(p, fns, nil, clean, diag.NopReporter{}); got != 0 {
		t.Fatalf("generated tree has %d violations", got)
	}
}
