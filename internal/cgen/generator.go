package cgen

import (
	"drift/internal/diag"
	"drift/internal/ir"
	"drift/internal/ir/calling"
	"drift/internal/ir/liveness"
	"drift/internal/ir/misc"
)

// Generate builds the output tree skeleton: one function node per function,
// statement nodes for the statements liveness kept, and expression nodes for
// the live terms each kept statement references. Dead assignments and dead
// jumps are omitted entirely.
func Generate(p *ir.Program, fns *ir.Functions, hooks *calling.Hooks, livenesses liveness.Livenesses) *Tree {
	tree := NewTree()
	if fns == nil {
		return tree
	}
	for _, f := range fns.Funcs {
		live := livenesses[f.ID]
		fnode := tree.AddFunction(f.ID, f.Name)
		for _, bid := range f.Blocks {
			for _, sid := range p.Block(bid).Stmts {
				generateStmt(tree, fnode, p, f, hooks, sid, live)
			}
		}
	}
	return tree
}

func generateStmt(tree *Tree, fnode NodeID, p *ir.Program, f *ir.Function, hooks *calling.Hooks, sid ir.StmtID, live *liveness.Liveness) {
	isLive := func(t ir.TermID) bool {
		return t != ir.NoTermID && live != nil && live.IsLive(t)
	}
	s := p.Stmt(sid)
	switch s.Kind {
	case ir.StmtComment, ir.StmtInlineCode:
		tree.AddStatement(fnode, sid)
	case ir.StmtReturn:
		node := tree.AddStatement(fnode, sid)
		if hooks != nil {
			for _, t := range hooks.ReturnHook(f, sid).Terms() {
				if isLive(t) {
					tree.AddExpression(node, t)
				}
			}
		}
	case ir.StmtKill:
		// Kills carry no observable behavior; never emitted.
	case ir.StmtAssignment:
		if !isLive(s.Assign.Left) {
			return
		}
		node := tree.AddStatement(fnode, sid)
		tree.AddExpression(node, s.Assign.Left)
		tree.AddExpression(node, s.Assign.Right)
	case ir.StmtJump:
		if !isLive(s.Jump.Cond) && !isLive(s.Jump.Then.Addr) && !isLive(s.Jump.Else.Addr) {
			return
		}
		node := tree.AddStatement(fnode, sid)
		for _, t := range []ir.TermID{s.Jump.Cond, s.Jump.Then.Addr, s.Jump.Else.Addr} {
			if isLive(t) {
				tree.AddExpression(node, t)
			}
		}
	case ir.StmtCall:
		node := tree.AddStatement(fnode, sid)
		if s.Call.Target != ir.NoTermID {
			tree.AddExpression(node, s.Call.Target)
		}
		if hooks != nil {
			for _, t := range hooks.CallHook(sid).Terms() {
				if isLive(t) {
					tree.AddExpression(node, t)
				}
			}
		}
	}
}

// CheckTree is the diagnostic-only consistency pass: every statement or term
// a tree node references must belong to some function's census. Violations
// are reported as warnings and counted; they indicate a programming error in
// tree generation, never bad input.
func CheckTree(p *ir.Program, fns *ir.Functions, hooks *calling.Hooks, tree *Tree, reporter diag.Reporter) int {
	stmts := make(map[ir.StmtID]bool)
	terms := make(map[ir.TermID]bool)
	if fns != nil {
		for _, f := range fns.Funcs {
			census := misc.TakeCensus(p, f, hooks)
			for _, sid := range census.Statements() {
				stmts[sid] = true
			}
			for _, tid := range census.Terms() {
				terms[tid] = true
			}
		}
	}

	violations := 0
	tree.Walk(func(n *Node) {
		if n.Stmt != ir.NoStmtID && !stmts[n.Stmt] {
			violations++
			diag.Warning(reporter, diag.TreeForeignStatement, "",
				"tree node %d references statement %d outside any census", n.ID, n.Stmt)
		}
		if n.Term != ir.NoTermID && !terms[n.Term] {
			violations++
			diag.Warning(reporter, diag.TreeForeignTerm, "",
				"tree node %d references term %d outside any census", n.ID, n.Term)
		}
	})
	return violations
}
