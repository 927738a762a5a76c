// Package misc holds small shared analysis utilities: the statement/term
// census and the term-to-function index.
package misc

import (
	"drift/internal/ir"
	"drift/internal/ir/calling"
)

// Census enumerates every statement of a function and every term reachable
// from those statements, including the argument and return-value terms
// materialized by calling hooks. Order is deterministic: blocks in function
// order, statements in block order, terms in first-visit order.
type Census struct {
	stmts    []ir.StmtID
	terms    []ir.TermID
	seenTerm map[ir.TermID]bool
}

// TakeCensus walks f and returns its census. hooks may be nil, in which case
// no hook terms are included.
func TakeCensus(p *ir.Program, f *ir.Function, hooks *calling.Hooks) *Census {
	c := &Census{seenTerm: make(map[ir.TermID]bool)}
	for _, bid := range f.Blocks {
		for _, sid := range p.Block(bid).Stmts {
			c.visitStmt(p, f, sid, hooks)
		}
	}
	return c
}

func (c *Census) visitStmt(p *ir.Program, f *ir.Function, sid ir.StmtID, hooks *calling.Hooks) {
	c.stmts = append(c.stmts, sid)
	s := p.Stmt(sid)
	switch s.Kind {
	case ir.StmtComment, ir.StmtInlineCode:
	case ir.StmtAssignment:
		c.visitTerm(p, s.Assign.Left)
		c.visitTerm(p, s.Assign.Right)
	case ir.StmtKill:
		c.visitTerm(p, s.Kill.Term)
	case ir.StmtJump:
		c.visitTerm(p, s.Jump.Cond)
		c.visitTerm(p, s.Jump.Then.Addr)
		c.visitTerm(p, s.Jump.Else.Addr)
	case ir.StmtCall:
		c.visitTerm(p, s.Call.Target)
		if hooks != nil {
			for _, t := range hooks.CallHook(sid).Terms() {
				c.visitTerm(p, t)
			}
		}
	case ir.StmtReturn:
		if hooks != nil {
			for _, t := range hooks.ReturnHook(f, sid).Terms() {
				c.visitTerm(p, t)
			}
		}
	}
}

func (c *Census) visitTerm(p *ir.Program, tid ir.TermID) {
	if tid == ir.NoTermID || c.seenTerm[tid] {
		return
	}
	c.seenTerm[tid] = true
	c.terms = append(c.terms, tid)
	t := p.Term(tid)
	switch t.Kind {
	case ir.TermIntConst, ir.TermIntrinsic, ir.TermUndefined, ir.TermMemoryLocationAccess:
	case ir.TermDereference:
		c.visitTerm(p, t.Deref.Addr)
	case ir.TermUnaryOperator:
		c.visitTerm(p, t.Unary.Operand)
	case ir.TermBinaryOperator:
		c.visitTerm(p, t.Binary.Left)
		c.visitTerm(p, t.Binary.Right)
	case ir.TermChoice:
		c.visitTerm(p, t.Choice.Preferred)
		c.visitTerm(p, t.Choice.Dflt)
	}
}

// Statements returns the enumerated statements.
func (c *Census) Statements() []ir.StmtID { return c.stmts }

// Terms returns the enumerated terms.
func (c *Census) Terms() []ir.TermID { return c.terms }

// HasTerm reports whether tid belongs to the census.
func (c *Census) HasTerm(tid ir.TermID) bool { return c.seenTerm[tid] }
