package misc

import (
	"drift/internal/ir"
	"drift/internal/ir/calling"
)

// TermToFunction maps every term enumerated by any function's census back to
// the function it belongs to. Built once at the end of the pipeline for
// consumers that hold a term handle without its context.
type TermToFunction struct {
	m map[ir.TermID]ir.FuncID
}

// NewTermToFunction builds the index over all functions.
func NewTermToFunction(p *ir.Program, fns *ir.Functions, hooks *calling.Hooks) *TermToFunction {
	idx := &TermToFunction{m: make(map[ir.TermID]ir.FuncID)}
	if fns == nil {
		return idx
	}
	for _, f := range fns.Funcs {
		census := TakeCensus(p, f, hooks)
		for _, tid := range census.Terms() {
			idx.m[tid] = f.ID
		}
	}
	return idx
}

// Function returns the function owning tid, or NoFuncID.
func (t *TermToFunction) Function(tid ir.TermID) ir.FuncID {
	if f, ok := t.m[tid]; ok {
		return f
	}
	return ir.NoFuncID
}

// Len returns the number of indexed terms.
func (t *TermToFunction) Len() int { return len(t.m) }
