// Package types holds the reconstructed-types artifact produced by the
// external type reconstruction pass.
package types

import "drift/internal/ir"

// Type is a reconstructed term type.
type Type struct {
	Size      uint32
	IsSigned  bool
	IsPointer bool
}

// Types maps terms to their reconstructed types.
type Types struct {
	byTerm map[ir.TermID]*Type
}

func New() *Types {
	return &Types{byTerm: make(map[ir.TermID]*Type)}
}

// Set records the type of term.
func (t *Types) Set(term ir.TermID, typ *Type) {
	t.byTerm[term] = typ
}

// OfTerm returns the type of term, or nil when unknown.
func (t *Types) OfTerm(term ir.TermID) *Type {
	return t.byTerm[term]
}

// Len returns the number of typed terms.
func (t *Types) Len() int { return len(t.byTerm) }
