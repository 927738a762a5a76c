// Package vars holds the reconstructed-variables artifact: terms grouped
// into variables by the external variable reconstruction pass.
package vars

import "drift/internal/ir"

type VariableID int32

const NoVariableID VariableID = -1

// Variable is one reconstructed variable and the accesses it covers.
type Variable struct {
	ID    VariableID
	Loc   ir.MemoryLocation
	Terms []ir.TermID
}

// Variables maps term accesses to reconstructed variables.
type Variables struct {
	vars   []*Variable
	byTerm map[ir.TermID]*Variable
}

func New() *Variables {
	return &Variables{byTerm: make(map[ir.TermID]*Variable)}
}

// Add registers a variable and indexes its terms.
func (v *Variables) Add(variable *Variable) {
	variable.ID = VariableID(len(v.vars))
	v.vars = append(v.vars, variable)
	for _, t := range variable.Terms {
		v.byTerm[t] = variable
	}
}

// OfTerm returns the variable covering term, or nil.
func (v *Variables) OfTerm(term ir.TermID) *Variable {
	return v.byTerm[term]
}

// All returns every variable in creation order.
func (v *Variables) All() []*Variable { return v.vars }
