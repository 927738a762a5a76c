package calling

import "drift/internal/ir"

// Signature is the reconstructed description of a callee: the cells its
// arguments arrive in and the cell its result leaves in.
type Signature struct {
	Name string

	// Args are the argument cells in passing order.
	Args []ir.MemoryLocation

	// Ret is the return-value cell; invalid for void.
	Ret ir.MemoryLocation
}

// HasReturnValue reports whether the callee produces a result.
func (s *Signature) HasReturnValue() bool {
	return s != nil && s.Ret.IsValid()
}

// Signatures maps callee identities to reconstructed signatures. A
// Signatures instance is written by the signature reconstruction pass and
// treated as a read-only snapshot by every later pass.
type Signatures struct {
	m map[CalleeID]*Signature
}

func NewSignatures() *Signatures {
	return &Signatures{m: make(map[CalleeID]*Signature)}
}

// Set records the signature for id.
func (s *Signatures) Set(id CalleeID, sig *Signature) {
	s.m[id] = sig
}

// Get returns the signature for id, or nil when none was reconstructed.
func (s *Signatures) Get(id CalleeID) *Signature {
	if s == nil {
		return nil
	}
	return s.m[id]
}

// Len returns the number of reconstructed signatures.
func (s *Signatures) Len() int { return len(s.m) }
