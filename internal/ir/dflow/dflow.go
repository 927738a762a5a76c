// Package dflow holds the reaching-definitions artifact produced by the
// dataflow analyzer. The analysis core only reads it: per-term resolved
// memory locations, per-read definition sets, and abstract values.
package dflow

import "drift/internal/ir"

// Chunk is the part of a definition set covering one slice of the accessed
// location, listing every write term whose value can reach it.
type Chunk struct {
	Loc  ir.MemoryLocation
	Defs []ir.TermID
}

// Definitions is the set of writes reaching one read, grouped into chunks by
// the location slice they cover.
type Definitions struct {
	Chunks []Chunk
}

// Empty reports whether no definition reaches the read.
func (d Definitions) Empty() bool {
	for _, c := range d.Chunks {
		if len(c.Defs) > 0 {
			return false
		}
	}
	return true
}

// Value is the abstract value computed for a term. The zero value means
// "nothing known".
type Value struct {
	Concrete bool
	Const    uint64
}

// Dataflow is the per-function dataflow artifact, keyed by term handle.
type Dataflow struct {
	memlocs map[ir.TermID]ir.MemoryLocation
	defs    map[ir.TermID]Definitions
	values  map[ir.TermID]Value
}

func New() *Dataflow {
	return &Dataflow{
		memlocs: make(map[ir.TermID]ir.MemoryLocation),
		defs:    make(map[ir.TermID]Definitions),
		values:  make(map[ir.TermID]Value),
	}
}

// SetMemoryLocation records the resolved location of a term's access.
func (d *Dataflow) SetMemoryLocation(term ir.TermID, loc ir.MemoryLocation) {
	d.memlocs[term] = loc
}

// MemoryLocation returns the resolved location of a term's access; the zero
// location when unresolved.
func (d *Dataflow) MemoryLocation(term ir.TermID) ir.MemoryLocation {
	return d.memlocs[term]
}

// SetDefinitions records the definition set reaching a read term.
func (d *Dataflow) SetDefinitions(term ir.TermID, defs Definitions) {
	d.defs[term] = defs
}

// Definitions returns the definition set reaching a read term; empty when
// none was recorded.
func (d *Dataflow) Definitions(term ir.TermID) Definitions {
	return d.defs[term]
}

// SetValue records the abstract value of a term.
func (d *Dataflow) SetValue(term ir.TermID, v Value) {
	d.values[term] = v
}

// Value returns the abstract value of a term.
func (d *Dataflow) Value(term ir.TermID) Value {
	return d.values[term]
}

// Dataflows maps each function to its dataflow artifact.
type Dataflows map[ir.FuncID]*Dataflow
