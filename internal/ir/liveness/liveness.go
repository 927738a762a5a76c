// Package liveness decides, per function, which IR terms have an observable
// value or effect. Tree generation later drops everything not in the live
// set: dead stores, redundant intermediate computations, and the operands of
// structurally dead jumps.
package liveness

import (
	"sort"

	"drift/internal/ir"
)

// Liveness is the per-function result: the set of live terms, keyed by term
// handle. It grows monotonically while the analyzer runs and is immutable
// and shareable afterwards.
type Liveness struct {
	live map[ir.TermID]bool
}

func NewLiveness() *Liveness {
	return &Liveness{live: make(map[ir.TermID]bool)}
}

// IsLive reports whether term has been marked live.
func (l *Liveness) IsLive(term ir.TermID) bool {
	return l.live[term]
}

// MakeLive marks term live. Marking is idempotent and never undone.
func (l *Liveness) MakeLive(term ir.TermID) {
	l.live[term] = true
}

// Len returns the number of live terms.
func (l *Liveness) Len() int { return len(l.live) }

// Terms returns the live terms in ascending handle order.
func (l *Liveness) Terms() []ir.TermID {
	out := make([]ir.TermID, 0, len(l.live))
	for t := range l.live {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Livenesses maps each function to its liveness set.
type Livenesses map[ir.FuncID]*Liveness
