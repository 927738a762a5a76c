// Package arch describes the target architecture to the analysis layers:
// which storage domains exist and which of them outlive a single function.
package arch

import "drift/internal/ir"

// Well-known storage domains. Register and stack cells are function-local;
// main memory is visible to the whole program.
const (
	DomainMemory    ir.Domain = 0
	DomainRegisters ir.Domain = 1
	DomainStack     ir.Domain = 2
	DomainFlags     ir.Domain = 3

	// DomainFirstCustom is the first domain free for lifter-specific use.
	DomainFirstCustom ir.Domain = 16
)

// Architecture is the oracle the analyses consult for target-specific facts.
// It is immutable after construction and safe for concurrent readers.
type Architecture struct {
	name    string
	bitness uint32
	global  map[ir.Domain]bool
}

// New creates an architecture with the given pointer size in bits. Main
// memory is always global; extraGlobal lists additional global domains.
func New(name string, bitness uint32, extraGlobal ...ir.Domain) *Architecture {
	global := map[ir.Domain]bool{DomainMemory: true}
	for _, d := range extraGlobal {
		global[d] = true
	}
	return &Architecture{name: name, bitness: bitness, global: global}
}

// Name returns the architecture's name.
func (a *Architecture) Name() string { return a.name }

// Bitness returns the pointer size in bits.
func (a *Architecture) Bitness() uint32 { return a.bitness }

// IsGlobalMemory reports whether a write to loc outlives the enclosing
// function, i.e. is observable by the caller or the rest of the program.
func (a *Architecture) IsGlobalMemory(loc ir.MemoryLocation) bool {
	return loc.IsValid() && a.global[loc.Domain]
}
