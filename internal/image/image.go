// Package image is the analysis-side view of the executable being
// decompiled: the target architecture, the symbol table, and the demangler.
// It is populated by the loader before a job starts and read-only afterwards.
package image

import (
	"drift/internal/arch"
	"drift/internal/mangling"
)

// Symbol associates an address with a name.
type Symbol struct {
	Addr uint64
	Name string
}

// Image describes the binary under analysis.
type Image struct {
	name      string
	arch      *arch.Architecture
	demangler mangling.Demangler
	symbols   map[uint64]string
}

// New creates an image for the given architecture with no symbols and a
// no-op demangler.
func New(name string, a *arch.Architecture) *Image {
	return &Image{
		name:      name,
		arch:      a,
		demangler: mangling.NopDemangler{},
		symbols:   make(map[uint64]string),
	}
}

// Name returns the image's name.
func (i *Image) Name() string { return i.name }

// Arch returns the target architecture.
func (i *Image) Arch() *arch.Architecture { return i.arch }

// SetDemangler installs a demangler. Passing nil restores the no-op one.
func (i *Image) SetDemangler(d mangling.Demangler) {
	if d == nil {
		d = mangling.NopDemangler{}
	}
	i.demangler = d
}

// Demangler returns the installed demangler.
func (i *Image) Demangler() mangling.Demangler { return i.demangler }

// AddSymbol records a symbol name for an address. A later symbol at the same
// address wins.
func (i *Image) AddSymbol(addr uint64, name string) {
	i.symbols[addr] = name
}

// NameAt returns the symbol name at addr, or "" when there is none.
func (i *Image) NameAt(addr uint64) string {
	return i.symbols[addr]
}

// Symbols returns all symbols in unspecified order.
func (i *Image) Symbols() []Symbol {
	out := make([]Symbol, 0, len(i.symbols))
	for addr, name := range i.symbols {
		out = append(out, Symbol{Addr: addr, Name: name})
	}
	return out
}
