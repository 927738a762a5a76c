// Package mangling handles symbol names: sanitizing them into identifiers
// usable in generated code and demangling compiler-encoded names.
package mangling

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Demangler turns a compiler-mangled symbol name into a human-readable one.
// Implementations return the empty string when the name does not demangle.
type Demangler interface {
	Demangle(name string) string
}

// NopDemangler demangles nothing.
type NopDemangler struct{}

func (NopDemangler) Demangle(string) string { return "" }

// CleanName sanitizes a symbol name into a valid identifier: the name is
// NFC-normalized, every character outside [A-Za-z0-9_] becomes '_', and a
// leading digit gets a '_' prefix. An empty name stays empty.
func CleanName(name string) string {
	if name == "" {
		return ""
	}
	name = norm.NFC.String(name)
	var b strings.Builder
	b.Grow(len(name) + 1)
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r) && r < 128:
			b.WriteRune(r)
		case unicode.IsDigit(r) && r < 128:
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
