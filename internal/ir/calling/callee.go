// Package calling models reconstructed calling conventions, function
// signatures, and the hooks that materialize argument and return-value terms
// at call and return sites. Signatures themselves are produced by the
// external signature reconstructor; this package defines the artifacts and
// the lookup surface the analyses consume.
package calling

import (
	"fmt"

	"drift/internal/ir"
)

// CalleeKind distinguishes callee identities.
type CalleeKind uint8

const (
	// CalleeInvalid is the zero identity: nothing is known about the callee.
	CalleeInvalid CalleeKind = iota
	// CalleeEntryAddr identifies a callee by its entry address.
	CalleeEntryAddr
	// CalleeFunc identifies an address-less function by its handle.
	CalleeFunc
	// CalleeCallSite identifies an unresolved callee by the call statement.
	CalleeCallSite
)

// CalleeID is the identity signatures and conventions are attached to. It is
// a comparable value usable as a map key.
type CalleeID struct {
	Kind CalleeKind
	Addr uint64
	Func ir.FuncID
	Stmt ir.StmtID
}

// IsValid reports whether the identity names anything.
func (id CalleeID) IsValid() bool { return id.Kind != CalleeInvalid }

func (id CalleeID) String() string {
	switch id.Kind {
	case CalleeEntryAddr:
		return fmt.Sprintf("callee(%#x)", id.Addr)
	case CalleeFunc:
		return fmt.Sprintf("callee(func %d)", id.Func)
	case CalleeCallSite:
		return fmt.Sprintf("callee(call site %d)", id.Stmt)
	}
	return "callee(invalid)"
}

// EntryAddrCallee identifies a callee by entry address.
func EntryAddrCallee(addr uint64) CalleeID {
	return CalleeID{Kind: CalleeEntryAddr, Addr: addr}
}

// FuncCallee identifies an address-less function.
func FuncCallee(f ir.FuncID) CalleeID {
	return CalleeID{Kind: CalleeFunc, Func: f}
}

// CallSiteCallee identifies an unresolved call site.
func CallSiteCallee(stmt ir.StmtID) CalleeID {
	return CalleeID{Kind: CalleeCallSite, Stmt: stmt}
}
