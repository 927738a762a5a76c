package ir

import "fmt"

// MemoryLocation identifies an abstract storage cell: Size bits starting at
// bit Offset within Domain. It is a value type compared by structural
// equality. The zero value is "no location" (Size == 0), used for accesses
// whose location could not be resolved.
type MemoryLocation struct {
	Domain Domain
	Offset uint64
	Size   uint32
}

// IsValid reports whether the location actually names a storage cell.
func (l MemoryLocation) IsValid() bool {
	return l.Size != 0
}

// End returns the first bit offset past the location.
func (l MemoryLocation) End() uint64 {
	return l.Offset + uint64(l.Size)
}

// Overlaps reports whether two locations share at least one bit.
func (l MemoryLocation) Overlaps(other MemoryLocation) bool {
	if !l.IsValid() || !other.IsValid() || l.Domain != other.Domain {
		return false
	}
	return l.Offset < other.End() && other.Offset < l.End()
}

// Covers reports whether l contains the whole of other.
func (l MemoryLocation) Covers(other MemoryLocation) bool {
	if !l.IsValid() || !other.IsValid() || l.Domain != other.Domain {
		return false
	}
	return l.Offset <= other.Offset && other.End() <= l.End()
}

func (l MemoryLocation) String() string {
	if !l.IsValid() {
		return "<no location>"
	}
	return fmt.Sprintf("loc(%d, %#x, %d)", l.Domain, l.Offset, l.Size)
}
