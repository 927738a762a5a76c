package ir

// TermKind enumerates term kinds in the IR.
type TermKind uint8

const (
	// TermIntConst represents an integer constant.
	TermIntConst TermKind = iota
	// TermIntrinsic represents an opaque machine-specific value.
	TermIntrinsic
	// TermUndefined represents an explicitly undefined value.
	TermUndefined
	// TermMemoryLocationAccess represents a read or write of a known
	// abstract storage cell (register or memory region).
	TermMemoryLocationAccess
	// TermDereference represents a read or write through a computed address.
	TermDereference
	// TermUnaryOperator represents a unary operator application.
	TermUnaryOperator
	// TermBinaryOperator represents a binary operator application.
	TermBinaryOperator
	// TermChoice represents a value that uses its preferred alternative when
	// a definition reaches it and its default alternative otherwise.
	TermChoice
)

func (k TermKind) String() string {
	switch k {
	case TermIntConst:
		return "int_const"
	case TermIntrinsic:
		return "intrinsic"
	case TermUndefined:
		return "undefined"
	case TermMemoryLocationAccess:
		return "memory_location_access"
	case TermDereference:
		return "dereference"
	case TermUnaryOperator:
		return "unary_operator"
	case TermBinaryOperator:
		return "binary_operator"
	case TermChoice:
		return "choice"
	}
	return "unknown"
}

// Access is a term's read/write direction, fixed at construction.
type Access uint8

const (
	AccessNone  Access = 0
	AccessRead  Access = 1 << 0
	AccessWrite Access = 1 << 1
)

// IsRead reports whether the term reads its location or value.
func (a Access) IsRead() bool { return a&AccessRead != 0 }

// IsWrite reports whether the term writes its location.
func (a Access) IsWrite() bool { return a&AccessWrite != 0 }

// IntrinsicKind distinguishes intrinsic values.
type IntrinsicKind uint8

const (
	// IntrinsicUnknown is a machine value the lifter could not classify.
	IntrinsicUnknown IntrinsicKind = iota
	// IntrinsicInstructionAddress is the address of the current instruction.
	IntrinsicInstructionAddress
	// IntrinsicNextInstructionAddress is the address of the next instruction.
	IntrinsicNextInstructionAddress
	// IntrinsicReturnAddress is the return address pushed by a call.
	IntrinsicReturnAddress
)

// UnaryOp enumerates unary operators.
type UnaryOp uint8

const (
	UnaryNot UnaryOp = iota
	UnaryNegation
	UnarySignExtend
	UnaryZeroExtend
	UnaryTruncate
)

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	BinaryAnd BinaryOp = iota
	BinaryOr
	BinaryXor
	BinaryShl
	BinaryShr
	BinarySar
	BinaryAdd
	BinarySub
	BinaryMul
	BinarySignedDiv
	BinarySignedRem
	BinaryUnsignedDiv
	BinaryUnsignedRem
	BinaryEqual
	BinarySignedLess
	BinarySignedLessOrEqual
	BinaryUnsignedLess
	BinaryUnsignedLessOrEqual
)

// Term is an atomic value-producing or value-consuming IR node. Terms live in
// the Program's arena; everything else refers to them by TermID. The payload
// field matching Kind is the only one that is meaningful.
type Term struct {
	Kind   TermKind
	Access Access

	// Source is the value term assigned into this term when it is the
	// left-hand side of an assignment; NoTermID otherwise.
	Source TermID

	IntConst  IntConstTerm
	Intrinsic IntrinsicTerm
	MemAccess MemoryLocationAccessTerm
	Deref     DereferenceTerm
	Unary     UnaryOperatorTerm
	Binary    BinaryOperatorTerm
	Choice    ChoiceTerm
}

// IntConstTerm is an integer constant of Size bits.
type IntConstTerm struct {
	Value uint64
	Size  uint32
}

// IntrinsicTerm is an opaque machine-specific value of Size bits.
type IntrinsicTerm struct {
	Intrinsic IntrinsicKind
	Size      uint32
}

// MemoryLocationAccessTerm accesses a statically known storage cell.
type MemoryLocationAccessTerm struct {
	Loc MemoryLocation
}

// DereferenceTerm accesses Size bits at a computed address.
type DereferenceTerm struct {
	Addr TermID
	Size uint32
}

// UnaryOperatorTerm applies Op to Operand.
type UnaryOperatorTerm struct {
	Op      UnaryOp
	Operand TermID
	Size    uint32
}

// BinaryOperatorTerm applies Op to Left and Right.
type BinaryOperatorTerm struct {
	Op    BinaryOp
	Left  TermID
	Right TermID
	Size  uint32
}

// ChoiceTerm selects Preferred when a definition reaches it, Default
// otherwise. Exactly one alternative is ever used.
type ChoiceTerm struct {
	Preferred TermID
	Dflt      TermID
}
