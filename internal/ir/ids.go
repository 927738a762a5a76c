package ir

// Handles are arena indexes into a Program. They are the only way terms,
// statements and blocks are referenced across the analysis layers: identity
// is handle equality, never structural equality.
type TermID int32
type StmtID int32
type BlockID int32
type FuncID int32

const (
	NoTermID  TermID  = -1
	NoStmtID  StmtID  = -1
	NoBlockID BlockID = -1
	NoFuncID  FuncID  = -1
)

// Domain identifies an abstract storage space (main memory, a register bank,
// the reconstructed stack frame). Meaning is assigned by the architecture.
type Domain int32

const NoDomain Domain = -1
