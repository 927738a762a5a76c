package ir

// StmtKind enumerates statement kinds in the IR.
type StmtKind uint8

const (
	// StmtComment carries free-form text attached by the lifter.
	StmtComment StmtKind = iota
	// StmtInlineCode carries verbatim code the lifter could not model.
	StmtInlineCode
	// StmtAssignment assigns the value of Right to the cell written by Left.
	StmtAssignment
	// StmtKill invalidates the value of the killed term's location.
	StmtKill
	// StmtJump transfers control to one of up to two targets.
	StmtJump
	// StmtCall calls the target address.
	StmtCall
	// StmtReturn returns from the function.
	StmtReturn
)

func (k StmtKind) String() string {
	switch k {
	case StmtComment:
		return "comment"
	case StmtInlineCode:
		return "inline_code"
	case StmtAssignment:
		return "assignment"
	case StmtKill:
		return "kill"
	case StmtJump:
		return "jump"
	case StmtCall:
		return "call"
	case StmtReturn:
		return "return"
	}
	return "unknown"
}

// Statement is an instruction-level IR unit. Statements live in the Program's
// arena, referenced by StmtID, and reference their operand terms by TermID.
type Statement struct {
	Kind StmtKind

	// Instruction address the statement was lifted from, when known.
	Addr    uint64
	HasAddr bool

	Comment CommentStmt
	Inline  InlineCodeStmt
	Assign  AssignmentStmt
	Kill    KillStmt
	Jump    JumpStmt
	Call    CallStmt
}

// CommentStmt carries the comment text.
type CommentStmt struct {
	Text string
}

// InlineCodeStmt carries verbatim lifted code.
type InlineCodeStmt struct {
	Text string
}

// AssignmentStmt writes Right's value into Left. Left is a write term, Right
// a read term.
type AssignmentStmt struct {
	Left  TermID
	Right TermID
}

// KillStmt marks the killed term's location as holding no useful value.
type KillStmt struct {
	Term TermID
}

// JumpTarget is one side of a jump: a computed address term, a resolved basic
// block, or both.
type JumpTarget struct {
	Addr  TermID
	Block BlockID
}

// IsValid reports whether the target names anything at all.
func (t JumpTarget) IsValid() bool {
	return t.Addr != NoTermID || t.Block != NoBlockID
}

// JumpStmt transfers control to Then when Cond is true (or unconditionally
// when Cond is NoTermID), to Else otherwise.
type JumpStmt struct {
	Cond TermID
	Then JumpTarget
	Else JumpTarget
}

// IsConditional reports whether the jump has a condition term.
func (j JumpStmt) IsConditional() bool { return j.Cond != NoTermID }

// CallStmt calls the address computed by Target.
type CallStmt struct {
	Target TermID
}
