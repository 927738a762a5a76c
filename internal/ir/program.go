package ir

// Program owns the arenas all IR nodes live in. Terms, statements and blocks
// are appended at construction time and never removed; analysis results key
// off their handles. A Program is produced by the instruction lifter and only
// read by the analysis layers, except that calling hooks may materialize
// additional terms in the term arena.
type Program struct {
	terms  []Term
	stmts  []Statement
	blocks []BasicBlock
}

func NewProgram() *Program {
	return &Program{}
}

// NumTerms returns the size of the term arena.
func (p *Program) NumTerms() int { return len(p.terms) }

// NumStmts returns the size of the statement arena.
func (p *Program) NumStmts() int { return len(p.stmts) }

// NumBlocks returns the size of the block arena.
func (p *Program) NumBlocks() int { return len(p.blocks) }

// Term returns the term for id. The handle must be valid.
func (p *Program) Term(id TermID) *Term {
	return &p.terms[id]
}

// Stmt returns the statement for id. The handle must be valid.
func (p *Program) Stmt(id StmtID) *Statement {
	return &p.stmts[id]
}

// Block returns the block for id. The handle must be valid.
func (p *Program) Block(id BlockID) *BasicBlock {
	return &p.blocks[id]
}

// ValidTerm reports whether id is a handle into the term arena.
func (p *Program) ValidTerm(id TermID) bool {
	return id >= 0 && int(id) < len(p.terms)
}

// ValidStmt reports whether id is a handle into the statement arena.
func (p *Program) ValidStmt(id StmtID) bool {
	return id >= 0 && int(id) < len(p.stmts)
}

// ValidBlock reports whether id is a handle into the block arena.
func (p *Program) ValidBlock(id BlockID) bool {
	return id >= 0 && int(id) < len(p.blocks)
}

// NewTerm appends t to the term arena and returns its handle. Callers
// building Term literals directly must set Source to NoTermID when the term
// has no source; the typed constructors below do this for you.
func (p *Program) NewTerm(t Term) TermID {
	id := TermID(len(p.terms))
	p.terms = append(p.terms, t)
	return id
}

// NewIntConst creates a size-bit constant term.
func (p *Program) NewIntConst(value uint64, size uint32) TermID {
	return p.NewTerm(Term{
		Kind:     TermIntConst,
		Access:   AccessRead,
		Source:   NoTermID,
		IntConst: IntConstTerm{Value: value, Size: size},
	})
}

// NewIntrinsic creates an intrinsic value term.
func (p *Program) NewIntrinsic(kind IntrinsicKind, size uint32) TermID {
	return p.NewTerm(Term{
		Kind:      TermIntrinsic,
		Access:    AccessRead,
		Source:    NoTermID,
		Intrinsic: IntrinsicTerm{Intrinsic: kind, Size: size},
	})
}

// NewUndefined creates an explicitly undefined value term.
func (p *Program) NewUndefined() TermID {
	return p.NewTerm(Term{Kind: TermUndefined, Access: AccessRead, Source: NoTermID})
}

// NewMemAccess creates a memory location access with the given direction.
func (p *Program) NewMemAccess(loc MemoryLocation, access Access) TermID {
	return p.NewTerm(Term{
		Kind:      TermMemoryLocationAccess,
		Access:    access,
		Source:    NoTermID,
		MemAccess: MemoryLocationAccessTerm{Loc: loc},
	})
}

// NewDereference creates a dereference of addr with the given direction.
func (p *Program) NewDereference(addr TermID, size uint32, access Access) TermID {
	return p.NewTerm(Term{
		Kind:   TermDereference,
		Access: access,
		Source: NoTermID,
		Deref:  DereferenceTerm{Addr: addr, Size: size},
	})
}

// NewUnary creates a unary operator term over operand.
func (p *Program) NewUnary(op UnaryOp, operand TermID, size uint32) TermID {
	return p.NewTerm(Term{
		Kind:   TermUnaryOperator,
		Access: AccessRead,
		Source: NoTermID,
		Unary:  UnaryOperatorTerm{Op: op, Operand: operand, Size: size},
	})
}

// NewBinary creates a binary operator term over left and right.
func (p *Program) NewBinary(op BinaryOp, left, right TermID, size uint32) TermID {
	return p.NewTerm(Term{
		Kind:   TermBinaryOperator,
		Access: AccessRead,
		Source: NoTermID,
		Binary: BinaryOperatorTerm{Op: op, Left: left, Right: right, Size: size},
	})
}

// NewChoice creates a choice between preferred and dflt.
func (p *Program) NewChoice(preferred, dflt TermID) TermID {
	return p.NewTerm(Term{
		Kind:   TermChoice,
		Access: AccessRead,
		Source: NoTermID,
		Choice: ChoiceTerm{Preferred: preferred, Dflt: dflt},
	})
}

// NewStmt appends s to the statement arena and returns its handle.
func (p *Program) NewStmt(s Statement) StmtID {
	id := StmtID(len(p.stmts))
	p.stmts = append(p.stmts, s)
	return id
}

// NewComment creates a comment statement.
func (p *Program) NewComment(text string) StmtID {
	return p.NewStmt(Statement{Kind: StmtComment, Comment: CommentStmt{Text: text}})
}

// NewInlineCode creates an inline code statement.
func (p *Program) NewInlineCode(text string) StmtID {
	return p.NewStmt(Statement{Kind: StmtInlineCode, Inline: InlineCodeStmt{Text: text}})
}

// NewAssignment creates an assignment of right into left and records right as
// left's source value.
func (p *Program) NewAssignment(left, right TermID) StmtID {
	p.terms[left].Source = right
	return p.NewStmt(Statement{Kind: StmtAssignment, Assign: AssignmentStmt{Left: left, Right: right}})
}

// NewKill creates a kill of the given term's location.
func (p *Program) NewKill(term TermID) StmtID {
	return p.NewStmt(Statement{Kind: StmtKill, Kill: KillStmt{Term: term}})
}

// NewJump creates a jump statement. Pass NoTermID as cond for an
// unconditional jump; unused targets must be the zero JumpTarget built with
// NoJumpTarget.
func (p *Program) NewJump(cond TermID, then, els JumpTarget) StmtID {
	return p.NewStmt(Statement{Kind: StmtJump, Jump: JumpStmt{Cond: cond, Then: then, Else: els}})
}

// NoJumpTarget returns an absent jump target.
func NoJumpTarget() JumpTarget {
	return JumpTarget{Addr: NoTermID, Block: NoBlockID}
}

// NewCall creates a call of the target address term.
func (p *Program) NewCall(target TermID) StmtID {
	return p.NewStmt(Statement{Kind: StmtCall, Call: CallStmt{Target: target}})
}

// NewReturn creates a return statement.
func (p *Program) NewReturn() StmtID {
	return p.NewStmt(Statement{Kind: StmtReturn})
}

// NewBlock creates a basic block. Pass hasAddr=false for synthetic blocks.
func (p *Program) NewBlock(addr uint64, hasAddr bool) BlockID {
	id := BlockID(len(p.blocks))
	p.blocks = append(p.blocks, BasicBlock{ID: id, Addr: addr, HasAddr: hasAddr})
	return id
}

// AppendStmt appends an existing statement to a block.
func (p *Program) AppendStmt(block BlockID, stmt StmtID) {
	b := &p.blocks[block]
	b.Stmts = append(b.Stmts, stmt)
}

// BlockJump returns the block's terminating jump statement, or NoStmtID when
// the block does not end in a jump.
func (p *Program) BlockJump(block BlockID) StmtID {
	term := p.Block(block).Terminator()
	if term == NoStmtID || p.Stmt(term).Kind != StmtJump {
		return NoStmtID
	}
	return term
}
