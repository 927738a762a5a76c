package ir

// BasicBlock is a straight-line run of statements. Blocks live in the
// Program's arena and hold their statements by StmtID, in execution order.
type BasicBlock struct {
	ID      BlockID
	Addr    uint64
	HasAddr bool
	Stmts   []StmtID
}

// Terminator returns the block's last statement, or NoStmtID for an empty
// block.
func (b *BasicBlock) Terminator() StmtID {
	if b == nil || len(b.Stmts) == 0 {
		return NoStmtID
	}
	return b.Stmts[len(b.Stmts)-1]
}
