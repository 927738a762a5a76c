package ir

// Function groups the basic blocks reconstructed for one machine function.
// Functions are produced by the function partitioner; the orchestrator only
// assigns names and comments.
type Function struct {
	ID   FuncID
	Name string

	// Comment carries auxiliary documentation lines attached during naming
	// (original symbol name when sanitation changed it, demangled form).
	Comment []string

	// Entry is the function's entry block, NoBlockID when the function was
	// reconstructed from a dangling fragment.
	Entry  BlockID
	Blocks []BlockID
}

// EntryAddr returns the address of the entry block, when there is one.
func (f *Function) EntryAddr(p *Program) (uint64, bool) {
	if f.Entry == NoBlockID {
		return 0, false
	}
	b := p.Block(f.Entry)
	if !b.HasAddr {
		return 0, false
	}
	return b.Addr, true
}

// Returns collects the function's return statements.
func (f *Function) Returns(p *Program) []StmtID {
	var out []StmtID
	for _, bid := range f.Blocks {
		for _, sid := range p.Block(bid).Stmts {
			if p.Stmt(sid).Kind == StmtReturn {
				out = append(out, sid)
			}
		}
	}
	return out
}

// Functions is the ordered list of reconstructed functions.
type Functions struct {
	Funcs []*Function
}

// Add appends f, assigning its ID.
func (fs *Functions) Add(f *Function) {
	f.ID = FuncID(len(fs.Funcs))
	fs.Funcs = append(fs.Funcs, f)
}

// Len returns the number of functions.
func (fs *Functions) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.Funcs)
}
