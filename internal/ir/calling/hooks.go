package calling

import "drift/internal/ir"

// ConventionDetector is the extension point for calling-convention
// inference, invoked once per callee identity the first time it is seen. The
// default detector performs no inference, leaving conventions unknown.
type ConventionDetector func(id CalleeID)

// CallHook holds the argument terms materialized for one call site, one per
// signature argument cell.
type CallHook struct {
	args  map[ir.MemoryLocation]ir.TermID
	terms []ir.TermID
}

// ArgumentTerm returns the term materialized for the argument cell loc, or
// NoTermID when the signature has no such argument.
func (h *CallHook) ArgumentTerm(loc ir.MemoryLocation) ir.TermID {
	if h == nil {
		return ir.NoTermID
	}
	if id, ok := h.args[loc]; ok {
		return id
	}
	return ir.NoTermID
}

// Terms returns every materialized argument term, in signature order.
func (h *CallHook) Terms() []ir.TermID {
	if h == nil {
		return nil
	}
	return h.terms
}

// ReturnHook holds the return-value term materialized for one return site.
type ReturnHook struct {
	ret   map[ir.MemoryLocation]ir.TermID
	terms []ir.TermID
}

// ReturnValueTerm returns the term materialized for the return cell loc, or
// NoTermID when none was.
func (h *ReturnHook) ReturnValueTerm(loc ir.MemoryLocation) ir.TermID {
	if h == nil {
		return ir.NoTermID
	}
	if id, ok := h.ret[loc]; ok {
		return id
	}
	return ir.NoTermID
}

// Terms returns every materialized return-value term.
func (h *ReturnHook) Terms() []ir.TermID {
	if h == nil {
		return nil
	}
	return h.terms
}

type returnKey struct {
	fn   ir.FuncID
	stmt ir.StmtID
}

// Hooks ties conventions and signatures to concrete call and return sites.
// Instrumentation materializes hook terms in the Program's arena, so it runs
// sequentially (the pipeline instruments all functions before fanning out
// per-function analyses); lookups afterwards are read-only and safe for
// concurrent readers.
type Hooks struct {
	conventions *Conventions
	signatures  *Signatures
	detector    ConventionDetector

	calleeOfCall map[ir.StmtID]CalleeID
	callHooks    map[ir.StmtID]*CallHook
	returnHooks  map[returnKey]*ReturnHook
	detected     map[CalleeID]bool
}

// NewHooks creates hooks over the given conventions and signatures with the
// default (no inference) detector.
func NewHooks(conventions *Conventions, signatures *Signatures) *Hooks {
	return &Hooks{
		conventions:  conventions,
		signatures:   signatures,
		detector:     func(CalleeID) {},
		calleeOfCall: make(map[ir.StmtID]CalleeID),
		callHooks:    make(map[ir.StmtID]*CallHook),
		returnHooks:  make(map[returnKey]*ReturnHook),
		detected:     make(map[CalleeID]bool),
	}
}

// Conventions returns the convention table the hooks consult.
func (h *Hooks) Conventions() *Conventions { return h.conventions }

// Signatures returns the signature table the hooks consult.
func (h *Hooks) Signatures() *Signatures { return h.signatures }

// SetConventionDetector installs a detector. Passing nil restores the
// default no-inference one.
func (h *Hooks) SetConventionDetector(d ConventionDetector) {
	if d == nil {
		d = func(CalleeID) {}
	}
	h.detector = d
}

// CalleeIDOfCall resolves the identity of a call's callee: a constant target
// address yields an entry-address identity, anything else falls back to the
// call site itself.
func (h *Hooks) CalleeIDOfCall(p *ir.Program, call ir.StmtID) CalleeID {
	if id, ok := h.calleeOfCall[call]; ok {
		return id
	}
	s := p.Stmt(call)
	if s.Kind != ir.StmtCall || s.Call.Target == ir.NoTermID {
		return CalleeID{}
	}
	var id CalleeID
	if t := p.Term(s.Call.Target); t.Kind == ir.TermIntConst {
		id = EntryAddrCallee(t.IntConst.Value)
	} else {
		id = CallSiteCallee(call)
	}
	h.calleeOfCall[call] = id
	return id
}

// CalleeIDOfFunction resolves a function's own calling identity.
func (h *Hooks) CalleeIDOfFunction(p *ir.Program, f *ir.Function) CalleeID {
	if addr, ok := f.EntryAddr(p); ok {
		return EntryAddrCallee(addr)
	}
	return FuncCallee(f.ID)
}

// CallHook returns the hook materialized for a call site, or nil.
func (h *Hooks) CallHook(call ir.StmtID) *CallHook {
	return h.callHooks[call]
}

// ReturnHook returns the hook materialized for a return site of a function,
// or nil.
func (h *Hooks) ReturnHook(f *ir.Function, ret ir.StmtID) *ReturnHook {
	if f == nil {
		return nil
	}
	return h.returnHooks[returnKey{fn: f.ID, stmt: ret}]
}

func (h *Hooks) detect(id CalleeID) {
	if !id.IsValid() || h.detected[id] {
		return
	}
	h.detected[id] = true
	if h.conventions.Get(id) == nil {
		h.detector(id)
	}
}

// InstrumentFunction resolves callee identities for every call in f, runs
// convention detection, and materializes call and return hooks where both a
// convention and a signature are known. Instrumentation is idempotent:
// already-materialized hooks are kept.
func (h *Hooks) InstrumentFunction(p *ir.Program, f *ir.Function) {
	for _, bid := range f.Blocks {
		for _, sid := range p.Block(bid).Stmts {
			if p.Stmt(sid).Kind != ir.StmtCall {
				continue
			}
			id := h.CalleeIDOfCall(p, sid)
			h.detect(id)
			if h.callHooks[sid] != nil {
				continue
			}
			conv := h.conventions.Get(id)
			sig := h.signatures.Get(id)
			if conv == nil || sig == nil {
				continue
			}
			hook := &CallHook{args: make(map[ir.MemoryLocation]ir.TermID)}
			for _, loc := range sig.Args {
				term := p.NewMemAccess(loc, ir.AccessRead)
				hook.args[loc] = term
				hook.terms = append(hook.terms, term)
			}
			h.callHooks[sid] = hook
		}
	}

	own := h.CalleeIDOfFunction(p, f)
	h.detect(own)
	sig := h.signatures.Get(own)
	if !sig.HasReturnValue() {
		return
	}
	for _, ret := range f.Returns(p) {
		key := returnKey{fn: f.ID, stmt: ret}
		if h.returnHooks[key] != nil {
			continue
		}
		hook := &ReturnHook{ret: make(map[ir.MemoryLocation]ir.TermID)}
		term := p.NewMemAccess(sig.Ret, ir.AccessRead)
		hook.ret[sig.Ret] = term
		hook.terms = append(hook.terms, term)
		h.returnHooks[key] = hook
	}
}
