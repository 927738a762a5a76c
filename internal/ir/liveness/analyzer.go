package liveness

import (
	"sort"

	"drift/internal/arch"
	"drift/internal/diag"
	"drift/internal/ir"
	"drift/internal/ir/calling"
	"drift/internal/ir/cflow"
	"drift/internal/ir/dflow"
	"drift/internal/ir/misc"
)

// Config carries everything one function's analysis consumes. Program,
// Function, Dataflow, Arch, Graph and Hooks are required; Reporter may be
// nil to drop warnings.
type Config struct {
	Program  *ir.Program
	Function *ir.Function
	Dataflow *dflow.Dataflow
	Arch     *arch.Architecture
	Graph    *cflow.Graph
	Hooks    *calling.Hooks
	Reporter diag.Reporter

	// PreferConstants prunes the live set below read terms whose dataflow
	// value is already a known constant. Purely an optimization of the
	// result: terms with side effects are retained either way.
	PreferConstants bool
}

type analyzer struct {
	cfg       Config
	liveness  *Liveness
	deadJumps []ir.StmtID
}

// Analyze runs one monotone fixed-point computation over one function and
// returns its live-term set. The result is deterministic for a given input
// and safe to share once returned.
func Analyze(cfg Config) *Liveness {
	a := &analyzer{cfg: cfg, liveness: NewLiveness()}
	a.collectDeadJumps()

	census := misc.TakeCensus(cfg.Program, cfg.Function, cfg.Hooks)
	for _, sid := range census.Statements() {
		a.computeStatementRoots(sid)
	}
	for _, tid := range census.Terms() {
		a.computeTermRoots(tid)
	}
	a.makeReturnValuesLive()

	return a.liveness
}

// collectDeadJumps records the terminating jump of every switch region's
// synthetic bounds-check node. Those jumps exist for control-flow shaping
// only and must not contribute liveness roots.
func (a *analyzer) collectDeadJumps() {
	if a.cfg.Graph == nil {
		return
	}
	for _, node := range a.cfg.Graph.Nodes() {
		if node.Kind != cflow.NodeRegion || node.Region != cflow.RegionSwitch {
			continue
		}
		if node.BoundsCheck == cflow.NoNodeID {
			continue
		}
		check := a.cfg.Graph.Node(node.BoundsCheck)
		if check.Kind != cflow.NodeBasic || check.Block == ir.NoBlockID {
			continue
		}
		if jump := a.cfg.Program.BlockJump(check.Block); jump != ir.NoStmtID {
			a.deadJumps = append(a.deadJumps, jump)
		}
	}
	sort.Slice(a.deadJumps, func(i, j int) bool { return a.deadJumps[i] < a.deadJumps[j] })
}

func (a *analyzer) isDeadJump(sid ir.StmtID) bool {
	i := sort.Search(len(a.deadJumps), func(i int) bool { return a.deadJumps[i] >= sid })
	return i < len(a.deadJumps) && a.deadJumps[i] == sid
}

func (a *analyzer) computeStatementRoots(sid ir.StmtID) {
	s := a.cfg.Program.Stmt(sid)
	switch s.Kind {
	case ir.StmtComment, ir.StmtInlineCode, ir.StmtAssignment, ir.StmtKill, ir.StmtReturn:
		// No roots by themselves.
	case ir.StmtJump:
		if a.isDeadJump(sid) {
			break
		}
		if s.Jump.Cond != ir.NoTermID {
			a.makeLive(s.Jump.Cond)
		}
		if s.Jump.Then.Addr != ir.NoTermID {
			a.makeLive(s.Jump.Then.Addr)
		}
		if s.Jump.Else.Addr != ir.NoTermID {
			a.makeLive(s.Jump.Else.Addr)
		}
	case ir.StmtCall:
		a.makeLive(s.Call.Target)
		calleeID := a.cfg.Hooks.CalleeIDOfCall(a.cfg.Program, sid)
		if !calleeID.IsValid() {
			break
		}
		sig := a.cfg.Hooks.Signatures().Get(calleeID)
		hook := a.cfg.Hooks.CallHook(sid)
		if sig == nil || hook == nil {
			break
		}
		for _, loc := range sig.Args {
			if t := hook.ArgumentTerm(loc); t != ir.NoTermID {
				a.makeLive(t)
			}
		}
	default:
		a.warn(diag.LiveUnsupportedStatement, "unsupported kind of statement: %d", s.Kind)
	}
}

func (a *analyzer) computeTermRoots(tid ir.TermID) {
	t := a.cfg.Program.Term(tid)
	switch t.Kind {
	case ir.TermIntConst, ir.TermIntrinsic, ir.TermUndefined:
	case ir.TermMemoryLocationAccess:
		// A write that outlives the function is observable.
		if t.Access.IsWrite() && a.cfg.Arch.IsGlobalMemory(t.MemAccess.Loc) {
			a.makeLive(tid)
		}
	case ir.TermDereference:
		// An unresolved write must conservatively be assumed observable.
		if t.Access.IsWrite() {
			loc := a.cfg.Dataflow.MemoryLocation(tid)
			if !loc.IsValid() || a.cfg.Arch.IsGlobalMemory(loc) {
				a.makeLive(tid)
			}
		}
	case ir.TermUnaryOperator, ir.TermBinaryOperator, ir.TermChoice:
	default:
		a.warn(diag.LiveUnsupportedTerm, "unsupported kind of term: %d", t.Kind)
	}
}

// makeReturnValuesLive roots the materialized return-value term of every
// return statement when the function's own signature has a return value.
func (a *analyzer) makeReturnValuesLive() {
	calleeID := a.cfg.Hooks.CalleeIDOfFunction(a.cfg.Program, a.cfg.Function)
	if !calleeID.IsValid() {
		return
	}
	sig := a.cfg.Hooks.Signatures().Get(calleeID)
	if !sig.HasReturnValue() {
		return
	}
	for _, ret := range a.cfg.Function.Returns(a.cfg.Program) {
		hook := a.cfg.Hooks.ReturnHook(a.cfg.Function, ret)
		if t := hook.ReturnValueTerm(sig.Ret); t != ir.NoTermID {
			a.makeLive(t)
		}
	}
}

// makeLive marks term live and, the first time only, propagates to its
// dependencies. The already-live guard bounds the recursion by the term
// count even over cyclic loop-carried definition graphs.
func (a *analyzer) makeLive(tid ir.TermID) {
	if a.liveness.IsLive(tid) {
		return
	}
	a.liveness.MakeLive(tid)
	a.propagate(tid)
}

func (a *analyzer) propagate(tid ir.TermID) {
	t := a.cfg.Program.Term(tid)

	if a.cfg.PreferConstants && t.Access.IsRead() && a.cfg.Dataflow.Value(tid).Concrete {
		return
	}

	switch t.Kind {
	case ir.TermIntConst, ir.TermIntrinsic, ir.TermUndefined:
	case ir.TermMemoryLocationAccess:
		if t.Access.IsRead() {
			a.makeDefinitionsLive(tid)
		} else if t.Access.IsWrite() {
			if t.Source != ir.NoTermID {
				a.makeLive(t.Source)
			}
		}
	case ir.TermDereference:
		if t.Access.IsRead() {
			a.makeDefinitionsLive(tid)
		} else if t.Access.IsWrite() {
			if t.Source != ir.NoTermID {
				a.makeLive(t.Source)
			}
		}
		// Whatever the direction, an unresolved access needs its address
		// evaluated to explain itself.
		if !a.cfg.Dataflow.MemoryLocation(tid).IsValid() {
			a.makeLive(t.Deref.Addr)
		}
	case ir.TermUnaryOperator:
		if t.Unary.Operand != ir.NoTermID {
			a.makeLive(t.Unary.Operand)
		}
	case ir.TermBinaryOperator:
		if t.Binary.Left != ir.NoTermID {
			a.makeLive(t.Binary.Left)
		}
		if t.Binary.Right != ir.NoTermID {
			a.makeLive(t.Binary.Right)
		}
	case ir.TermChoice:
		if !a.cfg.Dataflow.Definitions(t.Choice.Preferred).Empty() {
			a.makeLive(t.Choice.Preferred)
		} else {
			a.makeLive(t.Choice.Dflt)
		}
	default:
		a.warn(diag.LiveUnsupportedTerm, "unsupported kind of term: %d", t.Kind)
	}
}

func (a *analyzer) makeDefinitionsLive(tid ir.TermID) {
	defs := a.cfg.Dataflow.Definitions(tid)
	for _, chunk := range defs.Chunks {
		for _, def := range chunk.Defs {
			a.makeLive(def)
		}
	}
}

func (a *analyzer) warn(code diag.Code, format string, args ...any) {
	diag.Warning(a.cfg.Reporter, code, a.cfg.Function.Name, format, args...)
}
