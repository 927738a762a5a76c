package liveness_test

import (
	"testing"

	"drift/internal/arch"
	"drift/internal/diag"
	"drift/internal/ir"
	"drift/internal/ir/calling"
	"drift/internal/ir/cflow"
	"drift/internal/ir/dflow"
	"drift/internal/ir/liveness"
)

// env bundles the artifacts one analysis run consumes. Tests build the IR
// through it and then call analyze.
type env struct {
	p  *ir.Program
	f  *ir.Function
	df *dflow.Dataflow
	a  *arch.Architecture
	g  *cflow.Graph
	h  *calling.Hooks
}

func newEnv() *env {
	return &env{
		p:  ir.NewProgram(),
		f:  &ir.Function{Name: "f", Entry: ir.NoBlockID},
		df: dflow.New(),
		a:  arch.New("test", 64),
		g:  cflow.NewGraph(),
		h:  calling.NewHooks(calling.NewConventions(), calling.NewSignatures()),
	}
}

func (e *env) block() ir.BlockID {
	b := e.p.NewBlock(0, false)
	e.f.Blocks = append(e.f.Blocks, b)
	if e.f.Entry == ir.NoBlockID {
		e.f.Entry = b
	}
	return b
}

func (e *env) analyze() *liveness.Liveness {
	return liveness.Analyze(liveness.Config{
		Program:  e.p,
		Function: e.f,
		Dataflow: e.df,
		Arch:     e.a,
		Graph:    e.g,
		Hooks:    e.h,
	})
}

func regLoc(off uint64) ir.MemoryLocation {
	return ir.MemoryLocation{Domain: arch.DomainRegisters, Offset: off, Size: 8}
}

func stackLoc(off uint64) ir.MemoryLocation {
	return ir.MemoryLocation{Domain: arch.DomainStack, Offset: off, Size: 8}
}

func memLoc(off uint64) ir.MemoryLocation {
	return ir.MemoryLocation{Domain: arch.DomainMemory, Offset: off, Size: 8}
}

func defs(ws ...ir.TermID) dflow.Definitions {
	return dflow.Definitions{Chunks: []dflow.Chunk{{Defs: ws}}}
}

func wantLive(t *testing.T, l *liveness.Liveness, live []ir.TermID, dead []ir.TermID) {
	t.Helper()
	for _, id := range live {
		if !l.IsLive(id) {
			t.Errorf("term %d should be live", id)
		}
	}
	for _, id := range dead {
		if l.IsLive(id) {
			t.Errorf("term %d should be dead", id)
		}
	}
}

func TestEmptyFunctionHasNoLiveTerms(t *testing.T) {
	e := newEnv()
	e.block()
	if got := e.analyze().Len(); got != 0 {
		t.Fatalf("expected empty live set, got %d terms", got)
	}
}

func TestStoreToLocalIsDead(t *testing.T) {
	e := newEnv()
	b := e.block()

	// r1 = *G; stack = r1 + 1
	gRead := e.p.NewMemAccess(memLoc(0x1000), ir.AccessRead)
	r1Write := e.p.NewMemAccess(regLoc(0), ir.AccessWrite)
	e.p.AppendStmt(b, e.p.NewAssignment(r1Write, gRead))

	r1Read := e.p.NewMemAccess(regLoc(0), ir.AccessRead)
	e.df.SetDefinitions(r1Read, defs(r1Write))
	one := e.p.NewIntConst(1, 64)
	sum := e.p.NewBinary(ir.BinaryAdd, r1Read, one, 64)
	stkWrite := e.p.NewMemAccess(stackLoc(8), ir.AccessWrite)
	e.p.AppendStmt(b, e.p.NewAssignment(stkWrite, sum))
	e.p.AppendStmt(b, e.p.NewReturn())

	if got := e.analyze().Len(); got != 0 {
		t.Fatalf("store to a local location produced %d live terms, want 0", got)
	}
}

func TestStoreToGlobalPullsDefinitionChain(t *testing.T) {
	e := newEnv()
	b := e.block()

	gRead := e.p.NewMemAccess(memLoc(0x1000), ir.AccessRead)
	r1Write := e.p.NewMemAccess(regLoc(0), ir.AccessWrite)
	e.p.AppendStmt(b, e.p.NewAssignment(r1Write, gRead))

	r1Read := e.p.NewMemAccess(regLoc(0), ir.AccessRead)
	e.df.SetDefinitions(r1Read, defs(r1Write))
	one := e.p.NewIntConst(1, 64)
	sum := e.p.NewBinary(ir.BinaryAdd, r1Read, one, 64)
	stkWrite := e.p.NewMemAccess(stackLoc(8), ir.AccessWrite)
	e.p.AppendStmt(b, e.p.NewAssignment(stkWrite, sum))

	// The same sum also reaches a global cell, which makes the whole chain
	// observable while the stack copy stays dead.
	hWrite := e.p.NewMemAccess(memLoc(0x2000), ir.AccessWrite)
	e.p.AppendStmt(b, e.p.NewAssignment(hWrite, sum))
	e.p.AppendStmt(b, e.p.NewReturn())

	l := e.analyze()
	wantLive(t, l, []ir.TermID{hWrite, sum, r1Read, one, r1Write, gRead}, []ir.TermID{stkWrite})
}

func TestJumpRootsItsOperands(t *testing.T) {
	e := newEnv()
	b := e.block()

	cond := e.p.NewMemAccess(regLoc(0), ir.AccessRead)
	thenAddr := e.p.NewIntConst(0x4000, 64)
	elseAddr := e.p.NewIntConst(0x4010, 64)
	e.p.AppendStmt(b, e.p.NewJump(cond,
		ir.JumpTarget{Addr: thenAddr, Block: ir.NoBlockID},
		ir.JumpTarget{Addr: elseAddr, Block: ir.NoBlockID}))

	l := e.analyze()
	wantLive(t, l, []ir.TermID{cond, thenAddr, elseAddr}, nil)
}

func TestSwitchBoundsCheckJumpIsDead(t *testing.T) {
	e := newEnv()

	// Two structurally identical conditional jumps. The first terminates the
	// bounds-check block of a recovered switch and must contribute nothing.
	checkBlock := e.block()
	checkCond := e.p.NewMemAccess(regLoc(0), ir.AccessRead)
	checkAddr := e.p.NewIntConst(0x4000, 64)
	e.p.AppendStmt(checkBlock, e.p.NewJump(checkCond,
		ir.JumpTarget{Addr: checkAddr, Block: ir.NoBlockID}, ir.NoJumpTarget()))

	plainBlock := e.block()
	plainCond := e.p.NewMemAccess(regLoc(8), ir.AccessRead)
	plainAddr := e.p.NewIntConst(0x4010, 64)
	e.p.AppendStmt(plainBlock, e.p.NewJump(plainCond,
		ir.JumpTarget{Addr: plainAddr, Block: ir.NoBlockID}, ir.NoJumpTarget()))

	checkNode := e.g.NewBasicNode(checkBlock)
	bodyNode := e.g.NewBasicNode(plainBlock)
	region := e.g.NewRegion(cflow.RegionSwitch, checkNode, bodyNode)
	e.g.SetBoundsCheck(region, checkNode)

	l := e.analyze()
	wantLive(t, l, []ir.TermID{plainCond, plainAddr}, []ir.TermID{checkCond, checkAddr})
}

func TestChoiceTakesExactlyOneAlternative(t *testing.T) {
	e := newEnv()
	b := e.block()

	// choice with definitions behind its preferred alternative
	prefDef := e.p.NewMemAccess(regLoc(0), ir.AccessWrite)
	pref := e.p.NewMemAccess(regLoc(0), ir.AccessRead)
	e.df.SetDefinitions(pref, defs(prefDef))
	dflt := e.p.NewMemAccess(regLoc(8), ir.AccessRead)
	choice := e.p.NewChoice(pref, dflt)
	g1 := e.p.NewMemAccess(memLoc(0x1000), ir.AccessWrite)
	e.p.AppendStmt(b, e.p.NewAssignment(g1, choice))

	// choice with no definitions behind its preferred alternative
	pref2 := e.p.NewMemAccess(regLoc(16), ir.AccessRead)
	dflt2 := e.p.NewIntConst(0, 64)
	choice2 := e.p.NewChoice(pref2, dflt2)
	g2 := e.p.NewMemAccess(memLoc(0x2000), ir.AccessWrite)
	e.p.AppendStmt(b, e.p.NewAssignment(g2, choice2))
	e.p.AppendStmt(b, e.p.NewReturn())

	l := e.analyze()
	wantLive(t, l, []ir.TermID{choice, pref, prefDef, choice2, dflt2}, []ir.TermID{dflt, pref2})
}

func TestPreferConstantsStopsAtKnownValues(t *testing.T) {
	e := newEnv()
	b := e.block()

	def := e.p.NewMemAccess(regLoc(0), ir.AccessWrite)
	read := e.p.NewMemAccess(regLoc(0), ir.AccessRead)
	e.df.SetDefinitions(read, defs(def))
	e.df.SetValue(read, dflow.Value{Concrete: true, Const: 5})
	gWrite := e.p.NewMemAccess(memLoc(0x1000), ir.AccessWrite)
	e.p.AppendStmt(b, e.p.NewAssignment(gWrite, read))
	e.p.AppendStmt(b, e.p.NewReturn())

	l := liveness.Analyze(liveness.Config{
		Program: e.p, Function: e.f, Dataflow: e.df, Arch: e.a, Graph: e.g, Hooks: e.h,
		PreferConstants: true,
	})
	wantLive(t, l, []ir.TermID{gWrite, read}, []ir.TermID{def})

	// Without the optimization the definition is pulled in.
	wantLive(t, e.analyze(), []ir.TermID{gWrite, read, def}, nil)
}

func TestUnresolvedDereferenceWriteIsObservable(t *testing.T) {
	e := newEnv()
	b := e.block()

	addr := e.p.NewMemAccess(regLoc(0), ir.AccessRead)
	deref := e.p.NewDereference(addr, 64, ir.AccessWrite)
	src := e.p.NewIntConst(7, 64)
	e.p.AppendStmt(b, e.p.NewAssignment(deref, src))
	e.p.AppendStmt(b, e.p.NewReturn())

	l := e.analyze()
	wantLive(t, l, []ir.TermID{deref, src, addr}, nil)
}

func TestResolvedLocalDereferenceWriteIsDead(t *testing.T) {
	e := newEnv()
	b := e.block()

	addr := e.p.NewMemAccess(regLoc(0), ir.AccessRead)
	deref := e.p.NewDereference(addr, 64, ir.AccessWrite)
	e.df.SetMemoryLocation(deref, stackLoc(16))
	src := e.p.NewIntConst(7, 64)
	e.p.AppendStmt(b, e.p.NewAssignment(deref, src))
	e.p.AppendStmt(b, e.p.NewReturn())

	if got := e.analyze().Len(); got != 0 {
		t.Fatalf("store through a resolved local pointer produced %d live terms, want 0", got)
	}
}

func TestResolvedDereferenceReadSkipsAddress(t *testing.T) {
	e := newEnv()
	b := e.block()

	addr := e.p.NewMemAccess(regLoc(0), ir.AccessRead)
	deref := e.p.NewDereference(addr, 64, ir.AccessRead)
	e.df.SetMemoryLocation(deref, stackLoc(16))
	def := e.p.NewMemAccess(stackLoc(16), ir.AccessWrite)
	e.df.SetDefinitions(deref, defs(def))
	gWrite := e.p.NewMemAccess(memLoc(0x1000), ir.AccessWrite)
	e.p.AppendStmt(b, e.p.NewAssignment(gWrite, deref))
	e.p.AppendStmt(b, e.p.NewReturn())

	l := e.analyze()
	wantLive(t, l, []ir.TermID{gWrite, deref, def}, []ir.TermID{addr})
}

func TestLoopCarriedDefinitionsTerminate(t *testing.T) {
	e := newEnv()
	b := e.block()

	// r = r: the write's value depends on a read whose only reaching
	// definition is the write itself.
	gWrite := e.p.NewMemAccess(memLoc(0x1000), ir.AccessWrite)
	read := e.p.NewMemAccess(memLoc(0x1000), ir.AccessRead)
	e.df.SetDefinitions(read, defs(gWrite))
	e.p.AppendStmt(b, e.p.NewAssignment(gWrite, read))
	e.p.AppendStmt(b, e.p.NewReturn())

	l := e.analyze()
	wantLive(t, l, []ir.TermID{gWrite, read}, nil)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	e := newEnv()
	b := e.block()

	gRead := e.p.NewMemAccess(memLoc(0x1000), ir.AccessRead)
	neg := e.p.NewUnary(ir.UnaryNegation, gRead, 64)
	gWrite := e.p.NewMemAccess(memLoc(0x2000), ir.AccessWrite)
	e.p.AppendStmt(b, e.p.NewAssignment(gWrite, neg))
	e.p.AppendStmt(b, e.p.NewReturn())

	first := e.analyze().Terms()
	second := e.analyze().Terms()
	if len(first) != len(second) {
		t.Fatalf("runs disagree: %d vs %d live terms", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("runs disagree at %d: %d vs %d", i, first[i], second[i])
		}
	}
}

func TestCallRootsTargetAndHookArguments(t *testing.T) {
	e := newEnv()
	b := e.block()

	callee := calling.EntryAddrCallee(0x400100)
	argLoc := regLoc(0)
	e.h.Conventions().Set(callee, &calling.Convention{
		Name:    "fast",
		ArgLocs: []ir.MemoryLocation{argLoc},
		RetLoc:  regLoc(8),
	})
	e.h.Signatures().Set(callee, &calling.Signature{
		Name: "callee",
		Args: []ir.MemoryLocation{argLoc},
	})

	argDef := e.p.NewMemAccess(argLoc, ir.AccessWrite)
	seven := e.p.NewIntConst(7, 64)
	e.p.AppendStmt(b, e.p.NewAssignment(argDef, seven))

	target := e.p.NewIntConst(0x400100, 64)
	call := e.p.NewCall(target)
	e.p.AppendStmt(b, call)
	e.p.AppendStmt(b, e.p.NewReturn())

	e.h.InstrumentFunction(e.p, e.f)
	argTerm := e.h.CallHook(call).ArgumentTerm(argLoc)
	if argTerm == ir.NoTermID {
		t.Fatalf("call hook did not materialize an argument term")
	}
	e.df.SetDefinitions(argTerm, defs(argDef))

	l := e.analyze()
	wantLive(t, l, []ir.TermID{target, argTerm, argDef, seven}, nil)
}

func TestReturnValueRootsReturnHook(t *testing.T) {
	e := newEnv()
	b := e.block()

	retLoc := regLoc(0)
	own := calling.FuncCallee(e.f.ID)
	e.h.Signatures().Set(own, &calling.Signature{Name: "f", Ret: retLoc})

	retDef := e.p.NewMemAccess(retLoc, ir.AccessWrite)
	answer := e.p.NewIntConst(42, 64)
	e.p.AppendStmt(b, e.p.NewAssignment(retDef, answer))
	e.p.AppendStmt(b, e.p.NewReturn())

	e.h.InstrumentFunction(e.p, e.f)
	rets := e.f.Returns(e.p)
	if len(rets) != 1 {
		t.Fatalf("expected one return, got %d", len(rets))
	}
	retTerm := e.h.ReturnHook(e.f, rets[0]).ReturnValueTerm(retLoc)
	if retTerm == ir.NoTermID {
		t.Fatalf("return hook did not materialize a value term")
	}
	e.df.SetDefinitions(retTerm, defs(retDef))

	l := e.analyze()
	wantLive(t, l, []ir.TermID{retTerm, retDef, answer}, nil)
}

func TestUnsupportedStatementWarns(t *testing.T) {
	e := newEnv()
	b := e.block()
	bad := e.p.NewStmt(ir.Statement{Kind: ir.StmtKind(99)})
	e.p.AppendStmt(b, bad)

	bag := diag.NewBag(10)
	liveness.Analyze(liveness.Config{
		Program: e.p, Function: e.f, Dataflow: e.df, Arch: e.a, Graph: e.g, Hooks: e.h,
		Reporter: diag.BagReporter{Bag: bag},
	})
	if !bag.HasWarnings() {
		t.Fatalf("expected a warning for the unsupported statement")
	}
	if got := bag.Items()[0].Code; got != diag.LiveUnsupportedStatement {
		t.Fatalf("wrong diagnostic code: %v", got)
	}
}
