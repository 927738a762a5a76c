package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drift/internal/cgen"
	"drift/internal/diag"
	"drift/internal/ir"
	"drift/internal/ir/calling"
	"drift/internal/ir/cflow"
	"drift/internal/ir/dflow"
	"drift/internal/ir/liveness"
	"drift/internal/ir/misc"
)

// Master runs the fixed sequence of analyses over a Context. The external
// collaborators — lifter, partitioner, dataflow, signature, variable,
// structural and type analyzers — are injected as strategies; zero-valued
// fields fall back to the defaults in strategies.go. The liveness engine and
// tree generation are owned by the core and not replaceable.
//
// The sequence is: lift → functions (naming) → dataflow → signatures →
// dataflow again (new signatures invalidate the call-hook model and every
// fact derived from it) → variables → structure → liveness → types → tree →
// optional tree check → term-to-function index. Signature reconstruction
// triggers exactly one dataflow rerun.
type Master struct {
	Lift      ProgramLifter
	Partition FunctionPartitioner

	AnalyzeDataflow       DataflowAnalyzer
	ReconstructSignatures SignatureAnalyzer
	ReconstructVariables  VariableAnalyzer
	AnalyzeStructure      StructureAnalyzer
	ReconstructTypes      TypeAnalyzer

	// DetectConvention is invoked once per callee identity during dataflow
	// analysis. The default performs no inference.
	DetectConvention func(c *Context, id calling.CalleeID)

	// PreferConstants enables the liveness engine's constant-pruning mode.
	PreferConstants bool

	// Check enables the diagnostic-only tree consistency pass.
	Check bool

	// Jobs bounds the worker pool for per-function passes; <= 0 means one
	// worker per CPU.
	Jobs int
}

// NewMaster returns a master with the default strategies.
func NewMaster() *Master {
	return &Master{
		AnalyzeDataflow:       DefaultDataflowAnalyzer,
		ReconstructSignatures: DefaultSignatureAnalyzer,
		ReconstructVariables:  DefaultVariableAnalyzer,
		AnalyzeStructure:      DefaultStructureAnalyzer,
		ReconstructTypes:      DefaultTypeAnalyzer,
	}
}

// Decompile runs the whole pipeline. Cancellation is cooperative: ctx is
// polled between passes and between per-function iterations, never inside a
// single function's computation. A cancelled job returns ctx's error, which
// callers must treat as "did not complete", distinct from pass failure; any
// pass failure is fatal and propagated unchanged. Artifacts produced by
// passes that completed before cancellation or failure remain valid on the
// Context.
func (m *Master) Decompile(ctx context.Context, c *Context) error {
	diag.Info(c.Reporter, diag.PipeInfo, "decompiling %s (job %s)", c.Image.Name(), c.JobID)

	type pass struct {
		stage Stage
		run   func(context.Context, *Context) error
	}
	passes := []pass{
		{StageLift, m.createProgram},
		{StageFunctions, m.createFunctions},
		{StageDataflow, m.dataflowAnalysis},
		{StageSignatures, m.reconstructSignatures},
		{StageDataflow, m.dataflowAnalysis},
		{StageVariables, m.reconstructVariables},
		{StageStructure, m.structuralAnalysis},
		{StageLiveness, m.livenessAnalysis},
		{StageTypes, m.reconstructTypes},
		{StageTree, m.generateTree},
	}
	if m.Check {
		passes = append(passes, pass{StageCheck, m.checkTree})
	}
	passes = append(passes, pass{StageIndex, m.computeTermToFunction})

	for _, p := range passes {
		if err := pollCancel(ctx); err != nil {
			diag.Info(c.Reporter, diag.PipeCancelled, "decompilation cancelled")
			return err
		}
		idx := c.Timer.Begin(string(p.stage))
		start := time.Now()
		c.emit(Event{Stage: p.stage, Status: StatusWorking})
		if err := p.run(ctx, c); err != nil {
			c.Timer.End(idx, "failed")
			c.emit(Event{Stage: p.stage, Status: StatusError, Err: err, Elapsed: time.Since(start)})
			if isCancel(err) {
				diag.Info(c.Reporter, diag.PipeCancelled, "decompilation cancelled")
				return err
			}
			return fmt.Errorf("%s: %w", p.stage, err)
		}
		c.Timer.End(idx, "")
		c.emit(Event{Stage: p.stage, Status: StatusDone, Elapsed: time.Since(start)})
	}

	diag.Info(c.Reporter, diag.PipeInfo, "decompilation completed")
	return nil
}

// pollCancel is the cooperative cancellation check: a value check on the
// context, no unwinding.
func pollCancel(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (m *Master) createProgram(ctx context.Context, c *Context) error {
	diag.Info(c.Reporter, diag.PipeInfo, "creating intermediate representation of the program")
	if c.Program != nil {
		return nil
	}
	if m.Lift == nil {
		return fmt.Errorf("no program present and no lifter installed")
	}
	p, err := m.Lift(ctx, c.Image)
	if err != nil {
		return err
	}
	c.Program = p
	return nil
}

func (m *Master) createFunctions(ctx context.Context, c *Context) error {
	diag.Info(c.Reporter, diag.PipeInfo, "creating functions")
	if c.Functions == nil {
		if m.Partition == nil {
			return fmt.Errorf("no functions present and no partitioner installed")
		}
		fns, err := m.Partition(c.Program)
		if err != nil {
			return err
		}
		c.Functions = fns
	}
	if err := ir.Validate(c.Program, c.Functions); err != nil {
		return fmt.Errorf("malformed program: %w", err)
	}
	for _, f := range c.Functions.Funcs {
		m.pickFunctionName(c, f)
	}
	return nil
}

func (m *Master) dataflowAnalysis(ctx context.Context, c *Context) error {
	diag.Info(c.Reporter, diag.PipeInfo, "dataflow analysis")

	if c.Signatures == nil {
		c.Signatures = calling.NewSignatures()
	}
	if c.Conventions == nil {
		c.Conventions = calling.NewConventions()
	}

	// Hooks are rebuilt each time: a fresh signature table invalidates every
	// previously materialized hook term model.
	c.Hooks = calling.NewHooks(c.Conventions, c.Signatures)
	if m.DetectConvention != nil {
		c.Hooks.SetConventionDetector(func(id calling.CalleeID) {
			m.DetectConvention(c, id)
		})
	}

	// Instrumentation materializes terms in the shared arena, so it runs
	// sequentially before the analyses fan out.
	for _, f := range c.Functions.Funcs {
		if err := pollCancel(ctx); err != nil {
			return err
		}
		c.Hooks.InstrumentFunction(c.Program, f)
	}

	results := make([]*dflow.Dataflow, c.Functions.Len())
	err := m.forEachFunction(ctx, c.Functions, func(i int, f *ir.Function) error {
		diag.Info(c.Reporter, diag.PipeInfo, "dataflow analysis of %s", f.Name)
		df, err := m.AnalyzeDataflow(ctx, c.Program, f, c.Image.Arch(), c.Hooks)
		if err != nil {
			return fmt.Errorf("dataflow analysis of %s: %w", f.Name, err)
		}
		results[i] = df
		return nil
	})
	if err != nil {
		return err
	}

	c.Dataflows = make(dflow.Dataflows, c.Functions.Len())
	for i, f := range c.Functions.Funcs {
		c.Dataflows[f.ID] = results[i]
	}
	return nil
}

func (m *Master) reconstructSignatures(ctx context.Context, c *Context) error {
	diag.Info(c.Reporter, diag.PipeInfo, "reconstructing function signatures")
	sigs, err := m.ReconstructSignatures(ctx, c.Program, c.Functions, c.Dataflows, c.Hooks)
	if err != nil {
		return err
	}
	c.Signatures = sigs
	return nil
}

func (m *Master) reconstructVariables(ctx context.Context, c *Context) error {
	diag.Info(c.Reporter, diag.PipeInfo, "reconstructing variables")
	vs, err := m.ReconstructVariables(ctx, c.Program, c.Dataflows, c.Image.Arch())
	if err != nil {
		return err
	}
	c.Variables = vs
	return nil
}

func (m *Master) structuralAnalysis(ctx context.Context, c *Context) error {
	diag.Info(c.Reporter, diag.PipeInfo, "structural analysis")

	results := make([]*cflow.Graph, c.Functions.Len())
	err := m.forEachFunction(ctx, c.Functions, func(i int, f *ir.Function) error {
		diag.Info(c.Reporter, diag.PipeInfo, "structural analysis of %s", f.Name)
		g, err := m.AnalyzeStructure(ctx, c.Program, f, c.Dataflows[f.ID])
		if err != nil {
			return fmt.Errorf("structural analysis of %s: %w", f.Name, err)
		}
		results[i] = g
		return nil
	})
	if err != nil {
		return err
	}

	c.Graphs = make(cflow.Graphs, c.Functions.Len())
	for i, f := range c.Functions.Funcs {
		c.Graphs[f.ID] = results[i]
	}
	return nil
}

func (m *Master) livenessAnalysis(ctx context.Context, c *Context) error {
	diag.Info(c.Reporter, diag.PipeInfo, "liveness analysis")

	results := make([]*liveness.Liveness, c.Functions.Len())
	err := m.forEachFunction(ctx, c.Functions, func(i int, f *ir.Function) error {
		diag.Info(c.Reporter, diag.PipeInfo, "liveness analysis of %s", f.Name)
		results[i] = liveness.Analyze(liveness.Config{
			Program:         c.Program,
			Function:        f,
			Dataflow:        c.Dataflows[f.ID],
			Arch:            c.Image.Arch(),
			Graph:           c.Graphs[f.ID],
			Hooks:           c.Hooks,
			Reporter:        c.Reporter,
			PreferConstants: m.PreferConstants,
		})
		return nil
	})
	if err != nil {
		return err
	}

	c.Livenesses = make(liveness.Livenesses, c.Functions.Len())
	for i, f := range c.Functions.Funcs {
		c.Livenesses[f.ID] = results[i]
	}
	return nil
}

func (m *Master) reconstructTypes(ctx context.Context, c *Context) error {
	diag.Info(c.Reporter, diag.PipeInfo, "reconstructing types")
	ts, err := m.ReconstructTypes(ctx, TypeInputs{
		Program:    c.Program,
		Functions:  c.Functions,
		Dataflows:  c.Dataflows,
		Variables:  c.Variables,
		Livenesses: c.Livenesses,
		Hooks:      c.Hooks,
		Signatures: c.Signatures,
	})
	if err != nil {
		return err
	}
	c.Types = ts
	return nil
}

func (m *Master) generateTree(ctx context.Context, c *Context) error {
	diag.Info(c.Reporter, diag.PipeInfo, "generating output tree")
	c.Tree = cgen.Generate(c.Program, c.Functions, c.Hooks, c.Livenesses)
	return nil
}

func (m *Master) checkTree(ctx context.Context, c *Context) error {
	diag.Info(c.Reporter, diag.PipeInfo, "checking output tree")
	cgen.CheckTree(c.Program, c.Functions, c.Hooks, c.Tree, c.Reporter)
	return nil
}

func (m *Master) computeTermToFunction(ctx context.Context, c *Context) error {
	diag.Info(c.Reporter, diag.PipeInfo, "computing term to function mapping")
	c.TermToFunction = misc.NewTermToFunction(c.Program, c.Functions, c.Hooks)
	return nil
}
