package pipeline

import (
	"context"

	"drift/internal/arch"
	"drift/internal/image"
	"drift/internal/ir"
	"drift/internal/ir/calling"
	"drift/internal/ir/cflow"
	"drift/internal/ir/dflow"
	"drift/internal/ir/liveness"
	"drift/internal/ir/types"
	"drift/internal/ir/vars"
)

// The external collaborators are injected as typed strategies. Each one
// consumes exactly the artifacts guaranteed present at its pass boundary and
// returns the artifact it produces; the orchestrator threads the results
// through the Context.

// ProgramLifter produces the IR program from the image's instructions.
type ProgramLifter func(ctx context.Context, img *image.Image) (*ir.Program, error)

// FunctionPartitioner groups the program's blocks into functions.
type FunctionPartitioner func(p *ir.Program) (*ir.Functions, error)

// DataflowAnalyzer computes one function's reaching-definition facts.
type DataflowAnalyzer func(ctx context.Context, p *ir.Program, f *ir.Function, a *arch.Architecture, hooks *calling.Hooks) (*dflow.Dataflow, error)

// SignatureAnalyzer reconstructs callee signatures from all functions'
// dataflow facts.
type SignatureAnalyzer func(ctx context.Context, p *ir.Program, fns *ir.Functions, dataflows dflow.Dataflows, hooks *calling.Hooks) (*calling.Signatures, error)

// VariableAnalyzer coalesces term accesses into variables.
type VariableAnalyzer func(ctx context.Context, p *ir.Program, dataflows dflow.Dataflows, a *arch.Architecture) (*vars.Variables, error)

// StructureAnalyzer builds one function's structural region graph.
type StructureAnalyzer func(ctx context.Context, p *ir.Program, f *ir.Function, df *dflow.Dataflow) (*cflow.Graph, error)

// TypeInputs bundles everything type reconstruction reads.
type TypeInputs struct {
	Program    *ir.Program
	Functions  *ir.Functions
	Dataflows  dflow.Dataflows
	Variables  *vars.Variables
	Livenesses liveness.Livenesses
	Hooks      *calling.Hooks
	Signatures *calling.Signatures
}

// TypeAnalyzer reconstructs term types.
type TypeAnalyzer func(ctx context.Context, in TypeInputs) (*types.Types, error)

// DefaultDataflowAnalyzer knows nothing: every access stays unresolved and
// no definitions reach any read. Hosts plug in a real analyzer.
func DefaultDataflowAnalyzer(ctx context.Context, p *ir.Program, f *ir.Function, a *arch.Architecture, hooks *calling.Hooks) (*dflow.Dataflow, error) {
	return dflow.New(), nil
}

// DefaultSignatureAnalyzer reconstructs no signatures.
func DefaultSignatureAnalyzer(ctx context.Context, p *ir.Program, fns *ir.Functions, dataflows dflow.Dataflows, hooks *calling.Hooks) (*calling.Signatures, error) {
	return calling.NewSignatures(), nil
}

// DefaultVariableAnalyzer reconstructs no variables.
func DefaultVariableAnalyzer(ctx context.Context, p *ir.Program, dataflows dflow.Dataflows, a *arch.Architecture) (*vars.Variables, error) {
	return vars.New(), nil
}

// DefaultStructureAnalyzer recovers no regions: the graph is one basic node
// per block.
func DefaultStructureAnalyzer(ctx context.Context, p *ir.Program, f *ir.Function, df *dflow.Dataflow) (*cflow.Graph, error) {
	g := cflow.NewGraph()
	for _, bid := range f.Blocks {
		g.NewBasicNode(bid)
	}
	return g, nil
}

// DefaultTypeAnalyzer derives a size-only type for every live term that
// carries an intrinsic width.
func DefaultTypeAnalyzer(ctx context.Context, in TypeInputs) (*types.Types, error) {
	ts := types.New()
	if in.Functions == nil {
		return ts, nil
	}
	for _, f := range in.Functions.Funcs {
		live := in.Livenesses[f.ID]
		if live == nil {
			continue
		}
		for _, tid := range live.Terms() {
			if size := termSize(in.Program.Term(tid)); size != 0 {
				ts.Set(tid, &types.Type{Size: size})
			}
		}
	}
	return ts, nil
}

func termSize(t *ir.Term) uint32 {
	switch t.Kind {
	case ir.TermIntConst:
		return t.IntConst.Size
	case ir.TermIntrinsic:
		return t.Intrinsic.Size
	case ir.TermMemoryLocationAccess:
		return t.MemAccess.Loc.Size
	case ir.TermDereference:
		return t.Deref.Size
	case ir.TermUnaryOperator:
		return t.Unary.Size
	case ir.TermBinaryOperator:
		return t.Binary.Size
	}
	return 0
}
