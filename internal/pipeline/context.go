package pipeline

import (
	"github.com/google/uuid"

	"drift/internal/cgen"
	"drift/internal/diag"
	"drift/internal/image"
	"drift/internal/ir"
	"drift/internal/ir/calling"
	"drift/internal/ir/cflow"
	"drift/internal/ir/dflow"
	"drift/internal/ir/liveness"
	"drift/internal/ir/misc"
	"drift/internal/ir/types"
	"drift/internal/ir/vars"
	"drift/internal/observ"
)

// Context is the aggregate root of one decompilation job. It owns every
// top-level artifact; each field is written exactly once, by the pass that
// produces it, and is read-only afterwards — across the pipeline's lifetime
// the context is append-only. A Context must not be shared between jobs.
type Context struct {
	// JobID identifies the job in logs and progress streams.
	JobID uuid.UUID

	// Image is the binary under analysis; set by the host before the job.
	Image *image.Image

	// Program may be pre-set by the host (e.g. loaded from a program file);
	// otherwise the lift pass produces it.
	Program   *ir.Program
	Functions *ir.Functions

	Conventions *calling.Conventions
	Signatures  *calling.Signatures
	Hooks       *calling.Hooks

	Dataflows  dflow.Dataflows
	Graphs     cflow.Graphs
	Livenesses liveness.Livenesses

	Variables      *vars.Variables
	Types          *types.Types
	Tree           *cgen.Tree
	TermToFunction *misc.TermToFunction

	// Reporter receives status messages and warnings; never nil.
	Reporter diag.Reporter

	// Progress receives stage events; may be nil.
	Progress ProgressSink

	// Timer accumulates per-pass durations.
	Timer *observ.Timer
}

// NewContext creates a job context for an image. Passing a nil reporter
// installs the drop-everything one.
func NewContext(img *image.Image, reporter diag.Reporter) *Context {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Context{
		JobID:    uuid.New(),
		Image:    img,
		Reporter: reporter,
		Timer:    observ.NewTimer(),
	}
}

func (c *Context) emit(evt Event) {
	if c.Progress != nil {
		c.Progress.OnEvent(evt)
	}
}
