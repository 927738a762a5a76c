package pipeline

import "time"

// Stage describes a high-level decompilation pass.
type Stage string

const (
	// StageLift is the IR creation stage.
	StageLift Stage = "lift"
	// StageFunctions is the function reconstruction and naming stage.
	StageFunctions Stage = "functions"
	// StageDataflow is the dataflow analysis stage (runs twice).
	StageDataflow Stage = "dataflow"
	// StageSignatures is the signature reconstruction stage.
	StageSignatures Stage = "signatures"
	// StageVariables is the variable reconstruction stage.
	StageVariables Stage = "variables"
	// StageStructure is the structural analysis stage.
	StageStructure Stage = "structure"
	// StageLiveness is the liveness analysis stage.
	StageLiveness Stage = "liveness"
	// StageTypes is the type reconstruction stage.
	StageTypes Stage = "types"
	// StageTree is the output tree generation stage.
	StageTree Stage = "tree"
	// StageCheck is the optional tree consistency check.
	StageCheck Stage = "check"
	// StageIndex is the term-to-function index stage.
	StageIndex Stage = "index"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusWorking indicates the stage is currently running.
	StatusWorking Status = "working"
	// StatusDone indicates the stage completed.
	StatusDone Status = "done"
	// StatusError indicates the stage failed.
	StatusError Status = "error"
)

// Event reports progress for a function (or for the whole pass when Function
// is empty).
type Event struct {
	Function string
	Stage    Stage
	Status   Status
	Err      error
	Elapsed  time.Duration
}

// ProgressSink consumes progress events. Implementations must tolerate
// concurrent calls: per-function passes report from worker goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}
