package driver

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageLex is tokenization.
	StageLex Stage = "lex"
	// StageParse builds the AST.
	StageParse Stage = "parse"
	// StageBind resolves names, conformance and types.
	StageBind Stage = "bind"
	// StageEmit lowers a bound module to C.
	StageEmit Stage = "emit"
	// StageWrite flushes generated files to disk.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the module is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the module is being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the module finished cleanly.
	StatusDone Status = "done"
	// StatusError indicates the module produced errors.
	StatusError Status = "error"
)

// Event reports progress for one module, or for the pipeline as a
// whole when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
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

// nopSink drops every event; it stands in when no sink is configured.
type nopSink struct{}

func (nopSink) OnEvent(Event) {}
