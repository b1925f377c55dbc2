package driver

// Stage is the step a unit is in.
type Stage string

const (
	StageLoad     Stage = "load"
	StageCollect  Stage = "collect"
	StageDesugar  Stage = "desugar"
	StageValidate Stage = "validate"
	StageResolve  Stage = "resolve"
)

// Status of a unit within its stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
	// StatusSkipped marks units left out after the session aborted.
	StatusSkipped Status = "skipped"
)

// Event reports progress for a unit (or for the whole run when File is
// empty). File is the interchange path given to Check.
type Event struct {
	File   string
	Stage  Stage
	Status Status
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

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
