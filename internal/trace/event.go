package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1 // span start
	KindSpanEnd                   // span end, carries Dur
	KindPoint                     // instant event
)

var kindNames = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point"}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// arrow is the marker text output uses for the kind.
func (k Kind) arrow() string {
	switch k {
	case KindSpanBegin:
		return "→"
	case KindSpanEnd:
		return "←"
	}
	return "•"
}

// Scope indicates the granularity level of the event.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // check run, cache, require loading
	ScopePass                    // collect, desugar, validate, resolve
	ScopeUnit                    // one interchange file
	ScopeNode                    // symbol-table and node level
	ScopeError                   // error points, emitted from LevelError up
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopePass:   "pass",
	ScopeUnit:   "unit",
	ScopeNode:   "node",
	ScopeError:  "error",
}

func (s Scope) String() string {
	if s > 0 && int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "unknown"
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string // "collect", "src/main.phs", "debug"
	Detail   string
	Dur      time.Duration // только у KindSpanEnd
	Extra    map[string]string
}
