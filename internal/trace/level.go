package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // only error points
	LevelPhase               // driver + pass boundaries
	LevelDetail              // per-unit events
	LevelDebug               // everything including symbol-table events
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// levelScopes holds, per level, the bit set of scopes it lets through.
var levelScopes = [...]uint8{
	LevelOff:    0,
	LevelError:  scopeBit(ScopeError),
	LevelPhase:  scopeBit(ScopeError) | scopeBit(ScopeDriver) | scopeBit(ScopePass),
	LevelDetail: scopeBit(ScopeError) | scopeBit(ScopeDriver) | scopeBit(ScopePass) | scopeBit(ScopeUnit),
	LevelDebug:  0xff,
}

func scopeBit(s Scope) uint8 { return 1 << s }

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a string to a Level; the empty string is off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil // #nosec G115 -- index into levelNames
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit returns true if the given scope should emit at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levelScopes) {
		return false
	}
	return levelScopes[l]&scopeBit(scope) != 0
}
