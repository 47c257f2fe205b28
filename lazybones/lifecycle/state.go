package lifecycle

import (
	"fmt"
	"strings"
)

// State is a lifecycle state. States are ordered: a lifecycle that is
// resumed is also started and created.
type State int

const (
	StateDestroyed State = iota
	StateInitialized
	StateCreated
	StateStarted
	StateResumed
)

var ErrUnknownState = fmt.Errorf("lifecycle: unknown state")

var stateNames = map[State]string{
	StateDestroyed:   "destroyed",
	StateInitialized: "initialized",
	StateCreated:     "created",
	StateStarted:     "started",
	StateResumed:     "resumed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) IsAtLeast(other State) bool {
	return s >= other
}

func ParseState(s string) (State, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for state, n := range stateNames {
		if n == name {
			return state, nil
		}
	}
	return StateDestroyed, fmt.Errorf("%w: %q", ErrUnknownState, s)
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
