package lazy

import (
	"fmt"
	"strings"
)

// Mode selects how a Value synchronizes its first initialization.
type Mode int

const (
	// ModeNone assumes single goroutine access and takes no locks.
	ModeNone Mode = iota
	// ModeSynchronized runs the factory at most once; concurrent first
	// callers block until the value is ready.
	ModeSynchronized
	// ModePublication lets racing callers run the factory concurrently;
	// the first published result wins and every caller returns it.
	ModePublication
)

var ErrUnknownMode = fmt.Errorf("lazy: unknown mode")

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeSynchronized:
		return "synchronized"
	case ModePublication:
		return "publication"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts the names produced by Mode.String, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return ModeNone, nil
	case "synchronized", "sync":
		return ModeSynchronized, nil
	case "publication":
		return ModePublication, nil
	default:
		return ModeNone, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}
