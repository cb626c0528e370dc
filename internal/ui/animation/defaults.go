package animation

import "time"

// DefaultConfig returns the blink rhythm used for the finished indicator.
func DefaultConfig() Config {
	return Config{
		Visible: 350 * time.Millisecond,
		Hidden:  150 * time.Millisecond,
	}
}
