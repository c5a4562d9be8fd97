package output

import "time"

// Clock is the source of "now", injected so tests can control time.
type Clock interface {
	Now() time.Time
}
