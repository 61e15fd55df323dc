package ports

import "time"

// Clock supplies the current time to the application core. Injectable so
// tests can drive start/stop cycles deterministically.
type Clock interface {
	Now() time.Time
}
