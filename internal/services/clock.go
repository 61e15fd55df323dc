package services

import "time"

// systemClock is the default ports.Clock backed by the wall clock.
type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
