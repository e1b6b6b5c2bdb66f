package service

import "time"

// systemClock implements ports.Clock with the wall clock.
type systemClock struct{}

// NewSystemClock returns the wall-clock implementation of ports.Clock.
func NewSystemClock() systemClock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}
