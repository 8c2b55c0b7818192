package engine_v1

import "time"

// Clock abstracts wall-clock reads so the time-window gates can be tested.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
