package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UTC adapts any clock (for example a test mock) so every reading is in UTC.
type UTC struct {
	Clock Clock
}

func (c UTC) Now() time.Time {
	return c.Clock.Now().UTC()
}
