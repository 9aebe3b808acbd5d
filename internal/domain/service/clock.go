package service

import (
	"time"

	"github.com/hillkeeper/hillkeeper/internal/domain/utils/location"
)

// Clock supplies the current wall-clock time in the configured timezone.
type Clock interface {
	Now() time.Time
}

type locationClock struct{}

func (locationClock) Now() time.Time {
	return location.Now()
}

func NewClock() Clock {
	return locationClock{}
}
