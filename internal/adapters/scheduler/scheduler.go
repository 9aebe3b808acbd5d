package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hillkeeper/hillkeeper/internal/adapters/metrics"
	"github.com/hillkeeper/hillkeeper/internal/domain/service"
	"github.com/hillkeeper/hillkeeper/pkg/logger/types"
)

// Job is the body of a scheduled trigger. Its errors are contained by the
// trigger itself and never reach anything above it.
type Job func(ctx context.Context) error

type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" as configured for the trigger times.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day: %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", value)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// ParseWeekday parses a lowercase weekday name ("thursday").
func ParseWeekday(value string) (time.Weekday, error) {
	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.EqualFold(day.String(), value) {
			return day, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday: %q", value)
}

// DailyTrigger fires once per calendar day at a fixed local time. The weekday
// gate is evaluated at fire time: on non-target weekdays it logs and returns
// without touching the job. A failing or panicking run never stops future
// firings.
type DailyTrigger struct {
	name    string
	at      TimeOfDay
	weekday time.Weekday

	clock  service.Clock
	job    Job
	logger *types.Logger

	stop chan struct{}
}

func NewDailyTrigger(name string, at TimeOfDay, weekday time.Weekday, clock service.Clock, job Job, logger *types.Logger) *DailyTrigger {
	return &DailyTrigger{
		name:    name,
		at:      at,
		weekday: weekday,
		clock:   clock,
		job:     job,
		logger:  logger,
		stop:    make(chan struct{}),
	}
}

func (t *DailyTrigger) Start() {
	t.logger.Infof("%s trigger scheduled daily at %02d:%02d (%s only)", t.name, t.at.Hour, t.at.Minute, t.weekday)
	go t.loop()
}

func (t *DailyTrigger) Stop() {
	close(t.stop)
}

func (t *DailyTrigger) loop() {
	for {
		now := t.clock.Now()
		timer := time.NewTimer(t.nextFire(now).Sub(now))

		select {
		case <-timer.C:
			t.runOnce(t.clock.Now())
		case <-t.stop:
			timer.Stop()
			return
		}
	}
}

// nextFire returns the next instant the trigger fires: today at the
// configured time, or tomorrow if that already passed.
func (t *DailyTrigger) nextFire(now time.Time) time.Time {
	fire := time.Date(now.Year(), now.Month(), now.Day(), t.at.Hour, t.at.Minute, 0, 0, now.Location())
	if !fire.After(now) {
		fire = fire.AddDate(0, 0, 1)
	}
	return fire
}

func (t *DailyTrigger) runOnce(now time.Time) {
	if now.Weekday() != t.weekday {
		t.logger.Infof("today is not %s, skipping %s", t.weekday, t.name)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			metrics.TriggerFailures.Inc()
			t.logger.Errorf("%s panicked: %v", t.name, r)
		}
	}()

	t.logger.Infof("starting %s", t.name)
	if err := t.job(context.Background()); err != nil {
		metrics.TriggerFailures.Inc()
		t.logger.Errorf("%s failed: %v", t.name, err)
	}
}
