package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MorningChecks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hillkeeper",
		Name:      "morning_checks_total",
		Help:      "Number of morning attendance prompts posted.",
	})

	EveningReminders = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hillkeeper",
		Name:      "evening_reminders_total",
		Help:      "Number of completed evening reminder runs.",
	})

	ReactionsHandled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hillkeeper",
		Name:      "reactions_handled_total",
		Help:      "Number of attendance reactions recorded.",
	})

	TriggerFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hillkeeper",
		Name:      "trigger_failures_total",
		Help:      "Number of scheduled trigger runs that failed.",
	})
)
