// Package metrics holds the prometheus collectors of the classification
// engine. They register with the default registry so an embedding service
// can expose them on its own /metrics endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup results
const (
	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultPartial = "partial"
)

// Command outcomes
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeTimeout = "timeout"
)

var (
	// CacheLookups counts classifier cache lookups by result
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astutus_cache_lookups_total",
		Help: "Classification record cache lookups by result",
	}, []string{"result"})

	// CommandInvocations counts external tool runs by tool and outcome
	CommandInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astutus_command_invocations_total",
		Help: "External introspection command runs by tool and outcome",
	}, []string{"tool", "outcome"})

	// CommandDuration tracks external tool latency
	CommandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "astutus_command_duration_seconds",
		Help:    "External introspection command duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
	}, []string{"tool"})

	// Augmentations counts computed augmentation fields
	Augmentations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astutus_augmentations_total",
		Help: "Augmentation procedures run by field",
	}, []string{"field"})

	// AliasResolutions counts alias lookups by whether an alias matched
	AliasResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astutus_alias_resolutions_total",
		Help: "Alias resolutions by outcome",
	}, []string{"matched"})
)

// ObserveCommand records one tool run
func ObserveCommand(tool, outcome string, elapsed time.Duration) {
	CommandInvocations.WithLabelValues(tool, outcome).Inc()
	CommandDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// CommandCount returns the counter of tool runs with the given outcome
func CommandCount(tool, outcome string) prometheus.Counter {
	return CommandInvocations.WithLabelValues(tool, outcome)
}
