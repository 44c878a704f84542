// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-19
// Last Modified: 2026-10-19

// Package metrics records per-run counters and pushes them to a
// Prometheus Pushgateway. The process exits after one email, so there is
// nothing to scrape.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Recorder holds the collectors for one run on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	emailsProcessed *prometheus.CounterVec
	trackerRequests *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	lastSuccess     prometheus.Gauge
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		emailsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dryad_curator_emails_processed_total",
				Help: "Dryad emails processed, by message type and disposition",
			},
			[]string{"type", "disposition"}, // disposition: create, transition, ignore, error
		),
		trackerRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dryad_curator_tracker_requests_total",
				Help: "Jira API requests, by method and response status",
			},
			[]string{"method", "status"},
		),
		runDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dryad_curator_run_duration_seconds",
				Help:    "Wall time of one email processing run",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2m
			},
			[]string{"result"},
		),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dryad_curator_last_success_timestamp_seconds",
			Help: "Unix time of the last run that completed without error",
		}),
	}
}

// Registry exposes the registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveTrackerRequest counts one Jira response.
func (r *Recorder) ObserveTrackerRequest(method string, statusCode int) {
	r.trackerRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
}

// RecordEmail counts one processed email. messageType is empty when
// classification failed.
func (r *Recorder) RecordEmail(messageType, disposition string) {
	if messageType == "" {
		messageType = "unknown"
	}
	r.emailsProcessed.WithLabelValues(messageType, disposition).Inc()
}

// RecordRun records the run duration and, on success, the completion time.
func (r *Recorder) RecordRun(duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	} else {
		r.lastSuccess.SetToCurrentTime()
	}
	r.runDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// Push sends the registry to the Pushgateway under job, replacing the
// previous push for the same job.
func (r *Recorder) Push(url, job string) error {
	return push.New(url, job).Gatherer(r.registry).Push()
}
