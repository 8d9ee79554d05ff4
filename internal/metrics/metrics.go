// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "orti"

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	AssociationsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "associations_deleted_total",
		Help:      "Associations removed by the deletion workflow.",
	})

	MembersDowngraded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "association_members_downgraded_total",
		Help:      "Users turned into citizens because their association was deleted.",
	})

	AssignmentsRemoved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignments_removed_total",
		Help:      "Garden and plot assignments removed by cascades.",
	}, []string{"type"})

	PlotAssignmentTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plot_assignment_transitions_total",
		Help:      "Plot-assignment state changes by resulting status.",
	}, []string{"status"})

	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Cache lookups by result.",
	}, []string{"result"})

	FeedSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sensor_feed_subscribers",
		Help:      "Open websocket subscriptions to sensor feeds.",
	})
)

// Register adds every collector to reg. Registering twice returns the
// AlreadyRegisteredError from the second call.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		HTTPRequests,
		HTTPDuration,
		AssociationsDeleted,
		MembersDowngraded,
		AssignmentsRemoved,
		PlotAssignmentTransitions,
		CacheLookups,
		FeedSubscribers,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}

	return nil
}
