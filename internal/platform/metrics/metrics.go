// Package metrics provides observability for the simulator server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ticksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aquasim_ticks_total",
		Help: "Total simulation ticks applied.",
	})

	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "aquasim_tick_duration_seconds",
		Help:    "Wall time spent inside one Advance call.",
		Buckets: prometheus.DefBuckets,
	})

	alertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aquasim_alerts_total",
		Help: "Newly-raised alerts by kind.",
	}, []string{"kind"})

	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aquasim_commands_total",
		Help: "Accepted manager commands by operation.",
	}, []string{"op"})

	commandErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aquasim_command_errors_total",
		Help: "Rejected manager commands by operation.",
	}, []string{"op"})

	eventWritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aquasim_event_writes_total",
		Help: "Events written to the persistence ledger.",
	})

	eventWriteErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aquasim_event_write_errors_total",
		Help: "Failed event ledger writes.",
	})

	wsConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aquasim_ws_connections",
		Help: "Active WebSocket clients.",
	})

	wsMessagesOut = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aquasim_ws_messages_out_total",
		Help: "Messages broadcast to WebSocket clients.",
	})
)

// RecordTick records one completed Advance cycle.
func RecordTick(latency time.Duration) {
	ticksTotal.Inc()
	tickDuration.Observe(latency.Seconds())
}

// RecordAlert records one newly-raised alert.
func RecordAlert(kind string) {
	alertsTotal.WithLabelValues(kind).Inc()
}

// RecordCommand records the outcome of a manager command.
func RecordCommand(op string, err error) {
	if err != nil {
		commandErrorsTotal.WithLabelValues(op).Inc()
		return
	}
	commandsTotal.WithLabelValues(op).Inc()
}

// RecordEventWrite records one ledger write attempt.
func RecordEventWrite(err error) {
	eventWritesTotal.Inc()
	if err != nil {
		eventWriteErrorsTotal.Inc()
	}
}

// RecordWSConnection tracks connect (+1) / disconnect (-1).
func RecordWSConnection(delta float64) {
	wsConnections.Add(delta)
}

// RecordWSMessage records one outgoing broadcast message.
func RecordWSMessage() {
	wsMessagesOut.Inc()
}

// Handler returns the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
