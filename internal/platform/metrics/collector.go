// Package metrics exposes Prometheus counters for provider traffic and the
// matchup lookups built on it.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fantasy_matchup"

// Collector is safe to use as a nil pointer; every method is then a no-op.
type Collector struct {
	providerCalls   *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	tokenExchanges  *prometheus.CounterVec
	matchupLookups  *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Yahoo Fantasy API requests by resource and status class.",
		}, []string{"resource", "status"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Yahoo Fantasy API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource"}),
		tokenExchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_exchanges_total",
			Help:      "OAuth authorization-code exchanges by outcome.",
		}, []string{"outcome"}),
		matchupLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matchup_lookups_total",
			Help:      "Next-matchup resolutions by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(c.providerCalls, c.providerLatency, c.tokenExchanges, c.matchupLookups)

	return c
}

// ObserveProviderCall records one upstream call. status 0 means the request
// never produced a response.
func (c *Collector) ObserveProviderCall(resource string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.providerCalls.WithLabelValues(resource, statusClass(status)).Inc()
	c.providerLatency.WithLabelValues(resource).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveTokenExchange(outcome string) {
	if c == nil {
		return
	}
	c.tokenExchanges.WithLabelValues(outcome).Inc()
}

func (c *Collector) ObserveMatchupLookup(result string) {
	if c == nil {
		return
	}
	c.matchupLookups.WithLabelValues(result).Inc()
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func statusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
