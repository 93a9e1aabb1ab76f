package observability

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"review_relay/internal/domain"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "review_relay", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "review_relay", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	OutboundRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "review_relay", Name: "outbound_requests_total", Help: "Transport API calls."},
		[]string{"method", "result"},
	)
	OutboundLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "review_relay", Name: "outbound_request_duration_seconds",
			Help:    "Transport API call duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "review_relay", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
	InboundEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "review_relay", Name: "inbound_events_total", Help: "Chat events handled."},
		[]string{"kind"},
	)
	ReviewsFinalized = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "review_relay", Name: "reviews_finalized_total", Help: "Finished reviews by delivery outcome."},
		[]string{"outcome"}, // outcome: delivered|partial|unmoderated|empty
	)
	SessionsOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "review_relay", Name: "sessions_open", Help: "Review sessions currently open."},
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, OutboundRequests, OutboundLatency,
		CacheEvents, InboundEvents, ReviewsFinalized, SessionsOpen)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveOutbound(method string, err error, dur time.Duration) {
	OutboundRequests.WithLabelValues(method, LabelErr(err)).Inc()
	OutboundLatency.WithLabelValues(method).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveEvent(ev domain.Event) {
	InboundEvents.WithLabelValues(EventKind(ev)).Inc()
}

func ObserveFinalized(outcome string) {
	ReviewsFinalized.WithLabelValues(outcome).Inc()
}

func SetOpenSessions(n int) {
	SessionsOpen.Set(float64(n))
}

// EventKind names an inbound event variant for labels and logs.
func EventKind(ev domain.Event) string {
	switch e := ev.(type) {
	case domain.StartCommand:
		return "start"
	case domain.ButtonPressed:
		return "button:" + e.Action
	case domain.TextReceived:
		return "text"
	case domain.PhotoReceived:
		return "photo"
	default:
		return "unknown"
	}
}

func LabelErr(err error) string {
	if err == nil {
		return "none"
	}
	if errors.Is(err, domain.ErrSend) {
		return "send"
	}
	return fmt.Sprintf("%T", err)
}
