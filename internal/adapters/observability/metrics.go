package observability

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rentmyhouse", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rentmyhouse", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	Transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rentmyhouse", Name: "reservation_transitions_total", Help: "Reservation lifecycle transitions."},
		[]string{"transition", "outcome"}, // outcome: ok|not_found|forbidden|invalid_state|error
	)
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rentmyhouse", Name: "notifications_total", Help: "Notification publishes and deliveries."},
		[]string{"stage", "outcome"}, // stage: publish|deliver
	)
	MailRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rentmyhouse", Name: "mail_api_requests_total", Help: "Outbound mail API requests."},
		[]string{"status"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rentmyhouse", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

func Serve() {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, Transitions, Notifications, MailRequests, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveTransition(transition, outcome string) {
	Transitions.WithLabelValues(transition, outcome).Inc()
}

func ObserveNotification(stage string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	Notifications.WithLabelValues(stage, outcome).Inc()
}

func ObserveMail(status int) {
	MailRequests.WithLabelValues(strconv.Itoa(status)).Inc()
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}
