package http

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	applog "cozypocket/internal/log"
)

// appMetrics counts application level events for /metrics.
type appMetrics struct {
	startedAt         time.Time
	created           int64
	updated           int64
	deleted           int64
	validationErrors  int64
	assistantRequests int64
	assistantHits     int64
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    s.now().Sub(s.metrics.startedAt).Round(time.Second).String(),
	})
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if err := s.ready(ctx); err != nil {
		s.logger.WarnContext(r.Context(), "Storage readiness check failed", applog.FieldError, err)
		checks["storage"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["storage"] = "ok"
	}

	checks["ledger"] = map[string]any{
		"transactions": s.ledger.Store().Len(),
		"version":      s.ledger.Store().Version(),
	}
	if s.assistant.Enabled() {
		checks["assistant"] = "enabled"
	} else {
		checks["assistant"] = "disabled"
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	securityMetrics := s.detector.GetMetrics()
	rateLimitMetrics := s.limiter.GetMetrics()
	traceMetrics := s.tracer.GetMetrics()
	uptime := s.now().Sub(s.metrics.startedAt)

	w.WriteHeader(http.StatusOK)

	counter := func(name, help string, value int64) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s counter\n", name)
		fmt.Fprintf(w, "%s %d\n\n", name, value)
	}
	gauge := func(name, help string, value int64) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s gauge\n", name)
		fmt.Fprintf(w, "%s %d\n\n", name, value)
	}

	counter("http_requests_total", "Total number of HTTP requests", traceMetrics.TotalRequests)
	counter("http_server_errors_total", "Responses with a 5xx status", traceMetrics.ServerErrors)
	gauge("http_response_time_avg_microseconds", "Average response time", traceMetrics.AverageResponseTime)

	fmt.Fprintf(w, "# HELP ledger_mutations_total Applied ledger mutations\n")
	fmt.Fprintf(w, "# TYPE ledger_mutations_total counter\n")
	fmt.Fprintf(w, "ledger_mutations_total{op=\"create\"} %d\n", atomic.LoadInt64(&s.metrics.created))
	fmt.Fprintf(w, "ledger_mutations_total{op=\"update\"} %d\n", atomic.LoadInt64(&s.metrics.updated))
	fmt.Fprintf(w, "ledger_mutations_total{op=\"delete\"} %d\n\n", atomic.LoadInt64(&s.metrics.deleted))

	gauge("ledger_transactions", "Transactions currently stored", int64(s.ledger.Store().Len()))
	counter("validation_errors_total", "Rejected form submissions", atomic.LoadInt64(&s.metrics.validationErrors))
	counter("assistant_requests_total", "Parsing assistant requests", atomic.LoadInt64(&s.metrics.assistantRequests))
	counter("assistant_suggestions_total", "Assistant requests that produced a suggestion", atomic.LoadInt64(&s.metrics.assistantHits))

	if c := s.assistant.Cache(); c != nil {
		hits, misses := c.Stats()
		gauge("assistant_cache_entries", "Cached assistant answers", int64(c.Size()))
		counter("assistant_cache_hits_total", "Assistant cache hits", int64(hits))
		counter("assistant_cache_misses_total", "Assistant cache misses", int64(misses))
	}

	counter("rate_limit_rejected_total", "Requests rejected by the rate limiter", rateLimitMetrics.Rejected)
	gauge("active_rate_limit_clients", "Currently tracked rate limit clients", int64(rateLimitMetrics.ClientCount))
	counter("suspicious_requests_total", "Total suspicious requests detected", securityMetrics.SuspiciousRequests)
	counter("invalid_ip_attempts_total", "Forwarded addresses that failed to parse", securityMetrics.InvalidIPAttempts)
	counter("panics_recovered_total", "Handler panics turned into 500s", s.recovery.Panics())

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n\n", uptime.Seconds())
}
