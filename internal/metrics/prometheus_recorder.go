package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	pomodoros   prom.Counter
	blocked     prom.Counter
	navigations *prom.CounterVec
	injections  *prom.CounterVec
	transitions *prom.CounterVec
	running     prom.Gauge
	pages       prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		pomodoros: prom.NewCounter(prom.CounterOpts{
			Namespace: "focusguard",
			Name:      "pomodoros_completed_total",
			Help:      "Focus sessions that ran to completion",
		}),
		blocked: prom.NewCounter(prom.CounterOpts{
			Namespace: "focusguard",
			Name:      "blocked_attempts_total",
			Help:      "Navigations redirected to the blocked page",
		}),
		navigations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "focusguard",
			Name:      "navigations_total",
			Help:      "Navigation checks by result",
		}, []string{"result"}),
		injections: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "focusguard",
			Name:      "greyscale_injections_total",
			Help:      "Greyscale commands by per-page result",
		}, []string{"result"}),
		transitions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "focusguard",
			Name:      "timer_transitions_total",
			Help:      "Timer phase transitions",
		}, []string{"from", "to"}),
		running: prom.NewGauge(prom.GaugeOpts{
			Namespace: "focusguard",
			Name:      "timer_running",
			Help:      "1 while a countdown is active",
		}),
		pages: prom.NewGauge(prom.GaugeOpts{
			Namespace: "focusguard",
			Name:      "connected_pages",
			Help:      "Content scripts currently connected",
		}),
	}
	reg.MustRegister(pr.pomodoros, pr.blocked, pr.navigations, pr.injections, pr.transitions, pr.running, pr.pages)
	return pr
}

func (p *PrometheusRecorder) IncPomodoroCompleted() {
	if p == nil || p.pomodoros == nil {
		return
	}
	p.pomodoros.Inc()
}

func (p *PrometheusRecorder) IncBlockedAttempt() {
	if p == nil || p.blocked == nil {
		return
	}
	p.blocked.Inc()
}

func (p *PrometheusRecorder) IncNavigation(result string) {
	if p == nil || p.navigations == nil {
		return
	}
	p.navigations.WithLabelValues(result).Inc()
}

func (p *PrometheusRecorder) IncInjection(result string) {
	if p == nil || p.injections == nil {
		return
	}
	p.injections.WithLabelValues(result).Inc()
}

func (p *PrometheusRecorder) IncTransition(from, to string) {
	if p == nil || p.transitions == nil {
		return
	}
	p.transitions.WithLabelValues(from, to).Inc()
}

func (p *PrometheusRecorder) SetTimerRunning(running bool) {
	if p == nil || p.running == nil {
		return
	}
	if running {
		p.running.Set(1)
		return
	}
	p.running.Set(0)
}

func (p *PrometheusRecorder) SetConnectedPages(n int) {
	if p == nil || p.pages == nil {
		return
	}
	p.pages.Set(float64(n))
}

// HTTPHandler returns an http.Handler that serves Prometheus metrics for the provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
