package host

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tableflip.dev/widgets/pkg/widget"
)

// Outcome labels for widgets_actions_total.
const (
	OutcomeChanged  = "changed"
	OutcomeRejected = "rejected"
	OutcomeNoop     = "noop"
	OutcomeError    = "error"
)

// Metrics holds the host collectors on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	actions  *prometheus.CounterVec
	requests *prometheus.CounterVec
	renders  *prometheus.HistogramVec
}

// NewMetrics registers the host collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		actions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "widgets_actions_total",
				Help: "Widget actions by outcome",
			},
			[]string{"widget", "action", "outcome"},
		),
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "widgets_http_requests_total",
				Help: "Host HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		renders: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "widgets_render_seconds",
				Help:    "Time to render widget markup",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1},
			},
			[]string{"widget"},
		),
	}
}

// TrackAction counts one dispatch.
func (m *Metrics) TrackAction(name string, a widget.Action, res widget.Result, err error) {
	outcome := OutcomeNoop
	switch {
	case err != nil:
		outcome = OutcomeError
	case res.Rejected:
		outcome = OutcomeRejected
	case res.Changed:
		outcome = OutcomeChanged
	}
	m.actions.WithLabelValues(name, a.Type, outcome).Inc()
}

// TrackRender times markup rendering.
func (m *Metrics) TrackRender(name string) *prometheus.Timer {
	return prometheus.NewTimer(m.renders.WithLabelValues(name))
}

// Middleware counts requests by matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, statusClass(c.Writer.Status())).Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
