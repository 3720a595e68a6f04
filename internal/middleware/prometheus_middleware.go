package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMiddleware собирает базовые HTTP-метрики Gin-сервера:
//
//   - <ns>_http_requests_total{method,path,code} — counter
//   - <ns>_http_request_duration_seconds{method,path} — histogram
//   - <ns>_http_requests_inflight — gauge
//
// Код ответа агрегируется до класса (2xx/3xx/4xx/5xx), чтобы кардинальность
// не росла с каждым новым статусом. Маршрут /metrics добавляется отдельно
// методом RegisterMetricsEndpoint.
type PrometheusMiddleware struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
}

// NewPrometheusMiddleware создаёт middleware и регистрирует метрики в
// дефолтном регистре. ns задаёт namespace метрик, например "excavation_api".
func NewPrometheusMiddleware(ns string) *PrometheusMiddleware {
	pm := &PrometheusMiddleware{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "Общее число HTTP-запросов по классам статусов.",
		}, []string{"method", "path", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "Длительность HTTP-запросов.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "path"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "http_requests_inflight",
			Help:      "Количество запросов в обработке.",
		}),
	}

	prometheus.MustRegister(pm.requests, pm.duration, pm.inflight)
	return pm
}

// Handler возвращает gin.HandlerFunc для router.Use().
func (pm *PrometheusMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		pm.inflight.Inc()
		c.Next()
		pm.inflight.Dec()

		path := c.FullPath()
		if path == "" {
			path = "unmatched" // не раздуваем лейблы произвольными URL
		}
		method := c.Request.Method

		pm.duration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		pm.requests.WithLabelValues(method, path, statusClass(c.Writer.Status())).Inc()
	}
}

// RegisterMetricsEndpoint добавляет GET /metrics в указанный router.
func (pm *PrometheusMiddleware) RegisterMetricsEndpoint(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}
