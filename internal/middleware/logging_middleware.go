package middleware

import (
	"time"

	"github.com/annel0/voxel-excavation/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Пути, которые опрашиваются автоматикой: логировать каждый probe бессмысленно.
var quietPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// RequestLogger возвращает middleware, которое снабжает каждый запрос
// trace-id и пишет одну строку по завершении: метод, путь, статус, задержка.
// Trace-id берётся из активного OpenTelemetry-спана (otelgin стоит раньше в
// цепочке), для запросов без трассировки генерируется UUID.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if _, quiet := quietPaths[path]; quiet {
			c.Next()
			return
		}

		traceID := uuid.NewString()
		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			traceID = span.SpanContext().TraceID().String()
		}
		c.Set("trace_id", traceID)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		line := logging.Info
		if status >= 500 {
			line = logging.Error
		} else if status >= 400 {
			line = logging.Warn
		}
		line("[HTTP] %s %s %d %s ip=%s trace=%s",
			c.Request.Method, path, status, time.Since(start), c.ClientIP(), traceID)
	}
}
