package middleware

import (
	"strconv"
	"time"

	vgmetrics "vegaaccounts/backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics é um middleware Gin para coletar métricas Prometheus para requisições HTTP.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		method := c.Request.Method

		// Usar c.FullPath() para obter o template da rota, melhor para cardinalidade de labels.
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		latency := time.Since(start)

		vgmetrics.HTTPRequestCounter.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		vgmetrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(latency.Seconds())
	}
}
