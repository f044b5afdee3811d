package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/larissaOjeda/thesis-canvas/internal/service"
)

// Metrics observes every request on the metrics service. The route
// template is preferred over the raw path so /kpis/:name style routes
// stay low-cardinality.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	if metricsSvc == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
