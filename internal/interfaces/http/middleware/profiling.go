package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// ProfilingLabels tags CPU samples taken while serving a request with its route
// and branch, so flame graphs can be filtered per endpoint. Place it after Authenticate.
func ProfilingLabels(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}
		labels := []string{"http_route", route, "http_method", c.Request.Method}
		if claims := GetClaims(c); claims != nil {
			labels = append(labels, "branch_id", claims.BranchID)
		}
		pyroscope.TagWrapper(c.Request.Context(), pyroscope.Labels(labels...), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
