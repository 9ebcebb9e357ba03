package middleware

import (
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// SwaggerGate hides the API documentation when it is disabled
func SwaggerGate(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			abortWithError(c, shared.CodeNotFound, "API documentation is not available")
			return
		}
		c.Next()
	}
}
