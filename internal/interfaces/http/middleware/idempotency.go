package middleware

import (
	"net/http"
	"time"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader is the header clients send to make a create safe to retry
const IdempotencyKeyHeader = "Idempotency-Key"

// MaxIdempotencyKeyLength bounds the header value
const MaxIdempotencyKeyLength = 128

// DefaultIdempotencyTTL is how long an accepted key is remembered
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyConfig configures the Idempotency middleware
type IdempotencyConfig struct {
	Store  shared.IdempotencyStore
	TTL    time.Duration
	Logger *zap.Logger
}

// Idempotency rejects a replayed Idempotency-Key with 409 ALREADY_PROCESSED.
// Keys are scoped per user and route. A request that does not succeed releases
// its key so the client can retry it. Requests without the header pass through.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader(IdempotencyKeyHeader)
		if header == "" || cfg.Store == nil {
			c.Next()
			return
		}
		if len(header) > MaxIdempotencyKeyLength {
			abortWithError(c, dto.ErrCodeValidation, "Idempotency-Key must be at most 128 characters")
			return
		}

		key := "idem:" + c.Request.Method + ":" + c.FullPath() + ":" + header
		if claims := GetClaims(c); claims != nil {
			key = claims.UserID + ":" + key
		}

		ctx := c.Request.Context()
		fresh, err := cfg.Store.MarkProcessed(ctx, key, ttl)
		if err != nil {
			// without the store the request is simply not deduplicated
			log.Warn("Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !fresh {
			abortWithError(c, dto.ErrCodeAlreadyProcessed, "A request with this Idempotency-Key was already processed")
			return
		}

		c.Next()

		if status := c.Writer.Status(); status < http.StatusOK || status >= http.StatusMultipleChoices {
			if err := cfg.Store.Forget(ctx, key); err != nil {
				log.Warn("Failed to release idempotency key", zap.Error(err))
			}
		}
	}
}
