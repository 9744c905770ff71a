package middleware

import (
	"time"

	"github.com/bilgisen/cryptonews/internal/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestIDKey is the context key and response header carrying the request id.
const RequestIDKey = "X-Request-ID"

// RequestLogger tags each request with a uuid and logs it with latency and
// status once the handler chain completes.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDKey)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals(RequestIDKey, requestID)
		c.Set(RequestIDKey, requestID)

		start := time.Now()
		err := c.Next()

		event := logger.Get().Info().
			Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Str("ip", c.IP()).
			Dur("latency", time.Since(start))
		if err != nil {
			event = event.Err(err)
		}
		event.Msg("request")

		return err
	}
}
