package middleware

import (
	"github.com/gin-gonic/gin"
)

// Idempotency extracts the Idempotency-Key header so handlers can replay a
// stored response instead of re-running the booking.
func Idempotency() gin.HandlerFunc {
	return func(c *gin.Context) {
		idempotencyKey := c.GetHeader("Idempotency-Key")
		c.Set("idempotency_key", idempotencyKey)
		c.Next()
	}
}
