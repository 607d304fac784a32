// Package requestid assigns a unique id to every incoming request.
//
// The id is stored in the Fiber context locals under "request_id" and echoed
// back in the X-Request-ID response header, so log lines and upstream
// notifier retries can be correlated.
package requestid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// New returns a middleware that attaches a request id to the context.
// An id supplied by the caller in X-Request-ID is preserved.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("request_id", rid)
		c.Set("X-Request-ID", rid)
		return c.Next()
	}
}
