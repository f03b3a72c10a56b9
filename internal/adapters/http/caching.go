package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on successful GET responses based on endpoint.
// Handlers that set their own header win.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet || c.Response().StatusCode() != fiber.StatusOK {
			return err
		}
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10"

		case path == "/metrics":
			ttl = "no-cache"

		case path == "/v1/hazards/nearby":
			ttl = "public, max-age=300"

		case strings.HasPrefix(path, "/v1/hazards"):
			ttl = "public, max-age=3600" // catalog only changes on redeploy

		case strings.HasPrefix(path, "/v1/trips"):
			ttl = "private, max-age=60"

		case strings.HasPrefix(path, "/docs"):
			ttl = "public, max-age=86400"

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=300"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}
