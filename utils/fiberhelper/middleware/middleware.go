package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"marmot/errors"
	"marmot/utils/auth"
)

// TokenValidationMiddleware guards mutating endpoints with an HS256 bearer token.
// An empty secret disables the routes entirely rather than leaving them open.
func TokenValidationMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if secret == "" {
			return errors.NewUnauthorized("mutating endpoints are disabled: no API token secret configured")
		}

		header := ctx.Get(fiber.HeaderAuthorization)
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			return errors.NewUnauthorized("missing bearer token")
		}

		if _, err := auth.VerifyToken(secret, tokenString); err != nil {
			return errors.NewUnauthorized("invalid bearer token")
		}
		return ctx.Next()
	}
}

func LogMiddleware(skipPath ...string) fiber.Handler {
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "${time} | ${status} | ${latency} | ${method} | ${path} | Query: ${queryParams}\n",
		Next: func(c *fiber.Ctx) bool {
			for _, p := range skipPath {
				if c.Path() == p {
					return true
				}
			}
			return false
		},
	})
}
