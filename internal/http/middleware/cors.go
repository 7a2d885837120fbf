package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows any origin to call the given methods.
func CORS(methods ...string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: strings.Join(append(methods, fiber.MethodOptions), ","),
		AllowHeaders: "Content-Type",
	})
}

// Preflight answers every OPTIONS request that reaches the router with an
// empty success response, including those without CORS request headers.
func Preflight() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}
