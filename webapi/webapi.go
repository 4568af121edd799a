// Package webapi provides the HTTP API of the calculator. It is organized into
// sub-packages per resource:
// - session: keypad sessions and one-shot conversions
// - rates: rate tables, preferences and feed refresh
// - settings: user preferences and the input currency
// - history: evaluation history
package webapi

import (
	"errors"
	"strings"

	"github.com/amirasaad/multicalc/pkg/app"
	"github.com/amirasaad/multicalc/pkg/config"
	"github.com/amirasaad/multicalc/pkg/currency"
	"github.com/amirasaad/multicalc/webapi/common"
	historyweb "github.com/amirasaad/multicalc/webapi/history"
	ratesweb "github.com/amirasaad/multicalc/webapi/rates"
	sessionweb "github.com/amirasaad/multicalc/webapi/session"
	settingsweb "github.com/amirasaad/multicalc/webapi/settings"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(app *app.App) *fiber.App {
	svc := app.CalcService
	cfg := app.Config

	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	rl := config.RateLimit{MaxRequests: 100}
	if cfg != nil && cfg.RateLimit != nil {
		rl = *cfg.RateLimit
	}

	// Behind a proxy the first X-Forwarded-For hop identifies the client.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        rl.MaxRequests,
		Expiration: rl.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Calculator API is running! 🧮")
	})

	fiberApp.Get("/api/currencies", func(c *fiber.Ctx) error {
		list := make([]fiber.Map, 0, len(currency.All()))
		for _, code := range currency.All() {
			meta := code.Meta()
			list = append(list, fiber.Map{
				"code":   code,
				"symbol": meta.Symbol,
				"label":  meta.Label,
				"rank":   meta.Rank,
			})
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Currencies fetched", list)
	})

	sessionweb.Routes(fiberApp, svc)
	ratesweb.Routes(fiberApp, svc)
	settingsweb.Routes(fiberApp, svc)
	historyweb.Routes(fiberApp, svc)
	return fiberApp
}
