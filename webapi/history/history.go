// Package history exposes the evaluation history over HTTP.
package history

import (
	"github.com/amirasaad/multicalc/pkg/service/calc"
	"github.com/amirasaad/multicalc/webapi/common"
	"github.com/gofiber/fiber/v2"
)

func Routes(app *fiber.App, svc *calc.Service) {
	group := app.Group("/api/history")
	group.Get("/", ListHistory(svc))
	group.Delete("/", ClearHistory(svc))
}

// ListHistory returns the entries newest first.
func ListHistory(svc *calc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusOK, "History fetched", svc.History())
	}
}

func ClearHistory(svc *calc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		svc.ClearHistory(c.UserContext())
		return c.SendStatus(fiber.StatusNoContent)
	}
}
