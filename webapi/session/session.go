// Package session exposes keypad sessions and one-shot conversions over HTTP.
package session

import (
	"github.com/amirasaad/multicalc/pkg/calculator"
	"github.com/amirasaad/multicalc/pkg/currency"
	"github.com/amirasaad/multicalc/pkg/service/calc"
	"github.com/amirasaad/multicalc/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes registers the session and convert endpoints.
func Routes(app *fiber.App, svc *calc.Service) {
	group := app.Group("/api/sessions")
	group.Post("/", CreateSession(svc))
	group.Get("/:id", GetSession(svc))
	group.Post("/:id/keys", PressKeys(svc))
	group.Delete("/:id", CloseSession(svc))

	app.Post("/api/convert", Convert(svc))
}

// CreateSession starts a keypad session with buffer "0".
func CreateSession(svc *calc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Session created", svc.NewSession())
	}
}

func GetSession(svc *calc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid session id", err, fiber.StatusBadRequest)
		}
		view, err := svc.Session(id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Session not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Session fetched", view)
	}
}

// PressKeys applies the keys in order. Keys are validated before any is applied.
func PressKeys(svc *calc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid session id", err, fiber.StatusBadRequest)
		}
		input, err := common.BindAndValidate[PressKeysRequest](c)
		if input == nil {
			return err // error response already written
		}
		keys, err := calculator.ParseKeys(input.Keys)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid key", err)
		}
		res, err := svc.Press(c.UserContext(), id, keys...)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to press keys", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Keys applied", res)
	}
}

func CloseSession(svc *calc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid session id", err, fiber.StatusBadRequest)
		}
		if err := svc.CloseSession(id); err != nil {
			return common.ProblemDetailsJSON(c, "Session not found", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Convert evaluates a display-notation expression and converts the result.
func Convert(svc *calc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[ConvertRequest](c)
		if input == nil {
			return err // error response already written
		}
		var from currency.Code
		if input.Currency != "" {
			if from, err = currency.Parse(input.Currency); err != nil {
				return common.ProblemDetailsJSON(c, "Invalid currency", err)
			}
		}
		res, err := svc.Convert(input.Expression, from)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to evaluate expression", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Expression converted", res)
	}
}
