// Package settings exposes the user preferences over HTTP.
package settings

import (
	"github.com/amirasaad/multicalc/pkg/currency"
	"github.com/amirasaad/multicalc/pkg/service/calc"
	appsettings "github.com/amirasaad/multicalc/pkg/settings"
	"github.com/amirasaad/multicalc/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// UpdateSettingsRequest replaces the settings. Omitted flags are false.
type UpdateSettingsRequest struct {
	DarkMode              bool `json:"darkMode"`
	COPMultiplyByThousand bool `json:"copMultiplyByThousand"`
}

// InputCurrencyRequest changes the active input currency.
type InputCurrencyRequest struct {
	Currency string `json:"currency" validate:"required,len=3"`
}

// SettingsResponse is the settings plus the active input currency.
type SettingsResponse struct {
	appsettings.AppSettings
	InputCurrency currency.Code `json:"inputCurrency"`
}

func Routes(app *fiber.App, svc *calc.Service) {
	group := app.Group("/api/settings")
	group.Get("/", GetSettings(svc))
	group.Put("/", UpdateSettings(svc))
	group.Put("/currency", SetInputCurrency(svc))
}

func GetSettings(svc *calc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Settings fetched", SettingsResponse{
			AppSettings:   svc.Settings(),
			InputCurrency: svc.InputCurrency(),
		})
	}
}

func UpdateSettings(svc *calc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[UpdateSettingsRequest](c)
		if input == nil {
			return err // error response already written
		}
		next := svc.UpdateSettings(c.UserContext(), appsettings.AppSettings{
			DarkMode:              input.DarkMode,
			COPMultiplyByThousand: input.COPMultiplyByThousand,
		})
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Settings saved", SettingsResponse{
			AppSettings:   next,
			InputCurrency: svc.InputCurrency(),
		})
	}
}

func SetInputCurrency(svc *calc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[InputCurrencyRequest](c)
		if input == nil {
			return err // error response already written
		}
		code, err := currency.Parse(input.Currency)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid currency", err)
		}
		if err := svc.SetInputCurrency(c.UserContext(), code); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to set input currency", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Input currency saved",
			fiber.Map{"inputCurrency": code})
	}
}
