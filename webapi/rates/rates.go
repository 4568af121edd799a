// Package rates exposes the rate tables, preferences and feed refresh over HTTP.
package rates

import (
	"errors"

	"github.com/amirasaad/multicalc/pkg/currency"
	"github.com/amirasaad/multicalc/pkg/exchange"
	"github.com/amirasaad/multicalc/pkg/service/calc"
	"github.com/amirasaad/multicalc/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers HTTP routes for rate operations.
func Routes(app *fiber.App, svc *calc.Service) {
	group := app.Group("/api/rates")
	group.Get("/", GetRates(svc))
	group.Get("/matrix", GetMatrix(svc))
	group.Get("/display", GetDisplay(svc))
	group.Put("/manual", SetManualRate(svc))
	group.Put("/preference", SetPreference(svc))
	group.Post("/refresh", Refresh(svc))
}

func GetRates(svc *calc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := svc.RateState()
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Rates fetched", RatesResponse{
			Official:  st.OfficialRates,
			Manual:    st.ManualRates,
			Preferred: st.PreferredRateTypes,
			Active:    svc.ActiveRates(),
			LastFetch: st.LastCloudFetchDate,
		})
	}
}

func GetMatrix(svc *calc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Matrix fetched", svc.Matrix())
	}
}

// GetDisplay describes the pair given by the from and to query parameters.
func GetDisplay(svc *calc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, err := currency.Parse(c.Query("from"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid currency", err)
		}
		to, err := currency.Parse(c.Query("to"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid currency", err)
		}
		info, ok := svc.RateDisplay(from, to)
		if !ok {
			return common.ProblemDetailsJSON(c, "Rate unavailable",
				errors.New("no rate available for pair"), fiber.StatusNotFound)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Rate fetched",
			DisplayResponse{DisplayInfo: info, Text: info.Describe()})
	}
}

func SetManualRate(svc *calc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[ManualRateRequest](c)
		if input == nil {
			return err // error response already written
		}
		base, err := currency.Parse(input.Base)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid currency", err)
		}
		quote, err := currency.Parse(input.Quote)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid currency", err)
		}
		entry, err := svc.SetManualRate(c.UserContext(), base, quote, input.Value)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to save manual rate", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Manual rate saved", entry)
	}
}

func SetPreference(svc *calc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[PreferenceRequest](c)
		if input == nil {
			return err // error response already written
		}
		t, err := exchange.ParsePreference(input.Type)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid preference", err)
		}
		if err := svc.SetPreferredType(c.UserContext(), input.Pair, t); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to set preference", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Preference saved",
			fiber.Map{"pair": input.Pair, "type": t})
	}
}

// Refresh fetches the official rates once. Failures leave the stored rates untouched.
func Refresh(svc *calc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Refresh(c.UserContext())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to refresh rates", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Rates refreshed", res)
	}
}
