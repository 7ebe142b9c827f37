package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/i474232898/weather-journal/internal/store"
	"github.com/i474232898/weather-journal/internal/weather"
)

const msgNotFound = "Not found"

// errorHandler renders every error as {"error": "<message>"}.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := err.Error()

		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message
		case errors.Is(err, store.ErrNotFound):
			code = fiber.StatusNotFound
			message = msgNotFound
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}

// badRequest turns a lookup or record failure into a 400, except a missing
// record which stays a 404.
func badRequest(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, msgNotFound)
	}
	return fiber.NewError(fiber.StatusBadRequest, userMessage(err))
}

// userMessage is the text shown to the user for a failed lookup or save.
func userMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return msgNotFound
	case errors.Is(err, weather.ErrPlaceNotFound):
		return "No matching place found."
	case errors.Is(err, weather.ErrNoData):
		return "No data for that date range."
	case errors.Is(err, weather.ErrNotConfigured):
		return "Weather lookups are not configured (missing OpenWeather API key)."
	default:
		return err.Error()
	}
}
