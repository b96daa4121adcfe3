package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-monitor/internal/alert"
	"github.com/i474232898/weather-monitor/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, alerts *alert.Registry) {
	api := app.Group("/api/weather")

	api.Get("/fetch/:city", func(c *fiber.Ctx) error {
		city := c.Params("city")
		reading, err := service.FetchCurrent(c.UserContext(), city)
		if err != nil {
			return toFiberError(err, "error fetching weather data")
		}
		return c.JSON(fiber.Map{
			"message":     "Weather data fetched and stored successfully for " + city,
			"weatherData": reading,
		})
	})

	api.Get("/current/:city", func(c *fiber.Ctx) error {
		city := c.Params("city")
		reading, err := service.FetchCurrentRaw(c.UserContext(), city)
		if err != nil {
			return toFiberError(err, "error fetching current weather")
		}
		return c.JSON(fiber.Map{
			"message": "Weather data fetched successfully for " + city,
			"data":    reading,
		})
	})

	api.Get("/forecast/:city", func(c *fiber.Ctx) error {
		city := c.Params("city")
		forecast, err := service.FetchForecast(c.UserContext(), city)
		if err != nil {
			return toFiberError(err, "error fetching weather forecast")
		}
		return c.JSON(fiber.Map{
			"message": "Weather forecast fetched successfully for " + city,
			"data":    forecast,
		})
	})

	api.Get("/history/:city", func(c *fiber.Ctx) error {
		var q dayQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		history, err := service.History(c.UserContext(), q.City, q.day)
		if err != nil {
			return toFiberError(err, "failed to fetch weather history")
		}
		if history == nil {
			history = []weather.Reading{}
		}
		return c.JSON(history)
	})

	api.Get("/summary/:city", func(c *fiber.Ctx) error {
		var q dayQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		summary, err := service.Summary(c.UserContext(), q.City, q.day)
		if err != nil {
			return toFiberError(err, "failed to summarize weather history")
		}
		return c.JSON(summary)
	})

	api.Post("/threshold", func(c *fiber.Ctx) error {
		var t alert.Threshold
		if err := c.BodyParser(&t); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(t); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		alerts.Add(t)
		return c.SendString("Weather threshold set successfully!")
	})

	api.Get("/thresholds", func(c *fiber.Ctx) error {
		return c.JSON(alerts.Thresholds())
	})

	api.Post("/check", func(c *fiber.Ctx) error {
		var r weather.Reading
		if err := c.BodyParser(&r); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(r); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.SendString(alerts.Evaluate(c.UserContext(), r))
	})

	api.Post("/simulate/:city", func(c *fiber.Ctx) error {
		reading, err := service.SimulateCurrent(c.UserContext(), c.Params("city"))
		if err != nil {
			return toFiberError(err, "error simulating weather data")
		}
		return c.JSON(reading)
	})

	api.Get("/trends/:city", func(c *fiber.Ctx) error {
		trends, err := service.Trends(c.UserContext(), c.Params("city"))
		if err != nil {
			return toFiberError(err, "error generating trends")
		}
		return c.SendString(trends)
	})
}

// dayQuery holds the path and query parameters of the history and summary endpoints.
type dayQuery struct {
	City string `validate:"required"`
	Date string `validate:"required,datetime=2006-01-02"`

	day time.Time
}

func (q *dayQuery) bind(c *fiber.Ctx) error {
	q.City = c.Params("city")
	q.Date = c.Query("date")
	if err := validate.Struct(q); err != nil {
		return err
	}

	day, err := time.Parse("2006-01-02", q.Date)
	if err != nil {
		return err
	}
	q.day = day
	return nil
}

// toFiberError maps domain errors onto HTTP statuses.
func toFiberError(err error, msg string) error {
	var pe *weather.ProviderError
	switch {
	case weather.IsRateLimited(err):
		return fiber.NewError(fiber.StatusTooManyRequests, msg+": "+err.Error())
	case errors.As(err, &pe), errors.Is(err, weather.ErrDecode):
		return fiber.NewError(fiber.StatusBadGateway, msg+": "+err.Error())
	case errors.Is(err, weather.ErrEmptyInput):
		return fiber.NewError(fiber.StatusNotFound, "no weather data for requested day")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, msg)
	}
}
