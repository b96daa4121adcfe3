package weather

import (
	"time"
)

// Reading is a single weather observation for a city.
// Temperatures are degrees Celsius.
type Reading struct {
	ID          int64     `json:"id"`
	City        string    `json:"city" validate:"required"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feelsLike"`
	Condition   string    `json:"weatherCondition"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"`
	Timestamp   time.Time `json:"timestamp"` // always UTC
}

// Summary is derived from a set of readings and never stored.
type Summary struct {
	AverageTemperature float64 `json:"averageTemperature"`
	MaxTemperature     float64 `json:"maxTemperature"`
	MinTemperature     float64 `json:"minTemperature"`
	DominantCondition  string  `json:"dominantWeatherCondition"`
	AverageHumidity    float64 `json:"averageHumidity"`
	AverageWindSpeed   float64 `json:"averageWindSpeed"`
}
