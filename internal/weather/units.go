package weather

import "github.com/shopspring/decimal"

const kelvinOffset = 273.15

// KelvinToCelsius converts k degrees Kelvin to Celsius.
func KelvinToCelsius(k float64) float64 {
	return k - kelvinOffset
}

// Round2 rounds x half away from zero to two fraction digits, working on the
// shortest decimal form of x so 0.125 becomes 0.13 and 2.675 becomes 2.68.
func Round2(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}

// CelsiusRounded converts Kelvin to Celsius rounded to two decimals.
func CelsiusRounded(k float64) float64 {
	return Round2(KelvinToCelsius(k))
}
