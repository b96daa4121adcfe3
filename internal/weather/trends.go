package weather

import (
	"strconv"
	"strings"
)

// TrendWindowDays is how far back Trends looks.
const TrendWindowDays = 7

// RenderTrends formats history (expected oldest first) as a tab separated report.
func RenderTrends(city string, history []Reading) string {
	var b strings.Builder
	b.WriteString("Weather trends for " + city + ":\n")
	b.WriteString("Date\tTemperature\tCondition\n")
	for _, r := range history {
		b.WriteString(r.Timestamp.Format("2006-01-02"))
		b.WriteByte('\t')
		b.WriteString(formatTemperature(r.Temperature))
		b.WriteString("°C\t")
		b.WriteString(r.Condition)
		b.WriteByte('\n')
	}
	return b.String()
}

// formatTemperature prints the shortest form of t, keeping at least one
// fraction digit (31 -> "31.0").
func formatTemperature(t float64) string {
	s := strconv.FormatFloat(t, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
