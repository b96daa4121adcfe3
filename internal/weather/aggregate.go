package weather

// Summarize reduces readings into a daily Summary. Numeric fields are averaged
// (max/min for temperature); the dominant condition is the most frequent one,
// ties going to whichever condition appeared first.
//
// An empty input yields ErrEmptyInput rather than a zero Summary, since there is
// no meaningful dominant condition to report.
func Summarize(readings []Reading) (Summary, error) {
	if len(readings) == 0 {
		return Summary{}, ErrEmptyInput
	}

	var (
		sumTemp     float64
		sumHumidity float64
		sumWind     float64
		maxTemp     = readings[0].Temperature
		minTemp     = readings[0].Temperature
	)

	conditionCounts := make(map[string]int)
	var order []string

	for _, r := range readings {
		sumTemp += r.Temperature
		sumHumidity += r.Humidity
		sumWind += r.WindSpeed

		if r.Temperature > maxTemp {
			maxTemp = r.Temperature
		}
		if r.Temperature < minTemp {
			minTemp = r.Temperature
		}

		if _, seen := conditionCounts[r.Condition]; !seen {
			order = append(order, r.Condition)
		}
		conditionCounts[r.Condition]++
	}

	n := float64(len(readings))

	// Pick majority condition in first-seen order so ties are deterministic.
	bestCond := order[0]
	bestCount := 0
	for _, cond := range order {
		if count := conditionCounts[cond]; count > bestCount {
			bestCount = count
			bestCond = cond
		}
	}

	return Summary{
		AverageTemperature: sumTemp / n,
		MaxTemperature:     maxTemp,
		MinTemperature:     minTemp,
		DominantCondition:  bestCond,
		AverageHumidity:    sumHumidity / n,
		AverageWindSpeed:   sumWind / n,
	}, nil
}
