package analytics

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptySeries is returned when a summary is requested for zero observations.
var ErrEmptySeries = errors.New("analytics: empty series")

// stableBand is the absolute change, in percent, still reported as stable.
const stableBand = 1.0

// Metric names used in period comparisons.
const (
	MetricHeartRate     = "heartRate"
	MetricSteps         = "steps"
	MetricSleep         = "sleep"
	MetricActiveMinutes = "activeMinutes"
)

type columns struct {
	heartRate, restingHeartRate, steps, sleep, activeMinutes, calories []float64
}

func extract(series []DailyObservation) columns {
	n := len(series)
	c := columns{
		heartRate:        make([]float64, n),
		restingHeartRate: make([]float64, n),
		steps:            make([]float64, n),
		sleep:            make([]float64, n),
		activeMinutes:    make([]float64, n),
		calories:         make([]float64, n),
	}
	for i, o := range series {
		c.heartRate[i] = float64(o.HeartRate)
		c.restingHeartRate[i] = float64(o.RestingHeartRate)
		c.steps[i] = float64(o.Steps)
		c.sleep[i] = o.Sleep
		c.activeMinutes[i] = float64(o.ActiveMinutes)
		c.calories[i] = float64(o.Calories)
	}
	return c
}

// CalculateMetrics summarizes a series. The series is split at len/2 into an
// earlier and a later half (the later half is larger for odd lengths) and each
// tracked metric reports the percentage change between the half averages.
// The input is not modified.
func CalculateMetrics(series []DailyObservation) (*MetricsSummary, error) {
	if len(series) == 0 {
		return nil, ErrEmptySeries
	}

	c := extract(series)
	mid := len(series) / 2

	hr := compare(MetricHeartRate, c.heartRate, mid)
	steps := compare(MetricSteps, c.steps, mid)
	sleep := compare(MetricSleep, c.sleep, mid)
	active := compare(MetricActiveMinutes, c.activeMinutes, mid)

	return &MetricsSummary{
		Days: len(series),

		AverageHeartRate:        RoundInt(stat.Mean(c.heartRate, nil)),
		MinHeartRate:            int(floats.Min(c.heartRate)),
		MaxHeartRate:            int(floats.Max(c.heartRate)),
		AverageRestingHeartRate: RoundInt(stat.Mean(c.restingHeartRate, nil)),
		HeartRateChange:         hr.Change,

		TotalSteps:   RoundInt(floats.Sum(c.steps)),
		AverageSteps: RoundInt(stat.Mean(c.steps, nil)),
		MinSteps:     int(floats.Min(c.steps)),
		MaxSteps:     int(floats.Max(c.steps)),
		StepsChange:  steps.Change,

		AverageSleep: Round1(stat.Mean(c.sleep, nil)),
		TotalSleep:   Round1(floats.Sum(c.sleep)),
		MinSleep:     floats.Min(c.sleep),
		MaxSleep:     floats.Max(c.sleep),
		SleepChange:  sleep.Change,

		TotalActiveMinutes:   RoundInt(floats.Sum(c.activeMinutes)),
		AverageActiveMinutes: RoundInt(stat.Mean(c.activeMinutes, nil)),
		ActiveChange:         active.Change,

		TotalCalories:   RoundInt(floats.Sum(c.calories)),
		AverageCalories: RoundInt(stat.Mean(c.calories, nil)),

		Comparisons: []PeriodComparison{hr, steps, sleep, active},
	}, nil
}

// compare builds the period comparison for one metric column split at mid.
func compare(metric string, values []float64, mid int) PeriodComparison {
	earlier, later := values[:mid], values[mid:]

	var previous float64
	if len(earlier) > 0 {
		previous = stat.Mean(earlier, nil)
	}
	current := stat.Mean(later, nil)
	change := PercentChange(previous, current)

	return PeriodComparison{
		Metric:   metric,
		Previous: Round1(previous),
		Current:  Round1(current),
		Change:   change,
		Status:   comparisonStatus(metric, change),
	}
}

// PercentChange returns (current-previous)/previous*100 rounded to one
// decimal. A zero previous value has no defined change and yields 0.
func PercentChange(previous, current float64) float64 {
	if previous == 0 {
		return 0
	}
	return Round1((current - previous) / previous * 100)
}

func comparisonStatus(metric string, change float64) string {
	// A falling average heart rate is the favourable direction.
	if metric == MetricHeartRate {
		change = -change
	}
	switch {
	case change > stableBand:
		return StatusImproved
	case change < -stableBand:
		return StatusDeclined
	default:
		return StatusStable
	}
}
