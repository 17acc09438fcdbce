package analytics

import "fmt"

// Thresholds used by the insight rules.
const (
	StepGoal = 8000

	heartRateStableBelow   = 10
	heartRateVariableAbove = 25

	stepRateOutstanding = 0.8
	stepRateGood        = 0.5

	sleepOptimalHours  = 7.5
	sleepAdequateHours = 6.5

	activeExceedingMinutes = 60
	activeMeetingMinutes   = 30

	stepsTrendUpPercent   = 10
	sleepTrendDownPercent = -10
)

// GenerateInsights evaluates the insight rules against a series and its
// summary. Rules run in a fixed order: heart rate, step goal, sleep, active
// minutes, then the two trend rules. The first four always produce exactly
// one insight; the trend rules are conditional. An empty series or nil
// summary yields an empty list.
func GenerateInsights(series []DailyObservation, m *MetricsSummary) []Insight {
	if len(series) == 0 || m == nil {
		return []Insight{}
	}

	insights := make([]Insight, 0, 6)
	insights = append(insights,
		heartRateInsight(m),
		stepGoalInsight(series, m),
		sleepInsight(m),
		activeMinutesInsight(m),
	)
	if in, ok := stepsTrendInsight(m); ok {
		insights = append(insights, in)
	}
	if in, ok := sleepTrendInsight(m); ok {
		insights = append(insights, in)
	}
	return insights
}

func heartRateInsight(m *MetricsSummary) Insight {
	variability := m.HeartRateVariability()
	average := fmt.Sprintf("%d bpm average", m.AverageHeartRate)

	switch {
	case variability < heartRateStableBelow:
		return Insight{
			Type:     InsightPositive,
			Category: CategoryHeart,
			Title:    "Excellent Heart Rate Stability",
			Description: fmt.Sprintf("Your heart rate has been very consistent, varying only %d bpm over this period. "+
				"This indicates good cardiovascular health.", variability),
			Metric: average,
		}
	case variability > heartRateVariableAbove:
		return Insight{
			Type:     InsightWarning,
			Category: CategoryHeart,
			Title:    "Heart Rate Variability",
			Description: fmt.Sprintf("Your heart rate has varied by %d bpm. "+
				"Consider monitoring stress levels and recovery.", variability),
			Metric: average,
		}
	default:
		return Insight{
			Type:     InsightPositive,
			Category: CategoryHeart,
			Title:    "Healthy Heart Rate",
			Description: fmt.Sprintf("Your average heart rate of %d bpm is within the normal range for adults.",
				m.AverageHeartRate),
			Metric: fmt.Sprintf("%d bpm variation", variability),
		}
	}
}

// DaysAboveStepGoal counts the days on which the step goal was met.
func DaysAboveStepGoal(series []DailyObservation) int {
	n := 0
	for _, o := range series {
		if o.Steps >= StepGoal {
			n++
		}
	}
	return n
}

func stepGoalInsight(series []DailyObservation, m *MetricsSummary) Insight {
	days := len(series)
	above := DaysAboveStepGoal(series)
	rate := float64(above) / float64(days)
	metric := FormatCount(m.AverageSteps) + " avg steps"

	switch {
	case rate >= stepRateOutstanding:
		return Insight{
			Type:     InsightPositive,
			Category: CategoryActivity,
			Title:    "Outstanding Step Achievement",
			Description: fmt.Sprintf("You've reached your step goal %d out of %d days (%s)! Keep up the excellent work.",
				above, days, FormatWholePercent(rate)),
			Metric: metric,
		}
	case rate >= stepRateGood:
		return Insight{
			Type:     InsightInfo,
			Category: CategoryActivity,
			Title:    "Good Step Progress",
			Description: fmt.Sprintf("You achieved your step goal %s of the time. Try to increase consistency.",
				FormatWholePercent(rate)),
			Metric: metric,
		}
	default:
		return Insight{
			Type:     InsightWarning,
			Category: CategoryActivity,
			Title:    "Step Goal Opportunity",
			Description: fmt.Sprintf("You've reached your step goal %d out of %d days. "+
				"Consider adding short walks throughout the day.", above, days),
			Metric: metric,
		}
	}
}

func sleepInsight(m *MetricsSummary) Insight {
	hours := FormatHours(m.AverageSleep)
	metric := FormatSignedPercent(m.SleepChange) + " vs previous period"

	switch {
	case m.AverageSleep >= sleepOptimalHours:
		return Insight{
			Type:     InsightPositive,
			Category: CategorySleep,
			Title:    "Optimal Sleep Duration",
			Description: fmt.Sprintf("You're averaging %s hours of sleep, which is excellent for recovery and health.",
				hours),
			Metric: metric,
		}
	case m.AverageSleep >= sleepAdequateHours:
		return Insight{
			Type:     InsightInfo,
			Category: CategorySleep,
			Title:    "Adequate Sleep",
			Description: fmt.Sprintf("You're getting %s hours of sleep on average. "+
				"Consider aiming for 7-8 hours for optimal health.", hours),
			Metric: metric,
		}
	default:
		return Insight{
			Type:     InsightWarning,
			Category: CategorySleep,
			Title:    "Sleep Improvement Needed",
			Description: fmt.Sprintf("Your average sleep of %s hours is below the recommended 7-8 hours. "+
				"Prioritize rest for better health.", hours),
			Metric: metric,
		}
	}
}

func activeMinutesInsight(m *MetricsSummary) Insight {
	minutes := m.AverageActiveMinutes
	metric := FormatSignedPercent(m.ActiveChange) + " change"

	switch {
	case minutes >= activeExceedingMinutes:
		return Insight{
			Type:     InsightPositive,
			Category: CategoryActivity,
			Title:    "Exceeding Activity Goals",
			Description: fmt.Sprintf("You're averaging %d active minutes per day, exceeding WHO recommendations!",
				minutes),
			Metric: metric,
		}
	case minutes >= activeMeetingMinutes:
		return Insight{
			Type:     InsightPositive,
			Category: CategoryActivity,
			Title:    "Meeting Activity Guidelines",
			Description: fmt.Sprintf("Great job maintaining %d active minutes daily. "+
				"You're meeting basic health guidelines.", minutes),
			Metric: metric,
		}
	default:
		return Insight{
			Type:     InsightInfo,
			Category: CategoryActivity,
			Title:    "Activity Opportunity",
			Description: fmt.Sprintf("Consider increasing your daily active minutes from %d to at least 30 "+
				"for optimal health benefits.", minutes),
			Metric: metric,
		}
	}
}

func stepsTrendInsight(m *MetricsSummary) (Insight, bool) {
	if m.StepsChange <= stepsTrendUpPercent {
		return Insight{}, false
	}
	return Insight{
		Type:        InsightPositive,
		Category:    CategoryTrend,
		Title:       "Activity Trending Up",
		Description: fmt.Sprintf("Your daily steps have increased by %s recently. Excellent progress!", FormatPercent(m.StepsChange)),
		Metric:      "Positive trend detected",
	}, true
}

func sleepTrendInsight(m *MetricsSummary) (Insight, bool) {
	if m.SleepChange >= sleepTrendDownPercent {
		return Insight{}, false
	}
	return Insight{
		Type:        InsightWarning,
		Category:    CategoryTrend,
		Title:       "Sleep Pattern Alert",
		Description: fmt.Sprintf("Your sleep has decreased by %s recently. Consider evaluating your bedtime routine.", FormatPercent(m.SleepChange)),
		Metric:      "Declining trend detected",
	}, true
}
