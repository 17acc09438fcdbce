package analytics

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Range selects how many trailing days of data a series covers.
type Range string

const (
	Range7d  Range = "7d"
	Range30d Range = "30d"
	Range90d Range = "90d"

	// FallbackRange is used for any token that is not a known range.
	FallbackRange = Range30d
)

var rangeDays = map[Range]int{
	Range7d:  7,
	Range30d: 30,
	Range90d: 90,
}

// ParseRange resolves a range token. Unknown tokens resolve to FallbackRange
// and ok is false so callers can report the substitution.
func ParseRange(token string) (r Range, ok bool) {
	r = Range(strings.ToLower(strings.TrimSpace(token)))
	if _, known := rangeDays[r]; known {
		return r, true
	}
	return FallbackRange, false
}

// Days returns the number of days covered by the range.
func (r Range) Days() int {
	if d, ok := rangeDays[r]; ok {
		return d
	}
	return rangeDays[FallbackRange]
}

func (r Range) String() string { return string(r) }

// DailyObservation is one day of wearable data.
type DailyObservation struct {
	Date             string  `json:"date"`
	DisplayDate      string  `json:"displayDate"`
	HeartRate        int     `json:"heartRate"`
	RestingHeartRate int     `json:"restingHeartRate"`
	MaxHeartRate     int     `json:"maxHeartRate"`
	Steps            int     `json:"steps"`
	Sleep            float64 `json:"sleep"`
	DeepSleep        float64 `json:"deepSleep"`
	LightSleep       float64 `json:"lightSleep"`
	RemSleep         float64 `json:"remSleep"`
	ActiveMinutes    int     `json:"activeMinutes"`
	Calories         int     `json:"calories"`
}

// Day parses Date in the given location.
func (o DailyObservation) Day(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, o.Date, loc)
}

const (
	DateLayout        = "2006-01-02"
	DisplayDateLayout = "Jan 2"
)

// Comparison status values.
const (
	StatusImproved = "improved"
	StatusDeclined = "declined"
	StatusStable   = "stable"
)

// PeriodComparison contrasts the earlier and later half of a series for one
// metric.
type PeriodComparison struct {
	Metric   string  `json:"metric"`
	Previous float64 `json:"previous"`
	Current  float64 `json:"current"`
	Change   float64 `json:"change"`
	Status   string  `json:"status"`
}

// MetricsSummary holds the statistics derived from a series. Averages that
// the portal shows as whole numbers are rounded; sleep keeps one decimal.
type MetricsSummary struct {
	Days int `json:"days"`

	AverageHeartRate        int     `json:"averageHeartRate"`
	MinHeartRate            int     `json:"minHeartRate"`
	MaxHeartRate            int     `json:"maxHeartRate"`
	AverageRestingHeartRate int     `json:"averageRestingHeartRate"`
	HeartRateChange         float64 `json:"heartRateChange"`

	TotalSteps   int     `json:"totalSteps"`
	AverageSteps int     `json:"averageSteps"`
	MinSteps     int     `json:"minSteps"`
	MaxSteps     int     `json:"maxSteps"`
	StepsChange  float64 `json:"stepsChange"`

	AverageSleep float64 `json:"averageSleep"`
	TotalSleep   float64 `json:"totalSleep"`
	MinSleep     float64 `json:"minSleep"`
	MaxSleep     float64 `json:"maxSleep"`
	SleepChange  float64 `json:"sleepChange"`

	TotalActiveMinutes   int     `json:"totalActiveMinutes"`
	AverageActiveMinutes int     `json:"averageActiveMinutes"`
	ActiveChange         float64 `json:"activeChange"`

	TotalCalories   int `json:"totalCalories"`
	AverageCalories int `json:"averageCalories"`

	Comparisons []PeriodComparison `json:"comparisons"`
}

// HeartRateVariability is the spread between the highest and lowest daily
// heart rate.
func (m *MetricsSummary) HeartRateVariability() int {
	return m.MaxHeartRate - m.MinHeartRate
}

// InsightType classifies the tone of an insight.
type InsightType string

const (
	InsightPositive InsightType = "positive"
	InsightWarning  InsightType = "warning"
	InsightInfo     InsightType = "info"
)

// InsightCategory is the health domain an insight belongs to.
type InsightCategory string

const (
	CategoryHeart    InsightCategory = "heart"
	CategoryActivity InsightCategory = "activity"
	CategorySleep    InsightCategory = "sleep"
	CategoryTrend    InsightCategory = "trend"
)

// Insight is a rule-derived observation about a series.
type Insight struct {
	Type        InsightType     `json:"type"`
	Category    InsightCategory `json:"category"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Metric      string          `json:"metric"`
}

// Overview is the full result of one pipeline run.
type Overview struct {
	ID          uuid.UUID          `json:"id"`
	TimeRange   Range              `json:"timeRange"`
	Days        int                `json:"days"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Series      []DailyObservation `json:"series"`
	Summary     *MetricsSummary    `json:"summary"`
	Insights    []Insight          `json:"insights"`
}
