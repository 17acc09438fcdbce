package analytics

import (
	"math/rand"
	"time"
)

// Baselines for a healthy adult before daily variation is applied.
const (
	BaselineHeartRate        = 70
	BaselineRestingHeartRate = 60
	BaselineMaxHeartRate     = 150
	BaselineSteps            = 8000
	BaselineSleep            = 7.5
	BaselineActiveMinutes    = 45
	BaselineCalories         = 2100
)

// weekendAdjustment is added to the baselines on Saturdays and Sundays.
var weekendAdjustment = struct {
	HeartRate     float64
	Steps         float64
	Sleep         float64
	ActiveMinutes float64
}{
	HeartRate:     -2,
	Steps:         1500,
	Sleep:         0.5,
	ActiveMinutes: 10,
}

// Synthesizer produces synthetic daily observations. A Synthesizer owns its
// random source and must not be shared between goroutines; build one per
// request instead.
type Synthesizer struct {
	rng *rand.Rand
	now func() time.Time
}

// NewSynthesizer returns a synthesizer seeded for reproducibility. If seed is
// 0 a time-based seed is chosen. A nil now uses time.Now.
func NewSynthesizer(seed int64, now func() time.Time) *Synthesizer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewSynthesizerWithSource(rand.NewSource(seed), now)
}

// NewSynthesizerWithSource builds a synthesizer around an explicit source.
func NewSynthesizerWithSource(src rand.Source, now func() time.Time) *Synthesizer {
	if now == nil {
		now = time.Now
	}
	return &Synthesizer{rng: rand.New(src), now: now}
}

// Generate returns r.Days() observations, oldest first, the last one dated
// today in the clock's location.
func (s *Synthesizer) Generate(r Range) []DailyObservation {
	return s.GenerateDays(r.Days())
}

// GenerateDays returns the given number of consecutive daily observations
// ending today. A non-positive count yields an empty series.
func (s *Synthesizer) GenerateDays(days int) []DailyObservation {
	if days <= 0 {
		return []DailyObservation{}
	}

	now := s.now()
	// Noon keeps AddDate clear of DST gaps around midnight.
	today := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())

	series := make([]DailyObservation, 0, days)
	for i := days - 1; i >= 0; i-- {
		series = append(series, s.observe(today.AddDate(0, 0, -i)))
	}
	return series
}

func (s *Synthesizer) observe(day time.Time) DailyObservation {
	var weekend float64
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		weekend = 1
	}

	return DailyObservation{
		Date:             day.Format(DateLayout),
		DisplayDate:      day.Format(DisplayDateLayout),
		HeartRate:        RoundInt(BaselineHeartRate + s.vary(0.5, 8) + weekend*weekendAdjustment.HeartRate),
		Steps:            RoundInt(BaselineSteps + s.vary(0.3, 2000) + weekend*weekendAdjustment.Steps),
		Sleep:            Round1(BaselineSleep + s.vary(0.5, 1.5) + weekend*weekendAdjustment.Sleep),
		ActiveMinutes:    RoundInt(BaselineActiveMinutes + s.vary(0.3, 15) + weekend*weekendAdjustment.ActiveMinutes),
		Calories:         RoundInt(BaselineCalories + s.vary(0.5, 400)),
		RestingHeartRate: RoundInt(BaselineRestingHeartRate + s.vary(0.5, 6)),
		MaxHeartRate:     RoundInt(BaselineMaxHeartRate + s.vary(0.5, 20)),
		DeepSleep:        Round1(BaselineSleep*0.3 + s.vary(0.5, 0.5)),
		LightSleep:       Round1(BaselineSleep*0.5 + s.vary(0.5, 0.5)),
		RemSleep:         Round1(BaselineSleep*0.2 + s.vary(0.5, 0.3)),
	}
}

// vary draws a uniform offset in [-center*spread, (1-center)*spread). A
// center below 0.5 biases the variation upward.
func (s *Synthesizer) vary(center, spread float64) float64 {
	return (s.rng.Float64() - center) * spread
}
