package analytics

import (
	"errors"
	"reflect"
	"testing"
)

func obs(heartRate, steps int, sleep float64, active int) DailyObservation {
	return DailyObservation{
		HeartRate:        heartRate,
		RestingHeartRate: 60,
		Steps:            steps,
		Sleep:            sleep,
		ActiveMinutes:    active,
		Calories:         2000,
	}
}

func repeat(n int, o DailyObservation) []DailyObservation {
	out := make([]DailyObservation, n)
	for i := range out {
		out[i] = o
	}
	return out
}

func comparison(t *testing.T, m *MetricsSummary, metric string) PeriodComparison {
	t.Helper()
	for _, c := range m.Comparisons {
		if c.Metric == metric {
			return c
		}
	}
	t.Fatalf("no comparison for %s", metric)
	return PeriodComparison{}
}

func TestCalculateMetrics_Empty(t *testing.T) {
	m, err := CalculateMetrics(nil)
	if !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}
	if m != nil {
		t.Errorf("expected nil summary, got %+v", m)
	}
}

func TestCalculateMetrics_ConstantHeartRate(t *testing.T) {
	m, err := CalculateMetrics(repeat(7, obs(72, 8000, 7.5, 45)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.AverageHeartRate != 72 || m.MinHeartRate != 72 || m.MaxHeartRate != 72 {
		t.Errorf("expected 72/72/72, got %d/%d/%d", m.AverageHeartRate, m.MinHeartRate, m.MaxHeartRate)
	}
	if m.HeartRateVariability() != 0 {
		t.Errorf("expected zero variability, got %d", m.HeartRateVariability())
	}
	if m.HeartRateChange != 0 {
		t.Errorf("expected no change, got %v", m.HeartRateChange)
	}
	if c := comparison(t, m, MetricHeartRate); c.Status != StatusStable {
		t.Errorf("expected stable, got %s", c.Status)
	}
	if m.Days != 7 {
		t.Errorf("expected 7 days, got %d", m.Days)
	}
}

func TestCalculateMetrics_StepsIncrease(t *testing.T) {
	series := append(repeat(3, obs(70, 7000, 7.5, 45)), repeat(3, obs(70, 9000, 7.5, 45))...)

	m, err := CalculateMetrics(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.StepsChange != 28.6 {
		t.Errorf("expected steps change 28.6, got %v", m.StepsChange)
	}

	c := comparison(t, m, MetricSteps)
	if c.Previous != 7000 || c.Current != 9000 {
		t.Errorf("expected 7000 -> 9000, got %v -> %v", c.Previous, c.Current)
	}
	if c.Status != StatusImproved {
		t.Errorf("expected improved, got %s", c.Status)
	}

	if m.TotalSteps != 48000 || m.AverageSteps != 8000 {
		t.Errorf("expected total 48000 avg 8000, got %d / %d", m.TotalSteps, m.AverageSteps)
	}
	if m.MinSteps != 7000 || m.MaxSteps != 9000 {
		t.Errorf("expected min 7000 max 9000, got %d / %d", m.MinSteps, m.MaxSteps)
	}
}

func TestCalculateMetrics_OddLengthLaterHalfLarger(t *testing.T) {
	// mid = 3: days 0-2 are earlier, days 3-6 are later.
	series := []DailyObservation{
		obs(70, 6000, 7, 40),
		obs(70, 6000, 7, 40),
		obs(70, 6000, 7, 40),
		obs(70, 6000, 8, 40),
		obs(70, 8000, 8, 40),
		obs(70, 8000, 8, 40),
		obs(70, 8000, 8, 40),
	}
	m, err := CalculateMetrics(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	steps := comparison(t, m, MetricSteps)
	if steps.Previous != 6000 || steps.Current != 7500 {
		t.Errorf("expected 6000 -> 7500, got %v -> %v", steps.Previous, steps.Current)
	}
	if m.StepsChange != 25 {
		t.Errorf("expected 25%%, got %v", m.StepsChange)
	}

	sleep := comparison(t, m, MetricSleep)
	if sleep.Previous != 7 || sleep.Current != 8 {
		t.Errorf("expected sleep 7 -> 8, got %v -> %v", sleep.Previous, sleep.Current)
	}
	if m.SleepChange != 14.3 {
		t.Errorf("expected sleep change 14.3, got %v", m.SleepChange)
	}
	if m.AverageSleep != 7.6 || m.TotalSleep != 53 {
		t.Errorf("expected sleep avg 7.6 total 53, got %v / %v", m.AverageSleep, m.TotalSleep)
	}
}

func TestCalculateMetrics_RisingHeartRateDeclines(t *testing.T) {
	series := append(repeat(2, obs(60, 8000, 7.5, 45)), repeat(2, obs(66, 8000, 7.5, 45))...)

	m, err := CalculateMetrics(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.HeartRateChange != 10 {
		t.Errorf("expected +10%%, got %v", m.HeartRateChange)
	}
	if c := comparison(t, m, MetricHeartRate); c.Status != StatusDeclined {
		t.Errorf("expected a rising heart rate to be declined, got %s", c.Status)
	}
}

func TestCalculateMetrics_ZeroBaseline(t *testing.T) {
	series := append(repeat(3, obs(70, 0, 7.5, 0)), repeat(3, obs(70, 9000, 7.5, 30))...)

	m, err := CalculateMetrics(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.StepsChange != 0 {
		t.Errorf("expected sentinel 0 for zero baseline, got %v", m.StepsChange)
	}
	if m.ActiveChange != 0 {
		t.Errorf("expected sentinel 0 for zero baseline, got %v", m.ActiveChange)
	}
	if c := comparison(t, m, MetricSteps); c.Status != StatusStable {
		t.Errorf("expected stable status for zero baseline, got %s", c.Status)
	}
}

func TestCalculateMetrics_SingleDay(t *testing.T) {
	m, err := CalculateMetrics([]DailyObservation{obs(75, 12000, 8.2, 70)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.AverageHeartRate != 75 || m.TotalSteps != 12000 || m.AverageSleep != 8.2 {
		t.Errorf("unexpected single-day summary %+v", m)
	}
	for _, c := range m.Comparisons {
		if c.Change != 0 || c.Previous != 0 {
			t.Errorf("%s: expected empty earlier half to yield 0, got %+v", c.Metric, c)
		}
	}
}

func TestCalculateMetrics_Idempotent(t *testing.T) {
	series := NewSynthesizer(99, fixedClock).Generate(Range30d)
	snapshot := append([]DailyObservation(nil), series...)

	a, err := CalculateMetrics(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := CalculateMetrics(series)
	if !reflect.DeepEqual(a, b) {
		t.Error("expected identical summaries for the same series")
	}
	if !reflect.DeepEqual(series, snapshot) {
		t.Error("expected the input series to be left unmodified")
	}
}

func TestCalculateMetrics_ComparisonOrder(t *testing.T) {
	m, _ := CalculateMetrics(repeat(4, obs(70, 8000, 7.5, 45)))
	want := []string{MetricHeartRate, MetricSteps, MetricSleep, MetricActiveMinutes}
	if len(m.Comparisons) != len(want) {
		t.Fatalf("expected %d comparisons, got %d", len(want), len(m.Comparisons))
	}
	for i, name := range want {
		if m.Comparisons[i].Metric != name {
			t.Errorf("comparison %d: expected %s, got %s", i, name, m.Comparisons[i].Metric)
		}
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		previous, current, want float64
	}{
		{7000, 9000, 28.6},
		{100, 90, -10},
		{8, 8, 0},
		{0, 50, 0},
		{3, 4, 33.3},
	}
	for _, tt := range tests {
		if got := PercentChange(tt.previous, tt.current); got != tt.want {
			t.Errorf("PercentChange(%v, %v) = %v, want %v", tt.previous, tt.current, got, tt.want)
		}
	}
}

func TestComparisonStatus_Band(t *testing.T) {
	tests := []struct {
		metric string
		change float64
		want   string
	}{
		{MetricSteps, 1.0, StatusStable},
		{MetricSteps, 1.1, StatusImproved},
		{MetricSteps, -1.1, StatusDeclined},
		{MetricHeartRate, -5, StatusImproved},
		{MetricHeartRate, 5, StatusDeclined},
		{MetricSleep, -1.0, StatusStable},
	}
	for _, tt := range tests {
		if got := comparisonStatus(tt.metric, tt.change); got != tt.want {
			t.Errorf("comparisonStatus(%s, %v) = %s, want %s", tt.metric, tt.change, got, tt.want)
		}
	}
}
