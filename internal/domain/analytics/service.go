package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Options configures a Service.
type Options struct {
	// Seed pins the random source for every call. 0 draws a fresh seed per call.
	Seed int64
	// DefaultRange is used when a request carries no range token.
	DefaultRange string
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// Request selects what a single pipeline run produces.
type Request struct {
	Range string
	// Seed overrides the service seed when non-zero.
	Seed int64
}

// Service runs the synthesize, aggregate and insight pipeline. It holds no
// mutable state, so one Service may serve concurrent requests.
type Service struct {
	seed         int64
	defaultRange Range
	now          func() time.Time
	logger       zerolog.Logger
}

func NewService(opts Options, logger zerolog.Logger) *Service {
	def, ok := ParseRange(opts.DefaultRange)
	if !ok {
		def = Range7d
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		seed:         opts.Seed,
		defaultRange: def,
		now:          now,
		logger:       logger,
	}
}

// DefaultRange returns the range used for requests without a token.
func (s *Service) DefaultRange() Range { return s.defaultRange }

// DeriveHealthAnalytics runs the pipeline for a range token.
func (s *Service) DeriveHealthAnalytics(ctx context.Context, token string) (*Overview, error) {
	return s.Derive(ctx, Request{Range: token})
}

// Derive runs the pipeline for a request. An unknown range token is not an
// error: it resolves to FallbackRange and the overview reports the range that
// was used.
func (s *Service) Derive(ctx context.Context, req Request) (*Overview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := s.ResolveRange(req.Range)

	seed := req.Seed
	if seed == 0 {
		seed = s.seed
	}
	series := NewSynthesizer(seed, s.now).Generate(r)

	summary, insights, err := Analyze(series)
	if err != nil {
		return nil, fmt.Errorf("derive %s analytics: %w", r, err)
	}

	return &Overview{
		ID:          uuid.New(),
		TimeRange:   r,
		Days:        len(series),
		GeneratedAt: s.now().UTC(),
		Series:      series,
		Summary:     summary,
		Insights:    insights,
	}, nil
}

// ResolveRange maps a request token to a range, logging unknown tokens.
func (s *Service) ResolveRange(token string) Range {
	if token == "" {
		return s.defaultRange
	}
	r, ok := ParseRange(token)
	if !ok {
		s.logger.Warn().
			Str("time_range", token).
			Str("resolved", r.String()).
			Msg("unknown time range, using fallback")
	}
	return r
}

// Analyze summarizes an existing series and evaluates the insight rules on it.
func Analyze(series []DailyObservation) (*MetricsSummary, []Insight, error) {
	summary, err := CalculateMetrics(series)
	if err != nil {
		return nil, []Insight{}, err
	}
	return summary, GenerateInsights(series, summary), nil
}
