package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/absrisk/internal/analyze"
	"github.com/Alias1177/absrisk/internal/config"
	"github.com/Alias1177/absrisk/internal/metrics"
	"github.com/Alias1177/absrisk/internal/series"
)

// Fetcher retrieves a series, degrading failures to an empty result
type Fetcher interface {
	Fetch(ctx context.Context, seriesID string) series.Result
}

// Report is everything a single pass produced
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Delinquency series.Result
	Vehicle     series.Result
	Evaluation  analyze.Evaluation
}

// Options configure a Service
type Options struct {
	DelinquencySeriesID string
	VehicleSeriesID     string
	// Thresholds is consulted at the start of every pass so operators can adjust it between runs
	Thresholds func() config.Thresholds
}

// Service runs evaluation passes
type Service struct {
	fetcher Fetcher
	opts    Options
	now     func() time.Time
	logger  zerolog.Logger
}

// NewService creates a monitor Service
func NewService(fetcher Fetcher, opts Options) *Service {
	return &Service{
		fetcher: fetcher,
		opts:    opts,
		now:     time.Now,
		logger:  log.With().Str("component", "monitor").Logger(),
	}
}

// RunOnce fetches both series and evaluates them. Fetch failures are carried in the
// Report; only an evaluation failure returns an error.
func (s *Service) RunOnce(ctx context.Context) (Report, error) {
	runID := uuid.NewString()
	logger := s.logger.With().Str("run_id", runID).Logger()
	th := s.opts.Thresholds()

	logger.Debug().
		Float64("delinquency_threshold", th.Delinquency).
		Float64("decline_threshold", th.Decline).
		Msg("Starting evaluation pass")

	report := Report{
		RunID:       runID,
		GeneratedAt: s.now(),
		Delinquency: s.fetcher.Fetch(ctx, s.opts.DelinquencySeriesID),
		Vehicle:     s.fetcher.Fetch(ctx, s.opts.VehicleSeriesID),
	}

	if report.Delinquency.Series.Empty() {
		logger.Warn().Str("series_id", s.opts.DelinquencySeriesID).
			Msg("Delinquency series is empty, latest value defaults to 0")
	}

	evaluation, err := analyze.Evaluate(analyze.Inputs{
		Delinquency: report.Delinquency.Series,
		Vehicle:     report.Vehicle.Series,
	}, th)
	if err != nil {
		metrics.EvaluationFailures.Inc()
		logger.Error().Err(err).Msg("Evaluation failed")
		return report, fmt.Errorf("evaluation pass %s: %w", runID, err)
	}
	report.Evaluation = evaluation

	recordEvaluation(evaluation)
	logger.Info().
		Float64("latest_delinquency", evaluation.LatestDelinquency).
		Float64("percent_change", evaluation.PercentChange).
		Bool("flag_delinquency", evaluation.Flags.Delinquency).
		Bool("flag_decline", evaluation.Flags.Decline).
		Str("recommendation", evaluation.Recommendation.Level.String()).
		Msg("Evaluation complete")

	return report, nil
}

// Watch runs a pass immediately and then on every tick of interval, handing each
// report to fn. It returns when ctx is cancelled or a pass fails; a pass cut short by
// cancellation is dropped rather than handed to fn.
func (s *Service) Watch(ctx context.Context, interval time.Duration, fn func(Report)) error {
	if interval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		report, err := s.RunOnce(ctx)
		// A pass interrupted by shutdown carries only cancelled fetches
		if ctx.Err() != nil {
			s.logger.Info().Msg("Stopping monitor")
			return nil
		}
		if err != nil {
			return err
		}
		fn(report)

		if ctx.Err() != nil {
			s.logger.Info().Msg("Stopping monitor")
			return nil
		}
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Stopping monitor")
			return nil
		case <-ticker.C:
		}
	}
}

func recordEvaluation(e analyze.Evaluation) {
	metrics.EvaluationsTotal.WithLabelValues(e.Recommendation.Level.String()).Inc()
	metrics.LatestDelinquency.Set(e.LatestDelinquency)
	metrics.VehicleIndexChange.Set(e.PercentChange)
	metrics.RiskFlag.WithLabelValues("delinquency").Set(boolToFloat(e.Flags.Delinquency))
	metrics.RiskFlag.WithLabelValues("decline").Set(boolToFloat(e.Flags.Decline))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
