package series

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/absrisk/internal/metrics"
	"github.com/Alias1177/absrisk/internal/model"
)

// Source retrieves the observations of a series
type Source interface {
	GetObservations(ctx context.Context, seriesID string) ([]model.Observation, error)
}

// Result is the outcome of a fetch. Err is kept for display; Series is empty when Err is set.
type Result struct {
	Series model.Series
	Err    error
}

// Failed reports whether the fetch failed
func (r Result) Failed() bool {
	return r.Err != nil
}

// Fetcher fetches series and never fails the caller: errors degrade to an empty series
type Fetcher struct {
	source Source
	logger zerolog.Logger
}

// NewFetcher creates a Fetcher over the given source
func NewFetcher(source Source) *Fetcher {
	return &Fetcher{
		source: source,
		logger: log.With().Str("component", "series_fetcher").Logger(),
	}
}

// Fetch retrieves a series by id
func (f *Fetcher) Fetch(ctx context.Context, seriesID string) Result {
	start := time.Now()
	observations, err := f.source.GetObservations(ctx, seriesID)
	metrics.FetchDuration.WithLabelValues(seriesID).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.FetchTotal.WithLabelValues(seriesID, "failed").Inc()
		metrics.ObservationsFetched.WithLabelValues(seriesID).Set(0)
		f.logger.Error().Err(err).Str("series_id", seriesID).Msg("Failed to fetch data from FRED API")
		return Result{Series: model.Series{ID: seriesID}, Err: err}
	}

	metrics.FetchTotal.WithLabelValues(seriesID, "ok").Inc()
	metrics.ObservationsFetched.WithLabelValues(seriesID).Set(float64(len(observations)))
	if len(observations) == 0 {
		f.logger.Warn().Str("series_id", seriesID).Msg("No observations in response")
	}

	return Result{Series: model.Series{ID: seriesID, Observations: observations}}
}
