package config

import "github.com/rs/zerolog/log"

// ThresholdReloader re-reads configuration on every call so edits to CONFIG_FILE or .env
// take effect on the next pass. A broken reload keeps the last good thresholds.
type ThresholdReloader struct {
	current Thresholds
	load    func() (*Config, error)
}

// NewThresholdReloader starts from the thresholds of an already loaded config
func NewThresholdReloader(initial Thresholds) *ThresholdReloader {
	return &ThresholdReloader{current: initial, load: Load}
}

// Thresholds returns the latest valid thresholds
func (r *ThresholdReloader) Thresholds() Thresholds {
	cfg, err := r.load()
	if err != nil {
		log.Warn().Err(err).Msg("Config reload failed, keeping previous thresholds")
		return r.current
	}
	if cfg.Thresholds != r.current {
		log.Info().
			Float64("delinquency_threshold", cfg.Thresholds.Delinquency).
			Float64("decline_threshold", cfg.Thresholds.Decline).
			Msg("Thresholds changed")
	}
	r.current = cfg.Thresholds
	return r.current
}
