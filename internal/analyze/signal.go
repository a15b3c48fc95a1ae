package analyze

import (
	"errors"
	"fmt"

	"github.com/Alias1177/absrisk/internal/config"
	"github.com/Alias1177/absrisk/internal/model"
)

// ErrZeroBase is returned when a percent change is requested against a previous value of 0
var ErrZeroBase = errors.New("percent change base is zero")

// Inputs holds the series a single evaluation pass works on
type Inputs struct {
	Delinquency model.Series // delinquency rate, percent
	Vehicle     model.Series // used vehicle value index
}

// RiskFlags are the two independent alert conditions
type RiskFlags struct {
	Delinquency bool `json:"delinquency"`
	Decline     bool `json:"decline"`
}

// Evaluation is the result of one evaluation pass
type Evaluation struct {
	LatestDelinquency float64           `json:"latest_delinquency"`
	PercentChange     float64           `json:"percent_change"`
	Thresholds        config.Thresholds `json:"thresholds"`
	Flags             RiskFlags         `json:"flags"`
	Recommendation    Recommendation    `json:"recommendation"`
	Interpretation    Interpretation    `json:"interpretation"`
}

// LatestValue returns the most recent valid value of a series, or 0 when there is none.
// An empty delinquency series therefore reads as "no risk".
func LatestValue(s model.Series) float64 {
	if o, ok := s.Latest(); ok {
		return o.Value
	}
	return 0
}

// PercentChange returns (last - prev) / prev * 100
func PercentChange(prev, last float64) (float64, error) {
	if prev == 0 {
		return 0, ErrZeroBase
	}
	return (last - prev) / prev * 100, nil
}

// LatestPercentChange returns the percent change between the two most recent valid
// observations, or 0 when fewer than two are available
func LatestPercentChange(s model.Series) (float64, error) {
	prev, last, ok := s.LatestPair()
	if !ok {
		return 0, nil
	}
	change, err := PercentChange(prev.Value, last.Value)
	if err != nil {
		return 0, fmt.Errorf("series %s at %s: %w", s.ID, prev.Date.Format("2006-01-02"), err)
	}
	return change, nil
}

// EvaluateFlags derives the risk flags from the extracted values
func EvaluateFlags(latestDelinquency, percentChange float64, th config.Thresholds) RiskFlags {
	return RiskFlags{
		Delinquency: latestDelinquency > th.Delinquency,
		Decline:     percentChange < -th.Decline,
	}
}

// Evaluate runs the signal evaluation over freshly fetched inputs
func Evaluate(in Inputs, th config.Thresholds) (Evaluation, error) {
	latest := LatestValue(in.Delinquency)

	change, err := LatestPercentChange(in.Vehicle)
	if err != nil {
		return Evaluation{}, fmt.Errorf("computing vehicle index change: %w", err)
	}

	flags := EvaluateFlags(latest, change, th)
	e := Evaluation{
		LatestDelinquency: latest,
		PercentChange:     change,
		Thresholds:        th,
		Flags:             flags,
		Recommendation:    SelectRecommendation(flags),
	}
	e.Interpretation = Interpret(e)
	return e, nil
}
