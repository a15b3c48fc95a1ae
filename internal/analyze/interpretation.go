package analyze

import "fmt"

// Interpretation holds the per-indicator status lines and threshold warnings
type Interpretation struct {
	DelinquencyStatus string   `json:"delinquency_status"`
	VehicleStatus     string   `json:"vehicle_status"`
	Warnings          []string `json:"warnings,omitempty"`
}

// Interpret describes an evaluation in operator-facing terms
func Interpret(e Evaluation) Interpretation {
	in := Interpretation{
		DelinquencyStatus: "Watching zone",
		VehicleStatus:     "No immediate threat",
	}

	if e.Flags.Delinquency {
		in.DelinquencyStatus = "High risk of rising defaults"
		in.Warnings = append(in.Warnings, fmt.Sprintf(
			"Delinquencies have exceeded %g%%! Current: %.2f%%",
			e.Thresholds.Delinquency, e.LatestDelinquency))
	}
	if e.Flags.Decline {
		in.VehicleStatus = "Asset depreciation risk"
		in.Warnings = append(in.Warnings, fmt.Sprintf(
			"Used vehicle value index declined more than %g%%. Current: %.2f%%",
			e.Thresholds.Decline, e.PercentChange))
	}

	return in
}
