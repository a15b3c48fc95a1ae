package analyze

// Level classifies a recommendation
type Level int

const (
	LevelWatch Level = iota
	LevelElevated
	LevelHighRisk
)

func (l Level) String() string {
	switch l {
	case LevelHighRisk:
		return "HIGH_RISK"
	case LevelElevated:
		return "ELEVATED"
	default:
		return "WATCH"
	}
}

// MarshalText lets Level serialize as its name
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Recommendation is one of the three fixed strategy outcomes
type Recommendation struct {
	Level   Level    `json:"level"`
	Text    string   `json:"text"`
	Actions []string `json:"actions,omitempty"`
}

var (
	highRisk = Recommendation{
		Level: LevelHighRisk,
		Text:  "All conditions triggered: consider starting a short position on subprime auto loan exposure.",
		Actions: []string{
			"Research put options on CACC, ALLY, or SC",
			"Monitor auto ABS ETFs like HYG or JNK",
			"Consider short exposure via SJB",
		},
	}
	elevated = Recommendation{
		Level: LevelElevated,
		Text:  "Delinquencies are elevated: prepare to monitor subprime lenders closely.",
	}
	watch = Recommendation{
		Level: LevelWatch,
		Text:  "No immediate action. Stay in watch mode and monitor indicators.",
	}
)

// SelectRecommendation maps the flag pair to a recommendation.
// A decline on its own does not escalate.
func SelectRecommendation(flags RiskFlags) Recommendation {
	switch {
	case flags.Delinquency && flags.Decline:
		return highRisk.clone()
	case flags.Delinquency:
		return elevated.clone()
	default:
		return watch.clone()
	}
}

func (r Recommendation) clone() Recommendation {
	if r.Actions != nil {
		r.Actions = append([]string(nil), r.Actions...)
	}
	return r
}
