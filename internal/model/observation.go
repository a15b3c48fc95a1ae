package model

import "time"

// Observation represents a single dated data point of a time series
type Observation struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Valid bool      `json:"valid"` // false when the source value was missing or malformed
}

// Series is a named sequence of observations ordered by date (oldest first)
type Series struct {
	ID           string        `json:"id"`
	Observations []Observation `json:"observations"`
}

// FREDObservation is a raw observation record as FRED sends it
type FREDObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// FREDResponse represents the observations payload returned by FRED.
// Observations is nil when the field is absent or null.
type FREDResponse struct {
	RealtimeStart string             `json:"realtime_start"`
	RealtimeEnd   string             `json:"realtime_end"`
	Units         string             `json:"units"`
	Count         int                `json:"count"`
	Observations  *[]FREDObservation `json:"observations"`
	ErrorCode     int                `json:"error_code,omitempty"`
	ErrorMessage  string             `json:"error_message,omitempty"`
}

// Valid returns only the observations carrying a usable value, preserving order
func (s Series) Valid() []Observation {
	out := make([]Observation, 0, len(s.Observations))
	for _, o := range s.Observations {
		if o.Valid {
			out = append(out, o)
		}
	}
	return out
}

// Latest returns the most recent valid observation
func (s Series) Latest() (Observation, bool) {
	for i := len(s.Observations) - 1; i >= 0; i-- {
		if s.Observations[i].Valid {
			return s.Observations[i], true
		}
	}
	return Observation{}, false
}

// LatestPair returns the two most recent valid observations as (previous, latest)
func (s Series) LatestPair() (prev, last Observation, ok bool) {
	found := 0
	for i := len(s.Observations) - 1; i >= 0 && found < 2; i-- {
		o := s.Observations[i]
		if !o.Valid {
			continue
		}
		if found == 0 {
			last = o
		} else {
			prev = o
		}
		found++
	}
	return prev, last, found == 2
}

// Tail returns up to n of the most recent valid observations
func (s Series) Tail(n int) []Observation {
	valid := s.Valid()
	if n <= 0 || len(valid) <= n {
		return valid
	}
	return valid[len(valid)-n:]
}

// Empty reports whether the series has no observations at all
func (s Series) Empty() bool {
	return len(s.Observations) == 0
}
