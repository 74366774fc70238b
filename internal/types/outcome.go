package types

// Status is the removal state of a single match.
type Status int

const (
	StatusRemoved Status = iota + 1
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRemoved:
		return "removed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type (
	// Outcome is the result of removing one selected match.
	Outcome struct {
		Match  Match  `json:"match"`
		Status Status `json:"status"`
		Reason string `json:"reason,omitempty"`
	}

	// Failure describes a match that could not be removed.
	Failure struct {
		Path   string `json:"path"`
		Reason string `json:"reason"`
	}

	// Summary aggregates the outcomes of a removal batch.
	Summary struct {
		Removed  int       `json:"removed"`
		Failed   int       `json:"failed"`
		Failures []Failure `json:"failures,omitempty"`
	}
)

// Add folds an outcome into the summary.
func (s *Summary) Add(o Outcome) {
	switch o.Status {
	case StatusRemoved:
		s.Removed++
	case StatusFailed:
		s.Failed++
		s.Failures = append(s.Failures, Failure{Path: o.Match.String(), Reason: o.Reason})
	}
}
