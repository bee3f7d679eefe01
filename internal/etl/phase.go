package etl

import "strings"

type Phase int

const (
	PhaseConfiguring Phase = iota
	PhaseExtracting
	PhaseTransforming
	PhaseLoading
	PhaseClosing
	PhaseSucceeded
	PhaseFailed
)

var phaseNames = [...]string{
	PhaseConfiguring:  "CONFIGURING",
	PhaseExtracting:   "EXTRACTING",
	PhaseTransforming: "TRANSFORMING",
	PhaseLoading:      "LOADING",
	PhaseClosing:      "CLOSING",
	PhaseSucceeded:    "SUCCEEDED",
	PhaseFailed:       "FAILED",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "UNKNOWN"
	}
	return phaseNames[p]
}

// Terminal reports whether no further transition can happen.
func (p Phase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

func (p Phase) segmentName() string {
	return "etl." + strings.ToLower(p.String())
}
