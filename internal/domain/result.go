package domain

import (
	"errors"
	"time"
)

type ProbeStage string

const (
	StageHead  ProbeStage = "head"
	StageRange ProbeStage = "range"
)

// ProbeResult is the outcome of probing one stream URL. Stage is the last
// stage attempted.
type ProbeResult struct {
	URL        string
	Working    bool
	Stage      ProbeStage
	StatusCode int
	Err        error
	Elapsed    time.Duration
}

// Failure returns why the probe did not succeed, or "" for working streams.
func (r ProbeResult) Failure() FailureKind {
	if r.Working {
		return ""
	}
	var pe *ProbeError
	if errors.As(r.Err, &pe) {
		return pe.Kind
	}
	return FailureUnknown
}
