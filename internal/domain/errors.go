package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// FailureKind classifies why a probe did not find a stream working.
type FailureKind string

const (
	FailureRequest    FailureKind = "request"
	FailureTimeout    FailureKind = "timeout"
	FailureConnection FailureKind = "connection"
	FailureCanceled   FailureKind = "canceled"
	FailureHTTPStatus FailureKind = "http_status"
	FailurePanic      FailureKind = "panic"
	FailureUnknown    FailureKind = "unknown"
)

type ProbeError struct {
	URL        string
	Stage      ProbeStage
	Kind       FailureKind
	StatusCode int
	Cause      error
}

func (e *ProbeError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "probe %s [%s] %s", e.Kind, e.Stage, e.URL)
	if e.StatusCode > 0 {
		fmt.Fprintf(&sb, ": status %d", e.StatusCode)
	}
	if e.Cause != nil {
		sb.WriteString(": " + e.Cause.Error())
	}
	return sb.String()
}

func (e *ProbeError) Unwrap() error {
	return e.Cause
}

// NewTransportError wraps a client error, telling timeouts apart from
// cancellation and connection failures.
func NewTransportError(url string, stage ProbeStage, cause error) *ProbeError {
	return &ProbeError{URL: url, Stage: stage, Kind: ClassifyTransport(cause), Cause: cause}
}

func NewStatusError(url string, stage ProbeStage, statusCode int) *ProbeError {
	return &ProbeError{URL: url, Stage: stage, Kind: FailureHTTPStatus, StatusCode: statusCode}
}

func ClassifyTransport(err error) FailureKind {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	if errors.Is(err, context.Canceled) {
		return FailureCanceled
	}
	return FailureConnection
}
