package ports

import "github.com/rojanmagar2001/streamcheck/internal/domain"

// ProbeRecord is one row of a probe report.
type ProbeRecord struct {
	Source string
	Entry  domain.Entry
	Result domain.ProbeResult
}

type Reporter interface {
	Report(path string, records []ProbeRecord) error
}
