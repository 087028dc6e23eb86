package ports

import (
	"io"

	"github.com/rojanmagar2001/streamcheck/internal/domain"
)

// ManifestDecoder turns a fetched playlist body into entries.
type ManifestDecoder interface {
	Decode(contentType string, r io.Reader) ([]domain.Entry, error)
}
