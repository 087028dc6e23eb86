package manifest

import (
	"fmt"
	"io"

	"golang.org/x/net/html/charset"

	"github.com/rojanmagar2001/streamcheck/internal/domain"
	"github.com/rojanmagar2001/streamcheck/internal/m3u"
)

// Decoder converts fetched playlists to UTF-8 using the Content-Type charset
// (or a sniff of the body) before parsing them.
type Decoder struct{}

func New() *Decoder { return &Decoder{} }

func (d *Decoder) Decode(contentType string, r io.Reader) ([]domain.Entry, error) {
	utf8, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("detect charset: %w", err)
	}

	entries, err := m3u.ParseReader(utf8)
	if err != nil {
		return entries, fmt.Errorf("read playlist: %w", err)
	}
	return entries, nil
}
