// Package m3u reads and writes M3U playlists and the plain-text lists that
// feed them.
package m3u

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/rojanmagar2001/streamcheck/internal/domain"
)

// maxLineSize bounds a single playlist line; some providers put very long
// attribute lists on #EXTINF lines. Longer lines are skipped.
const maxLineSize = 1 << 20

// Parse turns manifest text into entries. Each non-comment line is a URL and
// takes the most recent unconsumed #EXTINF line as its metadata. Other '#'
// lines are ignored. Malformed input yields fewer entries, never an error.
func Parse(raw string) []domain.Entry {
	entries, _ := ParseReader(strings.NewReader(raw))
	return entries
}

// ParseReader applies the Parse rules to r. The error is the reader's, if any;
// entries read before it are still returned. A line over maxLineSize is
// dropped along with any metadata waiting for a URL.
func ParseReader(r io.Reader) ([]domain.Entry, error) {
	var (
		out     []domain.Entry
		pending string
	)
	err := eachLine(r, func(line string, tooLong bool) {
		switch {
		case tooLong:
			pending = ""
		case line == "":
		case isMetadata(line):
			pending = line
		case strings.HasPrefix(line, "#"):
		default:
			out = append(out, domain.NewEntry(pending, line))
			pending = ""
		}
	})
	return out, err
}

func isMetadata(line string) bool {
	return strings.HasPrefix(line, domain.MetadataMarker)
}

// eachLine calls fn with every trimmed line of r. A line longer than
// maxLineSize is not buffered; fn gets it as ("", true). A read error ends
// the walk and drops the unfinished line.
func eachLine(r io.Reader, fn func(line string, tooLong bool)) error {
	br := bufio.NewReaderSize(r, 64*1024)

	var (
		buf     []byte
		tooLong bool
	)
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			if len(buf)+len(chunk) > maxLineSize {
				tooLong = true
				buf = buf[:0]
			} else {
				buf = append(buf, chunk...)
			}
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		switch {
		case tooLong:
			fn("", true)
		case len(buf) > 0:
			fn(strings.TrimSpace(string(buf)), false)
		}
		buf, tooLong = buf[:0], false

		if err != nil {
			return nil
		}
	}
}

// splitLines reads r into trimmed lines. An oversized line becomes a lone "#"
// so it still ends any metadata waiting for a URL.
func splitLines(r io.Reader) ([]string, error) {
	var lines []string
	err := eachLine(r, func(line string, tooLong bool) {
		if tooLong {
			line = "#"
		}
		lines = append(lines, line)
	})
	return lines, err
}
