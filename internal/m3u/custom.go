package m3u

import (
	"fmt"
	"os"
	"strings"

	"github.com/rojanmagar2001/streamcheck/internal/domain"
)

// LoadCustom reads a curated playlist file. URL lines without a preceding
// #EXTINF line get metadata synthesized from defaultGroup and the URL's file
// name. A missing file yields an error wrapping fs.ErrNotExist; callers decide
// whether that matters.
func LoadCustom(path, defaultGroup string) ([]domain.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open custom entries: %w", err)
	}
	defer f.Close()

	lines, err := splitLines(f)
	if err != nil {
		return nil, fmt.Errorf("read custom entries %s: %w", path, err)
	}
	return parseCustom(lines, defaultGroup), nil
}

func parseCustom(lines []string, defaultGroup string) []domain.Entry {
	var out []domain.Entry

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch {
		case line == "":
			continue

		case isMetadata(line):
			j := i + 1
			for j < len(lines) && lines[j] == "" {
				j++
			}
			if j == len(lines) {
				return out
			}
			if strings.HasPrefix(lines[j], "#") {
				// metadata without a URL; let the next line be handled on its own
				i = j - 1
				continue
			}
			out = append(out, domain.NewEntry(line, lines[j]))
			i = j

		case strings.HasPrefix(line, "#"):
			continue

		default:
			name := domain.NameFromURL(line)
			if name == "" {
				name = line
			}
			out = append(out, domain.NewEntry(domain.SynthesizeMetadata(defaultGroup, name), line))
		}
	}
	return out
}
