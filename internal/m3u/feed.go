package m3u

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrEmptyFeed = errors.New("feed contains no playlist urls")

// LoadFeed reads the list of playlist URLs to check, one per line. Blank
// lines and lines starting with '#' are skipped.
func LoadFeed(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}
	defer f.Close()

	lines, err := splitLines(f)
	if err != nil {
		return nil, fmt.Errorf("read feed %s: %w", path, err)
	}

	var urls []string
	for _, l := range lines {
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		urls = append(urls, l)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyFeed)
	}
	return urls, nil
}
