package domain

import "strings"

// Entry is one playlist item: an optional #EXTINF line and the stream URL.
// DisplayName is derived once by NewEntry and is never empty.
type Entry struct {
	Metadata    string
	URL         string
	DisplayName string
}

// NewEntry builds an Entry, deriving its display name from the metadata title,
// then the URL's last path segment, then the URL itself.
func NewEntry(metadata, rawURL string) Entry {
	metadata = strings.TrimSpace(metadata)
	rawURL = strings.TrimSpace(rawURL)

	name := ""
	if metadata != "" {
		name = ParseDescriptor(metadata).Title
	}
	if name == "" {
		name = NameFromURL(rawURL)
	}
	if name == "" {
		name = rawURL
	}

	return Entry{
		Metadata:    metadata,
		URL:         rawURL,
		DisplayName: name,
	}
}

// HasMetadata reports whether the entry came with its own #EXTINF line.
func (e Entry) HasMetadata() bool {
	return e.Metadata != ""
}

// NameFromURL returns the last path segment of rawURL with any query string
// stripped. It returns "" when the URL ends in a slash.
func NameFromURL(rawURL string) string {
	s := rawURL
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
