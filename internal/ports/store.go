package ports

import "github.com/rojanmagar2001/streamcheck/internal/domain"

// Store is the working set of verified entries, keyed by URL.
type Store interface {
	Add(e domain.Entry) bool // false if the URL was already present
	Len() int
	Entries() []domain.Entry // insertion order
}
