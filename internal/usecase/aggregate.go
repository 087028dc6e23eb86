package usecase

import (
	"sort"
	"strings"

	"github.com/rojanmagar2001/streamcheck/internal/domain"
	"github.com/rojanmagar2001/streamcheck/internal/ports"
)

type Aggregation struct {
	// Combined is the custom set followed by Unique.
	Combined []domain.Entry
	// Unique holds the deduplicated checked entries sorted by display name.
	Unique []domain.Entry
	// Total is the number of checked entries before deduplication.
	Total int
	// Removed counts every dropped repeat, across sources or within one.
	Removed int
}

// Aggregate merges per-source working entries in source order into st, where
// the first entry for a URL wins, sorts the survivors case-insensitively by
// display name (stable) and puts the custom entries in front, untouched.
func Aggregate(st ports.Store, custom []domain.Entry, perSource [][]domain.Entry) Aggregation {
	total := 0
	for _, entries := range perSource {
		for _, e := range entries {
			total++
			st.Add(e)
		}
	}

	unique := st.Entries()
	sort.SliceStable(unique, func(i, j int) bool {
		return strings.ToLower(unique[i].DisplayName) < strings.ToLower(unique[j].DisplayName)
	})

	combined := make([]domain.Entry, 0, len(custom)+len(unique))
	combined = append(combined, custom...)
	combined = append(combined, unique...)

	return Aggregation{
		Combined: combined,
		Unique:   unique,
		Total:    total,
		Removed:  total - len(unique),
	}
}
