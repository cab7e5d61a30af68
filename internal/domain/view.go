package domain

import "strings"

// SortKey selects the ordering of the active view.
type SortKey string

const (
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
	SortRatingDesc SortKey = "rating_desc"
	SortRatingAsc  SortKey = "rating_asc"
)

// ParseSortKey maps a query value to a SortKey. Besides the canonical names it
// accepts createdAt_desc / createdAt_asc. Anything else yields SortNewest.
func ParseSortKey(s string) SortKey {
	switch strings.TrimSpace(s) {
	case "oldest", "createdAt_asc":
		return SortOldest
	case "rating_desc":
		return SortRatingDesc
	case "rating_asc":
		return SortRatingAsc
	default:
		return SortNewest
	}
}

// FilterSortOptions drives the filter-sort engine.
type FilterSortOptions struct {
	// SearchTerm is matched case-insensitively against user name and comment.
	// An empty term keeps every record.
	SearchTerm string  `json:"q"`
	SortKey    SortKey `json:"sort"`
}

// Stats is the aggregate snapshot of the active view.
type Stats struct {
	Total         int     `json:"total"`
	AverageRating float64 `json:"average_rating"`
	HighCount     int     `json:"high_count"`
	LowCount      int     `json:"low_count"`
}
