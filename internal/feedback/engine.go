// Package feedback turns a loaded feedback collection into the active
// dashboard view: it filters by a free-text term, orders the result by one of
// the supported sort keys and aggregates statistics over it.
//
// Everything here is pure and synchronous. Inputs are never modified and
// every function returns freshly allocated values, so callers may share the
// loaded collection between views without copying it first.
package feedback

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/feedback-dashboard/internal/domain"
)

// Apply returns the active view: records matching opts.SearchTerm, ordered by
// opts.SortKey. The result is a new slice (never nil) and records itself is
// left untouched.
func Apply(records []domain.Feedback, opts domain.FilterSortOptions) []domain.Feedback {
	out := Filter(records, opts.SearchTerm)
	sortInPlace(out, opts.SortKey)
	return out
}

// Filter keeps the records whose user name or comment contains term,
// ignoring case. An empty term keeps everything. The term is used verbatim,
// so surrounding whitespace is significant.
func Filter(records []domain.Feedback, term string) []domain.Feedback {
	out := make([]domain.Feedback, 0, len(records))
	if term == "" {
		return append(out, records...)
	}

	// Casers carry state; one per call keeps Filter safe for concurrent use.
	lower := cases.Lower(language.Und)
	needle := lower.String(term)
	for _, r := range records {
		if strings.Contains(lower.String(r.UserName), needle) ||
			strings.Contains(lower.String(r.Comment), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Sort returns a copy of records ordered by key. Ordering is stable: records
// that compare equal keep their relative input order.
func Sort(records []domain.Feedback, key domain.SortKey) []domain.Feedback {
	out := make([]domain.Feedback, len(records))
	copy(out, records)
	sortInPlace(out, key)
	return out
}

func sortInPlace(rs []domain.Feedback, key domain.SortKey) {
	var less func(i, j int) bool
	switch key {
	case domain.SortOldest:
		less = func(i, j int) bool { return millis(rs[i].CreatedAt) < millis(rs[j].CreatedAt) }
	case domain.SortRatingDesc:
		less = func(i, j int) bool { return rs[i].Rating > rs[j].Rating }
	case domain.SortRatingAsc:
		less = func(i, j int) bool { return rs[i].Rating < rs[j].Rating }
	default:
		less = func(i, j int) bool { return millis(rs[i].CreatedAt) > millis(rs[j].CreatedAt) }
	}
	sort.SliceStable(rs, less)
}

// millis compares instants at millisecond precision; the zero time counts as
// the epoch.
func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
