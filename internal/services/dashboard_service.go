// Package services – DashboardService
//
// This file implements the DashboardService, which turns the stored feedback
// collection into what the dashboard shows: the filtered and sorted active
// view with its statistics, the full statistical summary, and downloadable
// exports. Every call loads the collection once, applies load-time defaults,
// and then runs the pure pipeline of the feedback and export packages.
//
// Load failures are never fatal for read views: the caller receives an empty
// view carrying a notice. Exports, which must not produce partial files,
// report failures with the sentinel errors in errors.go.
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tbourn/feedback-dashboard/internal/domain"
	"github.com/tbourn/feedback-dashboard/internal/export"
	"github.com/tbourn/feedback-dashboard/internal/feedback"
	"github.com/tbourn/feedback-dashboard/internal/metrics"
)

// FeedbackStore is the storage contract for the feedback collection.
// Implementations exist for SQLite (repo.Store) and MongoDB (mongostore.Store).
type FeedbackStore interface {
	// ListFeedback returns the whole collection, in no particular order.
	ListFeedback(ctx context.Context) ([]domain.FeedbackDoc, error)

	// FeedbackStats returns the number of stored entries and the newest
	// creation instant (nil when no entry has one).
	FeedbackStats(ctx context.Context) (int64, *time.Time, error)

	// FeedbackExists reports whether an entry with this author and comment
	// exists. A nil value matches only entries where that field is absent.
	FeedbackExists(ctx context.Context, userName, comment *string) (bool, error)

	// CreateFeedback inserts doc, assigning an ID when empty.
	CreateFeedback(ctx context.Context, doc *domain.FeedbackDoc) error
}

// FeedbackView is the active view returned to the dashboard.
type FeedbackView struct {
	Feedbacks []domain.Feedback `json:"feedbacks"`
	Stats     domain.Stats      `json:"stats"`
	// TotalLoaded is the size of the collection before filtering.
	TotalLoaded int    `json:"total_loaded"`
	Notice      string `json:"notice,omitempty"`

	// ETag is a weak validator derived from the view content. Empty when
	// the collection could not be loaded.
	ETag string `json:"-"`
}

// SummaryView is the statistical summary of the active view.
type SummaryView struct {
	feedback.Summary
	Notice string `json:"notice,omitempty"`
}

// ExportResult is a rendered export and the number of records it contains.
type ExportResult struct {
	*export.Payload
	Count int
}

// DashboardService serves the dashboard views and exports.
type DashboardService struct {
	// Store is the feedback collection.
	Store FeedbackStore

	// AnonymousName replaces missing user names at load time.
	AnonymousName string
	// Location is the time zone of dates written into exports.
	Location *time.Location
	// FetchTimeout bounds each store read; zero disables the bound.
	FetchTimeout time.Duration

	// Now is the clock used for load-time defaults and file names.
	Now func() time.Time
}

// NewDashboardService constructs a DashboardService with default settings.
func NewDashboardService(store FeedbackStore) *DashboardService {
	return &DashboardService{
		Store:         store,
		AnonymousName: "Anonymous user",
		Location:      time.UTC,
		FetchTimeout:  10 * time.Second,
		Now:           time.Now,
	}
}

// View loads the collection and returns the active view for opts together
// with its statistics. A load failure yields an empty view with a notice.
func (s *DashboardService) View(ctx context.Context, opts domain.FilterSortOptions) *FeedbackView {
	records, err := s.load(ctx)
	if err != nil {
		return &FeedbackView{Feedbacks: []domain.Feedback{}, Notice: ErrLoadFailed.Error()}
	}
	view := feedback.Apply(records, opts)
	return &FeedbackView{
		Feedbacks:   view,
		Stats:       feedback.Compute(view),
		TotalLoaded: len(records),
		ETag:        viewTag(view, len(records)),
	}
}

// Summary returns the distribution summary of the active view. A load
// failure yields an empty summary with a notice.
func (s *DashboardService) Summary(ctx context.Context, opts domain.FilterSortOptions) *SummaryView {
	records, err := s.load(ctx)
	if err != nil {
		return &SummaryView{Summary: feedback.Summarize(nil), Notice: ErrLoadFailed.Error()}
	}
	return &SummaryView{Summary: feedback.Summarize(feedback.Apply(records, opts))}
}

// Export renders the active view in format.
//
// Errors:
//   - ErrLoadFailed when the collection cannot be read.
//   - ErrNothingToExport when the active view is empty.
//   - export.ErrUnknownFormat for an unsupported format.
//   - ErrExportFailed when the serializer fails.
func (s *DashboardService) Export(ctx context.Context, opts domain.FilterSortOptions, format export.Format) (*ExportResult, error) {
	records, err := s.load(ctx)
	if err != nil {
		metrics.ObserveExport(string(format), metrics.OutcomeError, 0)
		return nil, err
	}
	view := feedback.Apply(records, opts)
	if len(view) == 0 {
		metrics.ObserveExport(string(format), metrics.OutcomeEmpty, 0)
		return nil, ErrNothingToExport
	}

	start := time.Now()
	p, err := export.Render(view, format, export.Options{Location: s.Location, Now: s.now()})
	if err != nil {
		metrics.ObserveExport(string(format), metrics.OutcomeError, 0)
		if errors.Is(err, export.ErrUnknownFormat) {
			return nil, err
		}
		zerolog.Ctx(ctx).Error().Err(err).Str("format", string(format)).Msg("export feedback")
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	metrics.ObserveExport(string(format), metrics.OutcomeSuccess, time.Since(start))
	return &ExportResult{Payload: p, Count: len(view)}, nil
}

// viewTag hashes every field of the active view plus the collection size,
// so any edit to a listed record changes the tag.
func viewTag(view []domain.Feedback, total int) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d\n", total)
	for _, f := range view {
		fmt.Fprintf(h, "%q\x00%q\x00%q\x00%d\x00%d\n",
			f.ID, f.UserName, f.Comment, f.Rating, f.CreatedAt.UnixNano())
	}
	return fmt.Sprintf(`W/"feedbacks:%d:%s"`, len(view), hex.EncodeToString(h.Sum(nil)[:12]))
}

// load reads the collection once and resolves every entry with the
// load-time defaults.
func (s *DashboardService) load(ctx context.Context) ([]domain.Feedback, error) {
	fctx, cancel := s.withTimeout(ctx)
	defer cancel()

	docs, err := s.Store.ListFeedback(fctx)
	metrics.ObserveLoad(len(docs), err)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("load feedback")
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	d := domain.Defaults{AnonymousName: s.AnonymousName, Now: s.now()}
	out := make([]domain.Feedback, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Record(d))
	}
	return out, nil
}

func (s *DashboardService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.FetchTimeout)
}

func (s *DashboardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
