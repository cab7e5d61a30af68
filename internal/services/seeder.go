package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tbourn/feedback-dashboard/internal/domain"
)

// SeedReport counts the outcome of a Seed run.
type SeedReport struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
	// Total is the collection size after the run, 0 when it could not be read.
	Total int64 `json:"total"`
}

// Seeder inserts sample feedback into an existing collection.
type Seeder struct {
	Store FeedbackStore
	Now   func() time.Time
}

// Seed inserts every entry whose (user name, comment) pair is not stored
// yet. A missing field only matches a stored entry missing the same field, so
// re-running with the same entries never duplicates them. Entries without a
// creation instant are stamped with the current time.
// The run stops at the first store error; the report covers the entries
// processed so far.
func (s *Seeder) Seed(ctx context.Context, entries []domain.FeedbackDoc) (SeedReport, error) {
	lg := zerolog.Ctx(ctx)
	var rep SeedReport

	for i := range entries {
		doc := entries[i]
		name := deref(doc.UserName)

		exists, err := s.Store.FeedbackExists(ctx, doc.UserName, doc.Comment)
		if err != nil {
			return rep, fmt.Errorf("check entry %d: %w", i, err)
		}
		if exists {
			rep.Skipped++
			lg.Debug().Str("user_name", name).Msg("seed: already present")
			continue
		}

		if doc.CreatedAt == nil {
			now := s.now()
			doc.CreatedAt = &now
		}
		if err := s.Store.CreateFeedback(ctx, &doc); err != nil {
			return rep, fmt.Errorf("insert entry %d: %w", i, err)
		}
		rep.Added++
		lg.Debug().Str("id", doc.ID).Str("user_name", name).Msg("seed: added")
	}

	total, _, err := s.Store.FeedbackStats(ctx)
	if err != nil {
		lg.Warn().Err(err).Msg("seed: count after run")
		return rep, nil
	}
	rep.Total = total
	return rep, nil
}

func (s *Seeder) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
