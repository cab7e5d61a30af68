// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used to report
// the collection size after seeding.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/feedback-dashboard/internal/domain"
)

// FeedbackStats returns aggregate metadata for the feedback collection: the
// total number of documents and the greatest CreatedAt among those that
// have one.
//
// Return values:
//   - count:  total documents
//   - latest: pointer to the newest CreatedAt, or nil if no document has one
//   - err:    database error, if any
func FeedbackStats(ctx context.Context, db *gorm.DB) (count int64, latest *time.Time, err error) {
	if err = db.WithContext(ctx).Model(&domain.FeedbackDoc{}).Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Latest created_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		CreatedAt *time.Time
	}
	err = db.WithContext(ctx).
		Model(&domain.FeedbackDoc{}).
		Select("created_at").
		Where("created_at IS NOT NULL").
		Order("created_at DESC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return 0, nil, err
	}
	return count, row.CreatedAt, nil
}
