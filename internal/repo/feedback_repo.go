// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the feedback
// collection.
//
// The repository follows a "thin" approach: it reads and writes stored
// documents as they are, leaving defaulting and every view concern to the
// services and feedback packages. Missing columns stay NULL so the loader can
// tell "absent" apart from "empty".
//
// Functions:
//
//   - ListFeedback(ctx, db) -> []domain.FeedbackDoc, error
//     Returns the whole collection in storage order.
//
//   - FeedbackExists(ctx, db, userName, comment) -> bool, error
//     Reports whether a document with exactly this author/comment pair exists.
//
//   - CreateFeedback(ctx, db, doc) -> error
//     Inserts a document, assigning a UUID when doc.ID is empty.
//
// Usage:
//
//	docs, err := repo.ListFeedback(ctx, db)
//	if err != nil {
//	    // surface as a load failure; there are no retries
//	}
package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/feedback-dashboard/internal/domain"
)

// ListFeedback returns every stored feedback document. No ordering is
// applied; ordering is a view concern.
func ListFeedback(ctx context.Context, db *gorm.DB) ([]domain.FeedbackDoc, error) {
	var docs []domain.FeedbackDoc
	if err := db.WithContext(ctx).Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// FeedbackExists reports whether a document with the given user name and
// comment is already stored. It backs idempotent seeding. A nil argument
// matches NULL, so entries without an author are found again on re-runs.
func FeedbackExists(ctx context.Context, db *gorm.DB, userName, comment *string) (bool, error) {
	q := db.WithContext(ctx).Model(&domain.FeedbackDoc{})
	q = whereNullable(q, "user_name", userName)
	q = whereNullable(q, "comment", comment)

	var n int64
	err := q.Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func whereNullable(q *gorm.DB, column string, v *string) *gorm.DB {
	if v == nil {
		return q.Where(column + " IS NULL")
	}
	return q.Where(column+" = ?", *v)
}

// CreateFeedback inserts doc. A missing ID is replaced with a fresh UUID and
// written back to doc. Optional fields are stored as given, nil included.
func CreateFeedback(ctx context.Context, db *gorm.DB, doc *domain.FeedbackDoc) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(doc).Error
}
