// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for dashboard users.
//
// Error semantics:
//   - When a user is not found, functions return ErrNotFound.
//   - On other DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/feedback-dashboard/internal/domain"
)

// GetUserByEmail fetches a user by e-mail (case-insensitive), or ErrNotFound.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertUser creates the user or, when the e-mail is already registered,
// replaces its password hash. The stored row is returned.
func UpsertUser(ctx context.Context, db *gorm.DB, email, passwordHash string) (*domain.User, error) {
	var out *domain.User
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		u, err := GetUserByEmail(ctx, tx, email)
		switch {
		case errors.Is(err, ErrNotFound):
			u = &domain.User{
				ID:           uuid.NewString(),
				Email:        normalizeEmail(email),
				PasswordHash: passwordHash,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.Create(u).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			u.PasswordHash = passwordHash
			u.UpdatedAt = now
			if err := tx.Model(u).Updates(map[string]any{
				"password_hash": passwordHash,
				"updated_at":    now,
			}).Error; err != nil {
				return err
			}
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
