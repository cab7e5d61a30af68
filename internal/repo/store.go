package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/feedback-dashboard/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist. It is the
// same sentinel the other stores use, so callers can match it with errors.Is
// regardless of the backing database.
var ErrNotFound = domain.ErrNotFound

// Store adapts the repository functions to the service-layer store
// interfaces (services.FeedbackStore and services.UserStore).
type Store struct {
	DB *gorm.DB
}

// NewStore wraps db.
func NewStore(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) ListFeedback(ctx context.Context) ([]domain.FeedbackDoc, error) {
	return ListFeedback(ctx, s.DB)
}

func (s *Store) FeedbackStats(ctx context.Context) (int64, *time.Time, error) {
	return FeedbackStats(ctx, s.DB)
}

func (s *Store) FeedbackExists(ctx context.Context, userName, comment *string) (bool, error) {
	return FeedbackExists(ctx, s.DB, userName, comment)
}

func (s *Store) CreateFeedback(ctx context.Context, doc *domain.FeedbackDoc) error {
	return CreateFeedback(ctx, s.DB, doc)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return GetUserByEmail(ctx, s.DB, email)
}

func (s *Store) UpsertUser(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	return UpsertUser(ctx, s.DB, email, passwordHash)
}

// Close releases the underlying connection pool.
func (s *Store) Close(context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
