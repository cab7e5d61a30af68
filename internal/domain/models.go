// Package domain defines the feedback records served by the dashboard, the
// shape they are stored in, and the dashboard users allowed to read them.
// Stored types are mapped with GORM (SQLite) and BSON (MongoDB); the loaded
// Feedback type is what the rest of the application works with.
package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned by stores when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Feedback is one user-submitted rating and comment, as loaded for a
// dashboard session. Values are already defaulted (see Defaults) and the
// record is never modified after loading.
type Feedback struct {
	ID        string    `json:"id"`
	UserName  string    `json:"userName"`
	Comment   string    `json:"comment"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedbackDoc is the stored shape of a feedback entry. Every field except
// the ID is optional: producers of the collection are not trusted to fill
// them in, so absence must survive storage and be resolved at load time.
//
// Fields:
//   - ID: opaque identifier assigned by the store (UUID for SQLite, hex
//     ObjectID or arbitrary string for MongoDB).
//   - UserName: display name of the author, nil when absent.
//   - Comment: free text, nil when absent.
//   - Rating: expected 1..5 but never validated, nil when absent or malformed.
//   - CreatedAt: creation instant, nil when absent.
type FeedbackDoc struct {
	ID        string     `json:"id"                 gorm:"type:varchar(64);primaryKey"`
	UserName  *string    `json:"userName,omitempty" gorm:"type:varchar(255);index:idx_feedback_author,priority:1"`
	Comment   *string    `json:"comment,omitempty"  gorm:"type:text;index:idx_feedback_author,priority:2"`
	Rating    *int       `json:"rating,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty" gorm:"index;autoCreateTime:false"`
}

// TableName returns the database table name for FeedbackDoc.
func (FeedbackDoc) TableName() string { return "feedbacks" }

// Defaults holds the values substituted for missing fields at load time.
type Defaults struct {
	// AnonymousName replaces a missing or empty user name.
	AnonymousName string
	// Now replaces a missing creation instant.
	Now time.Time
}

// Record resolves a stored document into a loaded Feedback. Missing values
// are replaced per d; ratings are passed through unchanged, including values
// outside 1..5.
func (doc FeedbackDoc) Record(d Defaults) Feedback {
	f := Feedback{
		ID:        doc.ID,
		UserName:  d.AnonymousName,
		CreatedAt: d.Now,
	}
	if doc.UserName != nil && *doc.UserName != "" {
		f.UserName = *doc.UserName
	}
	if doc.Comment != nil {
		f.Comment = *doc.Comment
	}
	if doc.Rating != nil {
		f.Rating = *doc.Rating
	}
	if doc.CreatedAt != nil && !doc.CreatedAt.IsZero() {
		f.CreatedAt = *doc.CreatedAt
	}
	return f
}

// User is a dashboard operator allowed to sign in and read feedback.
// Email is unique; only the bcrypt hash of the password is stored.
type User struct {
	ID           string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email"      gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `json:"-"          gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }
