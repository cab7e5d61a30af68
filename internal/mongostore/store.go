// Package mongostore is the MongoDB-backed implementation of the feedback and
// user stores. Feedback documents are written by other producers and are not
// trusted to be well-formed, so every field is decoded leniently: a missing
// or mistyped field becomes nil on domain.FeedbackDoc and is defaulted by the
// service at load time.
//
// Expected feedback document shape:
//
//	{ _id: ObjectId | string, userName: string, comment: string,
//	  rating: int | long | double, createdAt: date | timestamp | RFC 3339 string }
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tbourn/feedback-dashboard/internal/domain"
)

// UsersCollection holds dashboard users next to the feedback collection.
const UsersCollection = "users"

// Store reads and writes feedback and users in one MongoDB database.
type Store struct {
	client    *mongo.Client
	feedbacks *mongo.Collection
	users     *mongo.Collection
}

// pingTimeout bounds the connection check in Connect.
var pingTimeout = 10 * time.Second

// Connect dials uri, verifies the connection with a ping that gives up after
// ten seconds (or earlier if ctx ends) and returns a Store over
// database/collection.
func Connect(ctx context.Context, uri, database, collection string) (*Store, error) {
	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	s := New(client.Database(database), collection)
	s.client = client
	return s, nil
}

// New returns a Store over an already connected database. Close is a no-op
// for stores built this way.
func New(db *mongo.Database, collection string) *Store {
	return &Store{
		feedbacks: db.Collection(collection),
		users:     db.Collection(UsersCollection),
	}
}

// Close disconnects the client opened by Connect.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes used by seeding, seed reports and login.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.feedbacks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userName", Value: 1}, {Key: "comment", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("feedback indexes: %w", err)
	}
	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	return nil
}

// ListFeedback returns every document of the feedback collection.
func (s *Store) ListFeedback(ctx context.Context) ([]domain.FeedbackDoc, error) {
	cur, err := s.feedbacks.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var raws []rawFeedback
	if err := cur.All(ctx, &raws); err != nil {
		return nil, err
	}
	docs := make([]domain.FeedbackDoc, 0, len(raws))
	for _, r := range raws {
		docs = append(docs, r.doc())
	}
	return docs, nil
}

// FeedbackStats returns the document count and the newest createdAt among
// documents that store it as a date.
func (s *Store) FeedbackStats(ctx context.Context) (int64, *time.Time, error) {
	count, err := s.feedbacks.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	var r rawFeedback
	err = s.feedbacks.FindOne(ctx,
		bson.M{"createdAt": bson.M{"$type": "date"}},
		options.FindOne().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetProjection(bson.D{{Key: "createdAt", Value: 1}}),
	).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return count, nil, nil
	}
	if err != nil {
		return 0, nil, err
	}
	return count, decodeTime(r.CreatedAt), nil
}

// FeedbackExists reports whether a document with this exact author/comment
// pair is stored. A nil value matches a null or missing field.
func (s *Store) FeedbackExists(ctx context.Context, userName, comment *string) (bool, error) {
	n, err := s.feedbacks.CountDocuments(ctx,
		bson.M{"userName": nullable(userName), "comment": nullable(comment)},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateFeedback inserts doc, writing only the fields that are set. A missing
// ID becomes a fresh ObjectID whose hex form is written back to doc.
func (s *Store) CreateFeedback(ctx context.Context, doc *domain.FeedbackDoc) error {
	var id any = doc.ID
	if doc.ID == "" {
		oid := bson.NewObjectID()
		id, doc.ID = oid, oid.Hex()
	}
	d := bson.D{{Key: "_id", Value: id}}
	if doc.UserName != nil {
		d = append(d, bson.E{Key: "userName", Value: *doc.UserName})
	}
	if doc.Comment != nil {
		d = append(d, bson.E{Key: "comment", Value: *doc.Comment})
	}
	if doc.Rating != nil {
		d = append(d, bson.E{Key: "rating", Value: *doc.Rating})
	}
	if doc.CreatedAt != nil {
		d = append(d, bson.E{Key: "createdAt", Value: bson.NewDateTimeFromTime(*doc.CreatedAt)})
	}
	_, err := s.feedbacks.InsertOne(ctx, d)
	return err
}

type userDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func (u userDoc) user() *domain.User {
	return &domain.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// GetUserByEmail fetches a user by e-mail (case-insensitive), or
// domain.ErrNotFound.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u userDoc
	err := s.users.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u.user(), nil
}

// UpsertUser creates the user or replaces the password hash of an existing one.
func (s *Store) UpsertUser(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	email = normalizeEmail(email)
	now := time.Now().UTC()
	_, err := s.users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$set":         bson.M{"passwordHash": passwordHash, "updatedAt": now},
			"$setOnInsert": bson.M{"_id": uuid.NewString(), "email": email, "createdAt": now},
		},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return nil, err
	}
	return s.GetUserByEmail(ctx, email)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// nullable turns a nil pointer into a BSON null filter value.
func nullable(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
