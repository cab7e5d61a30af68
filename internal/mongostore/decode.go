package mongostore

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tbourn/feedback-dashboard/internal/domain"
)

// rawFeedback captures fields without committing to their BSON types.
// Absent fields decode to a zero RawValue.
type rawFeedback struct {
	ID        bson.RawValue `bson:"_id"`
	UserName  bson.RawValue `bson:"userName"`
	Comment   bson.RawValue `bson:"comment"`
	Rating    bson.RawValue `bson:"rating"`
	CreatedAt bson.RawValue `bson:"createdAt"`
}

func (r rawFeedback) doc() domain.FeedbackDoc {
	return domain.FeedbackDoc{
		ID:        decodeID(r.ID),
		UserName:  decodeString(r.UserName),
		Comment:   decodeString(r.Comment),
		Rating:    decodeRating(r.Rating),
		CreatedAt: decodeTime(r.CreatedAt),
	}
}

func decodeID(v bson.RawValue) string {
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex()
	}
	if s, ok := v.StringValueOK(); ok {
		return s
	}
	if v.Type == 0 {
		return ""
	}
	// Numeric or other exotic ids keep their extended-JSON text.
	return v.String()
}

func decodeString(v bson.RawValue) *string {
	if s, ok := v.StringValueOK(); ok {
		return &s
	}
	return nil
}

// decodeRating accepts any numeric type; fractions are truncated toward zero.
func decodeRating(v bson.RawValue) *int {
	var n int
	switch v.Type {
	case bson.TypeInt32:
		n = int(v.Int32())
	case bson.TypeInt64:
		n = int(v.Int64())
	case bson.TypeDouble:
		f := v.Double()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		n = int(math.Trunc(f))
	default:
		return nil
	}
	return &n
}

func decodeTime(v bson.RawValue) *time.Time {
	var t time.Time
	switch v.Type {
	case bson.TypeDateTime:
		t = time.UnixMilli(v.DateTime()).UTC()
	case bson.TypeTimestamp:
		sec, _ := v.Timestamp()
		t = time.Unix(int64(sec), 0).UTC()
	case bson.TypeString:
		parsed, err := time.Parse(time.RFC3339Nano, v.StringValue())
		if err != nil {
			return nil
		}
		t = parsed.UTC()
	default:
		return nil
	}
	return &t
}
