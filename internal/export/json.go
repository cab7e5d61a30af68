package export

import (
	"bytes"
	"encoding/json"

	"github.com/tbourn/feedback-dashboard/internal/domain"
)

// TimestampLayout is the ISO-8601 form used for createdAt in JSON exports.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

type jsonRecord struct {
	ID        string `json:"id"`
	UserName  string `json:"userName"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"createdAt"`
}

// MarshalJSON renders records as a 2-space indented JSON array. createdAt is
// written in UTC with millisecond precision. An empty input yields "[]".
func MarshalJSON(records []domain.Feedback) ([]byte, error) {
	out := make([]jsonRecord, 0, len(records))
	for _, r := range records {
		out = append(out, jsonRecord{
			ID:        r.ID,
			UserName:  r.UserName,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt.UTC().Format(TimestampLayout),
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
