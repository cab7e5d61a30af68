package main

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tbourn/feedback-dashboard/internal/domain"
)

//go:embed seed.yaml
var defaultEntries []byte

// entry is one record of a seed file. Every field is optional, matching
// what the dashboard tolerates in stored documents.
type entry struct {
	UserName  *string    `yaml:"userName"`
	Comment   *string    `yaml:"comment"`
	Rating    *int       `yaml:"rating"`
	CreatedAt *time.Time `yaml:"createdAt"`
}

// parseEntries decodes a YAML list of feedback records.
func parseEntries(data []byte) ([]domain.FeedbackDoc, error) {
	var raw []entry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	docs := make([]domain.FeedbackDoc, 0, len(raw))
	for _, e := range raw {
		docs = append(docs, domain.FeedbackDoc{
			UserName:  e.UserName,
			Comment:   e.Comment,
			Rating:    e.Rating,
			CreatedAt: e.CreatedAt,
		})
	}
	return docs, nil
}
