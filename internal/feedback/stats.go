package feedback

import (
	"math"

	"github.com/tbourn/feedback-dashboard/internal/domain"
)

// Rating thresholds for the high/low buckets. A rating of 3 is in neither.
const (
	HighRating = 4
	LowRating  = 2
)

// Compute aggregates records into a Stats snapshot. The average is rounded to
// one decimal place and is 0 for an empty input.
func Compute(records []domain.Feedback) domain.Stats {
	s := domain.Stats{Total: len(records)}
	if s.Total == 0 {
		return s
	}
	sum := 0
	for _, r := range records {
		sum += r.Rating
		switch {
		case r.Rating >= HighRating:
			s.HighCount++
		case r.Rating <= LowRating:
			s.LowCount++
		}
	}
	s.AverageRating = round1(float64(sum) / float64(s.Total))
	return s
}

// Bucket is the share of one rating value in a view.
type Bucket struct {
	Rating  int     `json:"rating"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Share is a count together with its percentage of the view total.
type Share struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Summary is the extended statistics block: the Stats snapshot plus the
// rating distribution and the positive/neutral/negative breakdown.
type Summary struct {
	domain.Stats
	// Distribution holds one bucket per rating from 5 down to 1. Ratings
	// outside 1..5 are counted in Total only.
	Distribution []Bucket `json:"distribution"`
	Positive     Share    `json:"positive"`
	Neutral      Share    `json:"neutral"`
	Negative     Share    `json:"negative"`
	// MostFrequent is the rating with the highest count; on a tie the lowest
	// rating wins, so a view without ratings in 1..5 reports 1.
	MostFrequent int `json:"most_frequent"`
}

// Summarize computes the full statistics block for records.
func Summarize(records []domain.Feedback) Summary {
	sum := Summary{Stats: Compute(records)}

	var counts [6]int
	for _, r := range records {
		if r.Rating >= 1 && r.Rating <= 5 {
			counts[r.Rating]++
		}
	}

	best := 1
	for rating := 2; rating <= 5; rating++ {
		if counts[rating] > counts[best] {
			best = rating
		}
	}
	sum.MostFrequent = best

	sum.Distribution = make([]Bucket, 0, 5)
	for rating := 5; rating >= 1; rating-- {
		sum.Distribution = append(sum.Distribution, Bucket{
			Rating:  rating,
			Count:   counts[rating],
			Percent: percent(counts[rating], sum.Total),
		})
	}

	pos := counts[4] + counts[5]
	neg := counts[1] + counts[2]
	sum.Positive = Share{Count: pos, Percent: percent(pos, sum.Total)}
	sum.Neutral = Share{Count: counts[3], Percent: percent(counts[3], sum.Total)}
	sum.Negative = Share{Count: neg, Percent: percent(neg, sum.Total)}
	return sum
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(n) * 100 / float64(total))
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
