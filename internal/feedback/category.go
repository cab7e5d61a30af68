package feedback

// Category is the quality label derived from a rating.
type Category string

const (
	CategoryExcellent Category = "excellent"
	CategoryVeryGood  Category = "very good"
	CategoryRegular   Category = "regular"
	CategoryBad       Category = "bad"
	CategoryTerrible  Category = "terrible"
)

// CategoryFor labels a rating. Thresholds are checked from the top, so
// ratings above 5 are excellent and anything below 2 (including 0) is
// terrible.
func CategoryFor(rating int) Category {
	switch {
	case rating >= 5:
		return CategoryExcellent
	case rating >= 4:
		return CategoryVeryGood
	case rating >= 3:
		return CategoryRegular
	case rating >= 2:
		return CategoryBad
	default:
		return CategoryTerrible
	}
}
