package domain

// ItemReview is the feedback for a single deck position.
type ItemReview struct {
	Position     int    `json:"position"`
	Strengths    string `json:"strengths"`
	Improvements string `json:"improvements"`
}

// Review is the narrative assessment of a complete deck. It is produced
// on demand and never persisted.
//
// Degraded is set when the generator's output could not be read as a
// structured review; OverallReview then holds the raw text and
// ItemReviews is empty.
type Review struct {
	ItemReviews   []ItemReview `json:"item_reviews"`
	OverallReview string       `json:"overall_review"`
	Degraded      bool         `json:"degraded"`
}
