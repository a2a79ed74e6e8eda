package deck_review

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/phrazzld/inception-api/internal/domain"
)

// reviewDocument is the JSON shape requested from the generator. Models
// sometimes answer in camelCase, so the common aliases are accepted too.
type reviewDocument struct {
	ItemReviews      []itemReviewDocument `json:"item_reviews"`
	ItemReviewsCamel []itemReviewDocument `json:"itemReviews"`
	Overall          *string              `json:"overall_review"`
	OverallCamel     *string              `json:"overallReview"`
}

type itemReviewDocument struct {
	Position     *int   `json:"position"`
	ItemNumber   *int   `json:"itemNumber"`
	Strengths    string `json:"strengths"`
	GoodPoints   string `json:"goodPoints"`
	Improvements string `json:"improvements"`
}

func (d itemReviewDocument) position() (int, bool) {
	switch {
	case d.Position != nil:
		return *d.Position, true
	case d.ItemNumber != nil:
		return *d.ItemNumber, true
	}
	return 0, false
}

// parseReview reads the generator's text as a structured review.
//
// Entries with a missing or out-of-range position are dropped, the first
// entry wins when a position repeats, and the result is ordered by
// position. When the text is not a JSON object of the expected shape the
// review degrades: OverallReview holds the raw text and ItemReviews is
// empty.
func parseReview(raw string) *domain.Review {
	var doc reviewDocument
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &doc); err != nil {
		return degraded(raw)
	}

	entries := doc.ItemReviews
	if entries == nil {
		entries = doc.ItemReviewsCamel
	}
	overall := doc.Overall
	if overall == nil {
		overall = doc.OverallCamel
	}
	if entries == nil && overall == nil {
		return degraded(raw)
	}

	seen := make(map[int]bool, domain.DeckSize)
	reviews := make([]domain.ItemReview, 0, len(entries))
	for _, entry := range entries {
		position, ok := entry.position()
		if !ok || domain.ValidatePosition(position) != nil || seen[position] {
			continue
		}
		seen[position] = true

		strengths := entry.Strengths
		if strengths == "" {
			strengths = entry.GoodPoints
		}
		reviews = append(reviews, domain.ItemReview{
			Position:     position,
			Strengths:    strengths,
			Improvements: entry.Improvements,
		})
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].Position < reviews[j].Position })

	review := &domain.Review{ItemReviews: reviews}
	if overall != nil {
		review.OverallReview = *overall
	}
	return review
}

func degraded(raw string) *domain.Review {
	return &domain.Review{
		ItemReviews:   []domain.ItemReview{},
		OverallReview: raw,
		Degraded:      true,
	}
}

// stripCodeFence removes a surrounding Markdown code fence such as
// ```json ... ```.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}
