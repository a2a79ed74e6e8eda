package deck_review

import (
	"fmt"
	"strings"

	"github.com/phrazzld/inception-api/internal/domain"
	"github.com/phrazzld/inception-api/internal/generation"
)

const systemPrompt = `You are an experienced agile coach reviewing an Inception Deck, the ten
questions a team answers before starting a project.

Review the deck as a whole and each answer on its own. Judge:
- consistency between the answers,
- how concrete and specific each answer is,
- whether the plan is feasible,
- whether anything important is missing.

Respond with JSON only, in exactly this shape:
{
  "item_reviews": [
    {"position": 1, "strengths": "...", "improvements": "..."}
  ],
  "overall_review": "..."
}

Include one entry in item_reviews for every position from 1 to 10.
Write in the same language as the deck.`

// buildPrompt lays out the deck for review: the deck title followed by each
// question's canonical title and description and the team's answer, in
// position order. The deck must be complete.
func buildPrompt(deck *domain.Deck, items []domain.Item) generation.Prompt {
	byPosition := make(map[int]string, len(items))
	for i := range items {
		if items[i].Content != nil {
			byPosition[items[i].Position] = strings.TrimSpace(*items[i].Content)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Project: %s\n", strings.TrimSpace(deck.Title))
	if deck.Description != nil && strings.TrimSpace(*deck.Description) != "" {
		fmt.Fprintf(&b, "\n%s\n", strings.TrimSpace(*deck.Description))
	}

	for _, q := range domain.Questions() {
		fmt.Fprintf(&b, "\n## %d. %s (%s)\n%s\n", q.Position, q.Title, q.Description, byPosition[q.Position])
	}

	return generation.Prompt{System: systemPrompt, User: b.String()}
}
