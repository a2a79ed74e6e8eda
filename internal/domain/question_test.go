package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionsCatalog(t *testing.T) {
	questions := Questions()
	require.Len(t, questions, DeckSize)

	for i, q := range questions {
		assert.Equal(t, i+1, q.Position)
		assert.NotEmpty(t, q.Title)
		assert.NotEmpty(t, q.Description)
		assert.NotEmpty(t, q.Guide)
		assert.NotEmpty(t, q.Example)
	}

	assert.Equal(t, "Elevator Pitch", questions[1].Title)

	// Callers get their own copy.
	questions[0].Title = "changed"
	assert.NotEqual(t, "changed", Questions()[0].Title)
}

func TestQuestionAt(t *testing.T) {
	q, err := QuestionAt(4)
	require.NoError(t, err)
	assert.Equal(t, 4, q.Position)

	_, err = QuestionAt(0)
	assert.ErrorIs(t, err, ErrInvalidPosition)
	_, err = QuestionAt(11)
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestParseQuestionsRejectsBadCatalogs(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "questions: [unterminated"},
		{"too few", "questions:\n  - position: 1\n    title: One\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuestions([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
