package domain

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Question is the canonical prompt behind one deck position.
type Question struct {
	Position    int    `yaml:"position"    json:"position"`
	Title       string `yaml:"title"       json:"title"`
	Description string `yaml:"description" json:"description"`
	Guide       string `yaml:"guide"       json:"guide"`
	Example     string `yaml:"example"     json:"example"`
}

type questionCatalog struct {
	Questions []Question `yaml:"questions"`
}

//go:embed questions.yaml
var questionsYAML []byte

var loadCatalog = sync.OnceValues(func() ([]Question, error) {
	return ParseQuestions(questionsYAML)
})

// ParseQuestions decodes a question catalog and checks that it defines
// every position exactly once, ordered 1..10.
func ParseQuestions(data []byte) ([]Question, error) {
	var catalog questionCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse question catalog: %w", err)
	}

	if len(catalog.Questions) != DeckSize {
		return nil, fmt.Errorf("question catalog must define %d questions, got %d",
			DeckSize, len(catalog.Questions))
	}

	for i, q := range catalog.Questions {
		if q.Position != MinPosition+i {
			return nil, fmt.Errorf("question %d has position %d, want %d", i, q.Position, MinPosition+i)
		}
		if q.Title == "" {
			return nil, fmt.Errorf("question %d has no title", q.Position)
		}
	}

	return catalog.Questions, nil
}

// Questions returns the built-in catalog ordered by position.
// The returned slice is a copy and may be modified by the caller.
func Questions() []Question {
	questions, err := loadCatalog()
	if err != nil {
		// ALLOW-PANIC: the catalog is compiled into the binary
		panic(err)
	}
	return append([]Question(nil), questions...)
}

// QuestionAt returns the catalog entry for a position.
func QuestionAt(position int) (Question, error) {
	if err := ValidatePosition(position); err != nil {
		return Question{}, err
	}
	return Questions()[position-MinPosition], nil
}
