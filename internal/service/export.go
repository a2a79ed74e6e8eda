package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/uuid"
	"github.com/phrazzld/inception-api/internal/domain"
)

const notAnswered = "_Not answered yet._"

var markdownTemplate = template.Must(template.New("deck").Parse(
	`# {{.Title}}
{{- if .Description}}

{{.Description}}
{{- end}}

_Last updated {{.UpdatedAt}}. {{.Filled}} of {{.Total}} questions answered._
{{range .Sections}}
## {{.Position}}. {{.Title}}

_{{.Description}}_

{{.Content}}
{{end}}`))

type markdownView struct {
	Title       string
	Description string
	UpdatedAt   string
	Filled      int
	Total       int
	Sections    []markdownSection
}

type markdownSection struct {
	Position    int
	Title       string
	Description string
	Content     string
}

// RenderMarkdown lays a deck out as a printable Markdown document with one
// section per question in position order. Unanswered positions are kept so
// the printout always shows all ten questions.
func RenderMarkdown(deck *DeckWithItems) (string, error) {
	byPosition := make(map[int]string, len(deck.Items))
	for i := range deck.Items {
		item := &deck.Items[i]
		if item.IsFilled() {
			byPosition[item.Position] = strings.TrimSpace(*item.Content)
		}
	}

	view := markdownView{
		Title:     strings.TrimSpace(deck.Title),
		UpdatedAt: deck.UpdatedAt.Format("2006-01-02"),
		Filled:    deck.FilledCount,
		Total:     domain.DeckSize,
	}
	if deck.Description != nil {
		view.Description = strings.TrimSpace(*deck.Description)
	}

	for _, q := range domain.Questions() {
		content, ok := byPosition[q.Position]
		if !ok {
			content = notAnswered
		}
		view.Sections = append(view.Sections, markdownSection{
			Position:    q.Position,
			Title:       q.Title,
			Description: q.Description,
			Content:     content,
		})
	}

	var buf bytes.Buffer
	if err := markdownTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render deck markdown: %w", err)
	}
	return buf.String(), nil
}

// DeckExport is a rendered deck document.
type DeckExport struct {
	Title    string
	Markdown string
}

// ExportMarkdown implements DeckService.
func (s *deckServiceImpl) ExportMarkdown(ctx context.Context, ownerID, deckID uuid.UUID) (*DeckExport, error) {
	deck, err := s.GetDeck(ctx, ownerID, deckID)
	if err != nil {
		return nil, err
	}

	doc, err := RenderMarkdown(deck)
	if err != nil {
		return nil, NewDeckServiceError("export", "failed to render deck", err)
	}
	return &DeckExport{Title: deck.Title, Markdown: doc}, nil
}
