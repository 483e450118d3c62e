package transcript

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"coursesum/internal/config"
)

// Extractor locates transcript phrases by selector.
type Extractor struct {
	ContainerSelector string
	PhraseSelector    string
	MinLength         int
}

// New builds an Extractor from the extractor config section.
func New(cfg config.Extractor) Extractor {
	return Extractor{
		ContainerSelector: cfg.ContainerSelector,
		PhraseSelector:    cfg.PhraseSelector,
		MinLength:         cfg.MinLength,
	}
}

// Extract parses an HTML document and returns its transcript text.
func (e Extractor) Extract(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return e.ExtractDocument(doc)
}

// ExtractHTML is Extract over a string.
func (e Extractor) ExtractHTML(page string) (string, error) {
	return e.Extract(strings.NewReader(page))
}

// ExtractDocument returns the joined visible text of every phrase inside the
// first container.
func (e Extractor) ExtractDocument(doc *goquery.Document) (string, error) {
	container := doc.Find(e.ContainerSelector).First()
	if container.Length() == 0 {
		return "", &ExtractionError{Kind: ErrContainerNotFound, Selector: e.ContainerSelector}
	}

	phrases := container.Find(e.PhraseSelector)
	if phrases.Length() == 0 {
		return "", &ExtractionError{Kind: ErrNoPhrases, Selector: e.PhraseSelector}
	}

	parts := make([]string, 0, phrases.Length())
	phrases.Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, VisibleText(s))
	})
	text := Join(parts)

	if n := utf8.RuneCountInString(text); n < e.MinLength {
		return "", &ExtractionError{Kind: ErrTooShort, Length: n}
	}
	return text, nil
}

// Join trims each phrase, drops empty ones, and joins the rest with a single
// space.
func Join(phrases []string) string {
	kept := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
