package content

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"shopmigrate/converter/internal/config"
	"shopmigrate/converter/internal/domain"
	"shopmigrate/converter/internal/normalize"

	"github.com/PuerkitoBio/goquery"
)

// Normalizer cleans product descriptions before export
type Normalizer struct {
	stripSelector string
	shortLength   int
}

func NewNormalizer(cfg config.ContentConfig) *Normalizer {
	return &Normalizer{
		stripSelector: strings.Join(cfg.StripTags, ", "),
		shortLength:   cfg.ShortDescriptionLength,
	}
}

// Normalize strips unwanted markup from the description and derives a missing short description
func (n *Normalizer) Normalize(p *domain.Product) domain.Findings {
	var findings domain.Findings

	description := strings.TrimSpace(p.Description)
	if description == "" {
		return findings
	}

	text := description
	if looksLikeHTML(description) {
		html, plain, err := n.clean(description)
		if err != nil {
			findings.AddWarning(domain.FindingContent, p.SKU, "description could not be parsed: %v", err)
			return findings
		}
		p.Description = html
		text = plain
	}

	text = normalize.CollapseSpaces(text)
	if text == "" {
		findings.AddWarning(domain.FindingContent, p.SKU, "description contains markup but no text")
		return findings
	}

	if strings.TrimSpace(p.ShortDescription) == "" && n.shortLength > 0 {
		p.ShortDescription = truncateWords(text, n.shortLength)
	}

	return findings
}

func (n *Normalizer) clean(description string) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	if n.stripSelector != "" {
		doc.Find(n.stripSelector).Remove()
	}

	body := doc.Find("body")
	html, err := body.Html()
	if err != nil {
		return "", "", fmt.Errorf("failed to render HTML: %w", err)
	}

	return strings.TrimSpace(html), body.Text(), nil
}

func looksLikeHTML(s string) bool {
	return strings.Contains(s, "<") && strings.Contains(s, ">")
}

// truncateWords cuts s to at most limit runes on a word boundary and marks the cut with an ellipsis
func truncateWords(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	cut := string(runes[:limit])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,.;:-") + "…"
}
