package content

import (
	"testing"

	"shopmigrate/converter/internal/config"
	"shopmigrate/converter/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNormalizer(shortLength int) *Normalizer {
	return NewNormalizer(config.ContentConfig{
		StripTags:              []string{"script", "style", "iframe"},
		ShortDescriptionLength: shortLength,
	})
}

func TestNormalizeStripsUnwantedTags(t *testing.T) {
	p := &domain.Product{
		SKU:         "A",
		Description: `<p>Lehké <b>běžecké</b> tričko.</p><script>alert(1)</script><style>p{}</style>`,
	}

	findings := newNormalizer(160).Normalize(p)

	assert.True(t, findings.IsEmpty())
	assert.Equal(t, `<p>Lehké <b>běžecké</b> tričko.</p>`, p.Description)
	assert.Equal(t, "Lehké běžecké tričko.", p.ShortDescription)
}

func TestNormalizeKeepsExistingShortDescription(t *testing.T) {
	p := &domain.Product{SKU: "A", Description: "Dlouhý popis", ShortDescription: "Krátký"}

	newNormalizer(160).Normalize(p)

	assert.Equal(t, "Krátký", p.ShortDescription)
	assert.Equal(t, "Dlouhý popis", p.Description)
}

func TestNormalizeTruncatesOnWordBoundary(t *testing.T) {
	p := &domain.Product{SKU: "A", Description: "Prodyšné tričko z recyklovaného polyesteru pro každodenní trénink"}

	newNormalizer(30).Normalize(p)

	assert.Equal(t, "Prodyšné tričko z…", p.ShortDescription)
}

func TestNormalizeReportsMarkupWithoutText(t *testing.T) {
	p := &domain.Product{SKU: "A", Description: `<iframe src="https://video.example.com"></iframe>`}

	findings := newNormalizer(160).Normalize(p)

	require.Len(t, findings.Warnings, 1)
	assert.Equal(t, domain.FindingContent, findings.Warnings[0].Kind)
	assert.Empty(t, p.ShortDescription)
}

func TestNormalizeIgnoresEmptyDescription(t *testing.T) {
	p := &domain.Product{SKU: "A"}

	assert.True(t, newNormalizer(160).Normalize(p).IsEmpty())
}
