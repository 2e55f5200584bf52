package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"creatorshorts/internal/core/domain"
	"creatorshorts/internal/core/ports"
)

const (
	// MaxTitleRunes is the platform's title limit.
	MaxTitleRunes = 100

	// FallbackDescription is used whenever generation fails.
	FallbackDescription = "#shorts #viral"

	metadataPrompt = `Write metadata for a YouTube Short cut from a video titled %q.
Give a short, catchy title under 60 characters and a description with exactly 5 hashtags.
Format: the title on line 1, the description on the remaining lines. No labels, no quotes.`
)

// MetadataGenerator implements ports.MetadataGenerator on top of a text generator.
type MetadataGenerator struct {
	llm     ports.TextGenerator
	timeout time.Duration
}

// NewMetadataGenerator creates a new MetadataGenerator. A nil llm always falls back.
func NewMetadataGenerator(llm ports.TextGenerator, timeout time.Duration) *MetadataGenerator {
	return &MetadataGenerator{llm: llm, timeout: timeout}
}

// Generate asks the model for a title and description. It never fails: any
// error or unusable reply yields FallbackMetadata.
func (g *MetadataGenerator) Generate(ctx context.Context, originalTitle string) domain.Metadata {
	if g.llm == nil {
		return FallbackMetadata(originalTitle)
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	raw, err := g.llm.Complete(ctx, fmt.Sprintf(metadataPrompt, originalTitle))
	if err != nil {
		return FallbackMetadata(originalTitle)
	}
	meta, ok := ParseMetadata(raw)
	if !ok {
		return FallbackMetadata(originalTitle)
	}
	return meta
}

// ParseMetadata splits a reply into title (first line) and description (the rest).
func ParseMetadata(raw string) (domain.Metadata, bool) {
	raw = stripFences(raw)
	first, rest, _ := strings.Cut(raw, "\n")

	title := strings.TrimSpace(first)
	if title == "" {
		return domain.Metadata{}, false
	}
	return domain.Metadata{
		Title:       Truncate(title, MaxTitleRunes),
		Description: strings.TrimSpace(rest),
	}, true
}

// FallbackMetadata is the deterministic result used when generation fails.
func FallbackMetadata(originalTitle string) domain.Metadata {
	return domain.Metadata{
		Title:       Truncate(originalTitle, MaxTitleRunes),
		Description: FallbackDescription,
		Fallback:    true,
	}
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// stripFences removes markdown code fences from model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.Contains(s[:i], " ") {
		s = s[i+1:] // language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
