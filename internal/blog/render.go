package blog

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	excerptMaxLen  = 160
	wordsPerMinute = 200
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	// posts are written by admins, but still rendered through the UGC policy
	htmlSanitizer = bluemonday.UGCPolicy()
	textSanitizer = bluemonday.StrictPolicy()
)

// RenderMarkdown converts markdown to sanitized HTML.
func RenderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

// PlainText strips all markup from rendered HTML and collapses whitespace.
func PlainText(renderedHTML string) string {
	text := html.UnescapeString(textSanitizer.Sanitize(renderedHTML))
	return strings.Join(strings.Fields(text), " ")
}

// Excerpt shortens text to at most excerptMaxLen runes, cutting at a word boundary.
func Excerpt(text string) string {
	if utf8.RuneCountInString(text) <= excerptMaxLen {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:excerptMaxLen-3])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " .,;:") + "..."
}

// ReadingTime returns the estimated reading time in minutes, at least 1.
func ReadingTime(text string) int {
	words := len(strings.Fields(text))
	return max(1, int(math.Ceil(float64(words)/wordsPerMinute)))
}

// NormalizeTags trims, lowercases and de-duplicates tags, keeping the order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
