// Package chunker splits arbitrary text into size-bounded pages that
// respect word boundaries, annotating multi-page output with position
// indicators of the form " [i/total]".
package chunker

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinMaxSize is the smallest accepted page budget. It leaves at least one
// content byte per page through four-digit page totals, which keeps the
// size guarantee provable for any realistic input.
const MinMaxSize = 20

// Page is one immutable unit of outbound text.
type Page struct {
	// Text is the final page content, indicator included; len(Text) never
	// exceeds the configured max size
	Text string
	// Index is the 1-based position within the batch
	Index int
	// Total is the page count of the batch
	Total int
}

// Service splits content deterministically: identical input always yields
// identical pages, so a batch can be regenerated after a crash.
type Service struct {
	maxSize int
}

// New returns a chunker bounded by maxSize bytes per page.
func New(maxSize int) (*Service, error) {
	if maxSize < MinMaxSize {
		return nil, fmt.Errorf("chunker: max size must be at least %d, had %d", MinMaxSize, maxSize)
	}
	return &Service{maxSize: maxSize}, nil
}

// MaxSize returns the configured page budget.
func (s *Service) MaxSize() int {
	return s.maxSize
}

// Chunk splits content into pages. Single-page output carries no
// indicator; empty input yields exactly one empty page.
func (s *Service) Chunk(content string) []Page {
	content = strings.TrimSpace(content)
	if len(content) <= s.maxSize {
		return []Page{{Text: content, Index: 1, Total: 1}}
	}

	// The indicator width depends on the page count, which in turn depends
	// on the width reserved for the indicator. Pack assuming two-digit
	// totals first and repack with a wider reserve until the count fits.
	digits := 2
	var chunks []string
	for {
		effective := s.maxSize - indicatorWidth(digits)
		if effective < 1 {
			effective = 1
		}
		chunks = split(content, effective)
		if countDigits(len(chunks)) <= digits {
			break
		}
		digits = countDigits(len(chunks))
	}

	total := len(chunks)
	pages := make([]Page, total)
	for i, chunk := range chunks {
		pages[i] = Page{
			Text:  fmt.Sprintf("%s [%d/%d]", chunk, i+1, total),
			Index: i + 1,
			Total: total,
		}
	}
	return pages
}

// split cuts content into raw chunks of at most window bytes, preferring
// newline and space boundaries past the window midpoint.
func split(content string, window int) []string {
	var chunks []string
	remaining := content
	for remaining != "" {
		if len(remaining) <= window {
			chunks = append(chunks, remaining)
			break
		}
		point := splitPoint(remaining, window)
		chunk := strings.TrimRightFunc(remaining[:point], unicode.IsSpace)
		chunks = append(chunks, chunk)
		remaining = strings.TrimLeftFunc(remaining[point:], unicode.IsSpace)
	}
	return chunks
}

// splitPoint picks the cut position within the first window bytes: the
// last newline past the midpoint, else the last space past the midpoint,
// else a hard cut at the window edge (long words continue on the next
// page, backed off to a rune boundary so multi-byte text stays valid).
func splitPoint(text string, window int) int {
	if len(text) <= window {
		return len(text)
	}
	search := text[:window]
	if idx := strings.LastIndexByte(search, '\n'); idx > window/2 {
		return idx + 1
	}
	if idx := strings.LastIndexByte(search, ' '); idx > window/2 {
		return idx + 1
	}
	point := window
	for point > 1 && !utf8.RuneStart(text[point]) {
		point--
	}
	return point
}

func indicatorWidth(digits int) int {
	return len(" [/]") + 2*digits
}

func countDigits(n int) int {
	digits := 1
	for n >= 10 {
		n /= 10
		digits++
	}
	return digits
}
