package parser

import (
	"github.com/viant/parsly"
)

// Token codes
const (
	digitsCode = iota
	keywordCode
)

// Token definitions
var (
	digitsToken  = parsly.NewToken(digitsCode, "Digits", newDigitsMatcher())
	keywordToken = parsly.NewToken(keywordCode, "Keyword", newKeywordMatcher())
)

// Custom matchers
func newDigitsMatcher() parsly.Matcher {
	return &digitsMatcher{}
}

func newKeywordMatcher() parsly.Matcher {
	return &keywordMatcher{}
}

// digitsMatcher matches a run of ASCII digits
type digitsMatcher struct{}

func (m *digitsMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	matched := 0
	for i := pos; i < size; i++ {
		if !isDigit(input[i]) {
			break
		}
		matched++
	}

	return matched
}

// keywordMatcher matches a run of ASCII letters, or the single '?' shortcut
type keywordMatcher struct{}

func (m *keywordMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}

	if input[pos] == '?' {
		return 1
	}

	matched := 0
	for i := pos; i < size; i++ {
		if !isLetter(input[i]) {
			break
		}
		matched++
	}

	return matched
}

// Helper functions
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
