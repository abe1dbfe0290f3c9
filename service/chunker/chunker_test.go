package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	_, err := New(MinMaxSize - 1)
	assert.Error(t, err)

	service, err := New(MinMaxSize)
	assert.NoError(t, err)
	assert.Equal(t, MinMaxSize, service.MaxSize())
}

func TestChunk_SinglePage(t *testing.T) {
	service, _ := New(230)

	pages := service.Chunk("hello mesh")
	assert.Len(t, pages, 1)
	assert.Equal(t, Page{Text: "hello mesh", Index: 1, Total: 1}, pages[0])
	assert.NotContains(t, pages[0].Text, "[1/1]", "single page carries no indicator")
}

func TestChunk_EmptyInput(t *testing.T) {
	service, _ := New(230)

	testCases := []struct {
		description string
		input       string
	}{
		{description: "empty string", input: ""},
		{description: "whitespace only", input: "  \n\t "},
	}

	for _, testCase := range testCases {
		pages := service.Chunk(testCase.input)
		assert.Len(t, pages, 1, testCase.description)
		assert.Equal(t, Page{Text: "", Index: 1, Total: 1}, pages[0], testCase.description)
	}
}

func TestChunk_WordBoundaries(t *testing.T) {
	service, _ := New(20)

	pages := service.Chunk("one two three four five")
	expected := []Page{
		{Text: "one two [1/3]", Index: 1, Total: 3},
		{Text: "three four [2/3]", Index: 2, Total: 3},
		{Text: "five [3/3]", Index: 3, Total: 3},
	}
	assert.Equal(t, expected, pages)
}

func TestChunk_PrefersNewlineBreaks(t *testing.T) {
	service, _ := New(20)

	pages := service.Chunk("alpha beta\ngamma delta x")
	expected := []Page{
		{Text: "alpha beta [1/3]", Index: 1, Total: 3},
		{Text: "gamma delta [2/3]", Index: 2, Total: 3},
		{Text: "x [3/3]", Index: 3, Total: 3},
	}
	assert.Equal(t, expected, pages)
}

func TestChunk_LongWordHardSplit(t *testing.T) {
	service, _ := New(20)
	word := strings.Repeat("A", 50)

	pages := service.Chunk(word)
	assert.Len(t, pages, 5)

	var rebuilt strings.Builder
	for _, page := range pages {
		assert.LessOrEqual(t, len(page.Text), 20)
		rebuilt.WriteString(pageBody(page))
	}
	assert.Equal(t, word, rebuilt.String(), "nothing is dropped on hard splits")
}

func TestChunk_BudgetHeldPastTwoDigitTotals(t *testing.T) {
	service, _ := New(20)
	content := strings.Repeat("alpha beta ", 200)

	pages := service.Chunk(content)
	assert.Greater(t, len(pages), 99, "content large enough to need three-digit totals")

	total := len(pages)
	for i, page := range pages {
		assert.LessOrEqual(t, len(page.Text), 20, "page %d exceeds budget", i+1)
		assert.Equal(t, i+1, page.Index)
		assert.Equal(t, total, page.Total)
		assert.True(t, strings.HasSuffix(page.Text, fmt.Sprintf(" [%d/%d]", i+1, total)))
	}
}

func TestChunk_WordsPreserved(t *testing.T) {
	service, _ := New(40)
	content := "The quick brown fox jumps over the lazy dog while the radio " +
		"link drops every other frame and the operator waits patiently"

	pages := service.Chunk(content)
	assert.Greater(t, len(pages), 1)

	var bodies []string
	for _, page := range pages {
		bodies = append(bodies, pageBody(page))
	}
	assert.Equal(t, strings.Fields(content), strings.Fields(strings.Join(bodies, " ")))
}

func TestChunk_Deterministic(t *testing.T) {
	service, _ := New(32)
	content := strings.Repeat("repeatable output matters ", 12)

	assert.Equal(t, service.Chunk(content), service.Chunk(content))
}

// pageBody strips the position indicator from a page.
func pageBody(page Page) string {
	if page.Total == 1 {
		return page.Text
	}
	return strings.TrimSuffix(page.Text, fmt.Sprintf(" [%d/%d]", page.Index, page.Total))
}
