package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expected    Command
	}{
		{
			description: "short back",
			input:       "b",
			expected:    Command{Kind: KindBack},
		},
		{
			description: "long back, mixed case with padding",
			input:       "  BaCk \n",
			expected:    Command{Kind: KindBack},
		},
		{
			description: "short home",
			input:       "h",
			expected:    Command{Kind: KindHome},
		},
		{
			description: "long home",
			input:       "home",
			expected:    Command{Kind: KindHome},
		},
		{
			description: "short next",
			input:       "n",
			expected:    Command{Kind: KindNext},
		},
		{
			description: "long next",
			input:       "NEXT",
			expected:    Command{Kind: KindNext},
		},
		{
			description: "short all",
			input:       "a",
			expected:    Command{Kind: KindAll},
		},
		{
			description: "long all",
			input:       "all",
			expected:    Command{Kind: KindAll},
		},
		{
			description: "question mark help",
			input:       "?",
			expected:    Command{Kind: KindHelp},
		},
		{
			description: "word help",
			input:       "Help",
			expected:    Command{Kind: KindHelp},
		},
		{
			description: "single digit selection",
			input:       "5",
			expected:    Command{Kind: KindSelect, Index: 5},
		},
		{
			description: "padded selection",
			input:       " 42 ",
			expected:    Command{Kind: KindSelect, Index: 42},
		},
		{
			description: "maximum selection",
			input:       "99",
			expected:    Command{Kind: KindSelect, Index: 99},
		},
		{
			description: "zero is not a selection",
			input:       "0",
			expected:    Command{Kind: KindInvalid, Raw: "0", Reason: "selection must be positive"},
		},
		{
			description: "leading zero is rejected",
			input:       "01",
			expected:    Command{Kind: KindInvalid, Raw: "01", Reason: "unknown command"},
		},
		{
			description: "selection above the cap",
			input:       "100",
			expected:    Command{Kind: KindInvalid, Raw: "100", Reason: "selection must be <= 99"},
		},
		{
			description: "huge number degrades to invalid",
			input:       "99999999999999999999",
			expected:    Command{Kind: KindInvalid, Raw: "99999999999999999999", Reason: "selection must be <= 99"},
		},
		{
			description: "digits with trailing letters",
			input:       "5x",
			expected:    Command{Kind: KindInvalid, Raw: "5x", Reason: "unknown command"},
		},
		{
			description: "letters with trailing digits",
			input:       "b2",
			expected:    Command{Kind: KindInvalid, Raw: "b2", Reason: "unknown command"},
		},
		{
			description: "empty input",
			input:       "",
			expected:    Command{Kind: KindInvalid, Raw: "", Reason: "empty input"},
		},
		{
			description: "whitespace only",
			input:       "   ",
			expected:    Command{Kind: KindInvalid, Raw: "   ", Reason: "empty input"},
		},
		{
			description: "unknown word",
			input:       "hello",
			expected:    Command{Kind: KindInvalid, Raw: "hello", Reason: "unknown command"},
		},
		{
			description: "negative number is not a selection",
			input:       "-1",
			expected:    Command{Kind: KindInvalid, Raw: "-1", Reason: "unknown command"},
		},
		{
			description: "explicit plus sign is not a selection",
			input:       "+5",
			expected:    Command{Kind: KindInvalid, Raw: "+5", Reason: "unknown command"},
		},
		{
			description: "two tokens",
			input:       "1 2",
			expected:    Command{Kind: KindInvalid, Raw: "1 2", Reason: "unknown command"},
		},
	}

	for _, testCase := range testCases {
		actual := Parse(testCase.input)
		assert.Equal(t, testCase.expected, actual, testCase.description)
	}
}

func TestKind_String(t *testing.T) {
	testCases := []struct {
		kind     Kind
		expected string
	}{
		{KindSelect, "select"},
		{KindBack, "back"},
		{KindHome, "home"},
		{KindNext, "next"},
		{KindAll, "all"},
		{KindHelp, "help"},
		{KindInvalid, "invalid"},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, testCase.kind.String())
	}
}
