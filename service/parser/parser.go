// Package parser interprets raw inbound text as navigation commands.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/parsly"
)

// Kind discriminates the closed set of command variants.
type Kind int

const (
	KindInvalid Kind = iota
	KindSelect
	KindBack
	KindHome
	KindNext
	KindAll
	KindHelp
)

// MaxSelection bounds numeric selections; menus never reach 100 entries.
const MaxSelection = 99

// HelpText is sent verbatim in reply to the help command.
const HelpText = `Gopher Server Help:
[num] - Select item
b - Back to parent
h - Home (root)
n - Next page
a - All pages
? - This help`

// Command is the parsed form of one inbound message.
type Command struct {
	Kind Kind
	// Index is the 1-based selection, set only for KindSelect
	Index int
	// Raw preserves the original input for KindInvalid
	Raw string
	// Reason is a diagnostic for KindInvalid, never shown to the node
	Reason string
}

// Keyword mappings (matched case-insensitively against trimmed input)
var keywords = map[string]Kind{
	"b":    KindBack,
	"back": KindBack,
	"h":    KindHome,
	"home": KindHome,
	"n":    KindNext,
	"next": KindNext,
	"a":    KindAll,
	"all":  KindAll,
	"?":    KindHelp,
	"help": KindHelp,
}

// Parse maps raw input to a Command. It is pure and total: unrecognized
// input degrades to KindInvalid rather than an error.
func Parse(raw string) Command {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return invalid(raw, "empty input")
	}

	cursor := parsly.NewCursor("", []byte(cleaned), 0)

	// A command must consume the whole input; trailing bytes disqualify it
	matched := cursor.MatchOne(digitsToken)
	if matched.Code == digitsToken.Code {
		digits := matched.Text(cursor)
		if cursor.Pos < cursor.InputSize {
			return invalid(raw, "unknown command")
		}
		return parseSelection(raw, digits)
	}

	matched = cursor.MatchOne(keywordToken)
	if matched.Code == keywordToken.Code && cursor.Pos >= cursor.InputSize {
		if kind, ok := keywords[matched.Text(cursor)]; ok {
			return Command{Kind: kind}
		}
	}

	return invalid(raw, "unknown command")
}

func parseSelection(raw, digits string) Command {
	if digits == "0" {
		return invalid(raw, "selection must be positive")
	}
	if digits[0] == '0' {
		return invalid(raw, "unknown command")
	}
	if len(digits) > 2 {
		return invalid(raw, fmt.Sprintf("selection must be <= %d", MaxSelection))
	}
	index, _ := strconv.Atoi(digits)
	return Command{Kind: KindSelect, Index: index}
}

func invalid(raw, reason string) Command {
	return Command{Kind: KindInvalid, Raw: raw, Reason: reason}
}

// String names the command kind for logs and metrics labels.
func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindBack:
		return "back"
	case KindHome:
		return "home"
	case KindNext:
		return "next"
	case KindAll:
		return "all"
	case KindHelp:
		return "help"
	default:
		return "invalid"
	}
}
