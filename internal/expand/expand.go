// Package expand resolves ${env.KEY} references in configuration text.
package expand

import (
	"os"
	"strings"
	"unicode"
)

// Env replaces every ${env.KEY} occurrence in value with the content of
// the environment variable KEY, or "" when unset. Malformed references
// (missing brace, key with illegal characters) stay literal.
func Env(value string) string {
	const prefix = "${env."
	var builder strings.Builder
	i := 0
	for {
		idx := strings.Index(value[i:], prefix)
		if idx < 0 {
			builder.WriteString(value[i:])
			break
		}
		builder.WriteString(value[i : i+idx])
		keyStart := i + idx + len(prefix)

		keyEnd := strings.IndexByte(value[keyStart:], '}')
		if keyEnd < 0 {
			// No closing brace; keep the rest literal.
			builder.WriteString(value[i+idx:])
			break
		}
		key := value[keyStart : keyStart+keyEnd]
		if !validKey(key) {
			// Keep the prefix literal and rescan what follows it, so a
			// later well-formed reference still resolves.
			builder.WriteString(value[i+idx : keyStart])
			i = keyStart
			continue
		}
		builder.WriteString(os.Getenv(key))
		i = keyStart + keyEnd + 1
	}
	return builder.String()
}

func validKey(key string) bool {
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
