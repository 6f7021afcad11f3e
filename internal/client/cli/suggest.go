package cli

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how far a typo may be from a command name.
const maxSuggestDistance = 2

// suggestCommand returns the command closest to word, or "" when none is
// close enough. Words shorter than four letters or containing anything but
// letters are never treated as typos: they are more likely expressions
// such as "pi" or "e".
func suggestCommand(word string) string {
	word = strings.ToLower(word)
	if len([]rune(word)) < 4 {
		return ""
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return ""
		}
	}

	best, bestDist := "", maxSuggestDistance+1
	for _, c := range commandNames {
		if d := levenshtein.ComputeDistance(word, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
