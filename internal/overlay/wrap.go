package overlay

import (
	"strings"
	"unicode/utf8"
)

// Wrapper breaks a single paragraph (no newlines) into display lines.
type Wrapper interface {
	Wrap(paragraph string) []string
}

// CharWrapper wraps by character count using WrapLineWordwise.
type CharWrapper struct {
	MaxLen int
}

// Wrap implements Wrapper.
func (w CharWrapper) Wrap(paragraph string) []string {
	return WrapLineWordwise(paragraph, w.MaxLen)
}

// WrapLineWordwise greedily packs whitespace separated words into lines of
// at most maxLen characters (runes). A word longer than maxLen is split into
// chunks of maxLen-1 characters followed by a hyphen; the final remainder of
// the word joins the normal accumulation. maxLen values below 2 are treated
// as 2. Empty or all-whitespace input yields no lines.
func WrapLineWordwise(line string, maxLen int) []string {
	if maxLen < 2 {
		maxLen = 2
	}

	var out []string
	current := ""
	currentLen := 0

	for _, word := range strings.Fields(line) {
		runes := []rune(word)
		for len(runes) > maxLen {
			if current != "" {
				out = append(out, current)
				current, currentLen = "", 0
			}
			out = append(out, string(runes[:maxLen-1])+"-")
			runes = runes[maxLen-1:]
		}

		switch {
		case current == "":
			current, currentLen = string(runes), len(runes)
		case currentLen+1+len(runes) <= maxLen:
			current += " " + string(runes)
			currentLen += 1 + len(runes)
		default:
			out = append(out, current)
			current, currentLen = string(runes), len(runes)
		}
	}

	if current != "" {
		out = append(out, current)
	}
	return out
}

// WrapText splits text on newlines and wraps each paragraph in order.
func WrapText(text string, w Wrapper) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, w.Wrap(paragraph)...)
	}
	return lines
}

// normalizeLine trims a wrapped line and replaces horizontal ellipses with
// periods, which the overlay fonts may not carry.
func normalizeLine(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "…", ".")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
