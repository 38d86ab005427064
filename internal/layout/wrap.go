package layout

import (
	"strings"
	"unicode/utf8"
)

// Wrap breaks text into lines of at most width runes. Lines break at
// whitespace; a word longer than width is split hard. Explicit newlines start
// a new line. Nothing is truncated. Empty text yields a single empty line.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(paragraph, width)...)
	}
	return lines
}

func wrapParagraph(paragraph string, width int) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines   []string
		current strings.Builder
		n       int // runes in current
	)
	flush := func() {
		lines = append(lines, current.String())
		current.Reset()
		n = 0
	}

	for _, word := range words {
		wl := utf8.RuneCountInString(word)

		for wl > width {
			if n > 0 {
				flush()
			}
			head, rest := splitRunes(word, width)
			lines = append(lines, head)
			word, wl = rest, wl-width
		}
		if wl == 0 {
			continue
		}

		switch {
		case n == 0:
			current.WriteString(word)
			n = wl
		case n+1+wl <= width:
			current.WriteByte(' ')
			current.WriteString(word)
			n += 1 + wl
		default:
			flush()
			current.WriteString(word)
			n = wl
		}
	}
	if n > 0 {
		flush()
	}
	return lines
}

func splitRunes(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}
