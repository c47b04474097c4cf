package layout

import (
	"strings"
	"unicode"
)

// DefaultWrapWidth is the maximum number of characters per label line.
const DefaultWrapWidth = 10

// Wrap breaks text into lines of at most width characters.
//
// Lines break at whitespace and after hyphens inside hyphenated words
// ("Device-Management"). A word longer than width is split, filling the
// remainder of the current line first and preferring to cut after a hyphen.
// Runs of whitespace collapse to a single space. A width below 1 disables
// wrapping.
func Wrap(text string, width int) []string {
	words := strings.Fields(text)
	if width < 1 {
		return []string{strings.Join(words, " ")}
	}

	var chunks [][]rune
	for i, word := range words {
		if i > 0 {
			chunks = append(chunks, []rune{' '})
		}
		chunks = append(chunks, hyphenChunks([]rune(word))...)
	}

	lines := []string{}
	for len(chunks) > 0 {
		if isSpace(chunks[0]) {
			chunks = chunks[1:]
			continue
		}

		var cur [][]rune
		n := 0
		for len(chunks) > 0 && n+len(chunks[0]) <= width {
			cur = append(cur, chunks[0])
			n += len(chunks[0])
			chunks = chunks[1:]
		}

		if len(chunks) > 0 && len(chunks[0]) > width && width-n > 0 {
			chunk := chunks[0]
			end := width - n
			if h := lastHyphen(chunk[:end]); h > 0 && hasNonHyphen(chunk[:h]) {
				end = h + 1
			}
			cur = append(cur, chunk[:end])
			chunks[0] = chunk[end:]
		}

		if len(cur) > 0 && isSpace(cur[len(cur)-1]) {
			cur = cur[:len(cur)-1]
		}
		if len(cur) > 0 {
			var b strings.Builder
			for _, c := range cur {
				b.WriteString(string(c))
			}
			lines = append(lines, b.String())
		}
	}
	return lines
}

// hyphenChunks splits a word after each hyphen that joins two letter runs,
// as in "Device-Management". Hyphens next to digits or other hyphens stay
// inside their chunk.
func hyphenChunks(word []rune) [][]rune {
	var chunks [][]rune
	start := 0
	for i, r := range word {
		if r == '-' && breaksAfter(word, i) {
			chunks = append(chunks, word[start:i+1])
			start = i + 1
		}
	}
	return append(chunks, word[start:])
}

func breaksAfter(w []rune, i int) bool {
	before := (i >= 2 && isLetter(w[i-2]) && isLetter(w[i-1])) ||
		(i >= 3 && isLetter(w[i-3]) && w[i-2] == '-' && isLetter(w[i-1]))
	if !before || i+1 >= len(w) || !isLetter(w[i+1]) {
		return false
	}
	if i+2 < len(w) && isLetter(w[i+2]) {
		return true
	}
	return i+3 < len(w) && w[i+2] == '-' && isLetter(w[i+3])
}

func isLetter(r rune) bool { return unicode.IsLetter(r) || r == '_' }

func isSpace(chunk []rune) bool { return len(chunk) == 1 && chunk[0] == ' ' }

func lastHyphen(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == '-' {
			return i
		}
	}
	return -1
}

func hasNonHyphen(rs []rune) bool {
	for _, r := range rs {
		if r != '-' {
			return true
		}
	}
	return false
}
