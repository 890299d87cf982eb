// Package chunker splits running text into sentences that can be translated
// and fixed one pair at a time. A period inside a number ("2.5"), after an
// ordinal ("5. května") or before a number ("cca. 5 km") does not end a
// sentence.
package chunker

import (
	"strings"
	"unicode"
)

// Sentences splits text at line breaks and at sentence-ending punctuation
// followed by whitespace and a capital letter or an opening quote.
func Sentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0

	emit := func(end int) {
		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			out = append(out, s)
		}
		start = end
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' {
			emit(i + 1)
			continue
		}
		if !isTerminal(r) {
			continue
		}

		end := i + 1
		for end < len(runes) && isClosing(runes[end]) {
			end++
		}
		if end < len(runes) && !unicode.IsSpace(runes[end]) {
			continue
		}
		if r == '.' && isInitial(runes, i) {
			continue
		}

		next := end
		for next < len(runes) && runes[next] != '\n' && unicode.IsSpace(runes[next]) {
			next++
		}
		if next < len(runes) && runes[next] != '\n' && !opensSentence(runes[next]) {
			continue
		}

		emit(end)
		i = end - 1
	}
	emit(len(runes))

	return out
}

// Chunk returns the sentences of text, cutting any sentence longer than
// maxChars runes at whitespace. A cut never separates a number from the word
// after it unless there is no other space. maxChars <= 0 means unlimited.
func Chunk(text string, maxChars int) []string {
	var chunks []string
	for _, s := range Sentences(text) {
		if maxChars <= 0 || len([]rune(s)) <= maxChars {
			chunks = append(chunks, s)
			continue
		}
		chunks = append(chunks, splitLong(s, maxChars)...)
	}
	return chunks
}

func splitLong(s string, maxChars int) []string {
	var out []string
	runes := []rune(s)

	for len(runes) > maxChars {
		cut := findCut(runes, maxChars)
		if chunk := strings.TrimSpace(string(runes[:cut])); chunk != "" {
			out = append(out, chunk)
		}
		runes = runes[cut:]
		for len(runes) > 0 && unicode.IsSpace(runes[0]) {
			runes = runes[1:]
		}
	}
	if rest := strings.TrimSpace(string(runes)); rest != "" {
		out = append(out, rest)
	}
	return out
}

// findCut returns the rune index to cut runes at, len(runes) > maxChars.
func findCut(runes []rune, maxChars int) int {
	fallback := 0
	for j := maxChars; j > 0; j-- {
		if !unicode.IsSpace(runes[j]) {
			continue
		}
		if !unicode.IsDigit(runes[j-1]) {
			return j
		}
		if fallback == 0 {
			fallback = j
		}
	}
	if fallback > 0 {
		return fallback
	}
	return maxChars
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '…'
}

func isClosing(r rune) bool {
	switch r {
	case '"', '\'', '”', '’', '“', '»', ')', ']':
		return true
	}
	return false
}

func opensSentence(r rune) bool {
	switch r {
	case '"', '„', '“', '«', '(', '\'':
		return true
	}
	return unicode.IsUpper(r)
}

// isInitial reports whether the period at i follows a lone capital ("J. Novák").
func isInitial(runes []rune, i int) bool {
	if i < 1 || !unicode.IsUpper(runes[i-1]) {
		return false
	}
	return i == 1 || !unicode.IsLetter(runes[i-2])
}
