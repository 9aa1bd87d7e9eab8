package services

import (
	"sort"
	"strings"
)

// SnippetWords is the width of the snippet window in words.
const SnippetWords = 30

const ellipsis = "..."

const (
	leadingPunct  = "([{\"'."
	trailingPunct = ".,;:!?)]}\"'"
)

// TokenizeTerm splits a query into its words plus each growing phrase prefix,
// ordered longest first. "a b c" yields "a b c", "a b", then the single words.
func TokenizeTerm(term string) []string {
	words := strings.Fields(term)
	tokens := make([]string, 0, 2*len(words))
	tokens = append(tokens, words...)
	for i := 2; i <= len(words); i++ {
		tokens = append(tokens, strings.Join(words[:i], " "))
	}
	sort.SliceStable(tokens, func(i, j int) bool {
		return len(tokens[i]) > len(tokens[j])
	})
	return tokens
}

// BestWindow returns the start index of the size-word window with the most
// matched words, where a phrase match counts every word it spans. The earliest
// window wins ties.
func BestWindow(words, terms []string, size int) int {
	if len(words) <= size {
		return 0
	}

	hits := termMatches(words, terms)

	sum := 0
	for i := 0; i < size; i++ {
		sum += hits[i]
	}
	best, bestStart := sum, 0
	for start := 1; start+size <= len(words); start++ {
		sum += hits[start+size-1] - hits[start-1]
		if sum > best {
			best, bestStart = sum, start
		}
	}
	return bestStart
}

// Snippet returns the SnippetWords-word window of text that best matches query,
// with ellipses marking trimmed ends.
func Snippet(query, text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	terms := TokenizeTerm(strings.ToLower(query))
	start := BestWindow(words, terms, SnippetWords)
	end := min(start+SnippetWords, len(words))

	var b strings.Builder
	if start > 0 {
		b.WriteString(ellipsis)
	}
	b.WriteString(strings.Join(words[start:end], " "))
	if end < len(words) {
		b.WriteString(ellipsis)
	}
	return b.String()
}

// Highlight applies mark to every match of a query term in text. A phrase
// match is marked as one unit.
func Highlight(query, text string, mark func(string) string) string {
	terms := TokenizeTerm(strings.ToLower(query))
	words := strings.Fields(text)
	spans := termMatches(words, terms)

	out := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		n := spans[i]
		if n == 0 {
			out = append(out, words[i])
			i++
			continue
		}
		out = append(out, mark(strings.Join(words[i:i+n], " ")))
		i += n
	}
	return strings.Join(out, " ")
}

// termMatches scans words left to right and records, at the index where each
// match starts, the number of words it spans. Terms are tried in order, so the
// longest phrase wins.
func termMatches(words, terms []string) []int {
	norm := make([]string, len(words))
	for i, w := range words {
		// Leading punctuation such as "..." or "(" should not hide a match.
		norm[i] = strings.TrimLeft(strings.ToLower(w), leadingPunct)
	}

	spans := make([]int, len(words))
	for i := 0; i < len(words); {
		n := matchAt(norm, i, terms)
		if n == 0 {
			i++
			continue
		}
		spans[i] = n
		i += n
	}
	return spans
}

// matchAt returns the word count of the first term matching at norm[i], or 0.
// Inner phrase words must match whole; the last word matches by prefix.
func matchAt(norm []string, i int, terms []string) int {
	for _, t := range terms {
		parts := strings.Fields(t)
		if len(parts) == 0 || i+len(parts) > len(norm) {
			continue
		}
		matched := true
		for k, part := range parts {
			w := norm[i+k]
			if k < len(parts)-1 {
				matched = strings.TrimRight(w, trailingPunct) == part
			} else {
				matched = strings.HasPrefix(w, part)
			}
			if !matched {
				break
			}
		}
		if matched {
			return len(parts)
		}
	}
	return 0
}
