// Package analytics holds the word-level text measures used by the rubric and
// the report: token counts and keyword frequencies.
package analytics

import (
	"sort"
	"strings"
	"unicode"
)

type Analytics struct{}

// stopwordList is split once into commonWords. Words here are ignored in
// frequency analysis but still counted by CountWords.
const stopwordList = `
a about above after again against all also am an and any are as at
be because been before being below between both but by
can could did do does doing down during each few for from further
had has have having he her here hers herself him himself his how
i if in into is it its itself just me more most my myself
no nor not now of off on once only or other our ours ourselves out over own
same she should so some such than that the their theirs them themselves then
there these they this those through to too under until up us very
was we were what when where which while who whom why will with would
you your yours yourself yourselves
page pages issue cover magazine
`

var commonWords = func() map[string]struct{} {
	words := strings.Fields(stopwordList)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()

// isStopword checks if a word is a common stopword that should be filtered out.
func isStopword(word string) bool {
	_, exists := commonWords[strings.ToLower(word)]
	return exists
}

// CountWords is the rubric word count: the number of whitespace-delimited
// tokens, with runs of whitespace acting as one delimiter.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

func (a *Analytics) WordFrequency(text string) map[string]int {
	words := strings.Fields(strings.ToLower(text))
	frequencies := make(map[string]int)

	for _, word := range words {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word == "" || len([]rune(word)) < 2 {
			continue
		}
		if isStopword(word) {
			continue
		}
		frequencies[word]++
	}

	return frequencies
}

type wordCount struct {
	Word  string
	Count int
}

// TopNWords returns the n most frequent non-stopwords, ties broken alphabetically.
func (a *Analytics) TopNWords(text string, n int) []string {
	frequencies := a.WordFrequency(text)

	counts := make([]wordCount, 0, len(frequencies))
	for k, v := range frequencies {
		counts = append(counts, wordCount{k, v})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count == counts[j].Count {
			return counts[i].Word < counts[j].Word
		}
		return counts[i].Count > counts[j].Count
	})

	limit := n
	if len(counts) < n {
		limit = len(counts)
	}

	topN := make([]string, limit)
	for i := 0; i < limit; i++ {
		topN[i] = counts[i].Word
	}

	return topN
}

// Prefix returns the first n runes of text and whether anything was cut off.
func Prefix(text string, n int) (string, bool) {
	if n < 0 {
		n = 0
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i], true
		}
		count++
	}
	return text, false
}
