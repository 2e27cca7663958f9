// Package signs resolves words to sign-language video assets.
package signs

import (
	"sort"
	"strings"
	"unicode"
)

// BasePath is the public path prefix the sign videos are served from.
const BasePath = "/signs/"

// Index resolves normalized words to video asset paths. It is built once
// from the static vocabulary and is immutable afterwards, so it is safe
// for concurrent use.
type Index struct {
	assets   map[string]string
	synonyms map[string]string
}

// NewIndex builds an Index from the built-in vocabulary.
func NewIndex() *Index {
	return &Index{
		assets:   assetNames,
		synonyms: synonyms,
	}
}

// normalize lowercases a word and strips punctuation, keeping letters,
// digits and internal whitespace.
func normalize(word string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(word) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Resolve returns the video asset path for a word, or ok=false if the word
// is not in the vocabulary. Lookup is case-insensitive; on a primary miss
// the synonym map is consulted for a canonical key and the lookup retried.
func (ix *Index) Resolve(word string) (string, bool) {
	key := normalize(word)
	if key == "" {
		return "", false
	}

	if name, ok := ix.assets[key]; ok {
		return BasePath + name + ".mp4", true
	}

	if canonical, ok := ix.synonyms[key]; ok {
		if name, ok := ix.assets[canonical]; ok {
			return BasePath + name + ".mp4", true
		}
	}

	return "", false
}

// TextToPaths splits text on whitespace and resolves each token
// independently. Unresolvable tokens are dropped silently; callers that
// need the misses should use TranslateDetail.
func (ix *Index) TextToPaths(text string) []string {
	words := strings.Fields(text)
	paths := make([]string, 0, len(words))
	for _, w := range words {
		if path, ok := ix.Resolve(w); ok {
			paths = append(paths, path)
		}
	}
	return paths
}

// TranslateDetail resolves text like TextToPaths but also reports the
// words that could not be resolved.
func (ix *Index) TranslateDetail(text string) (paths, unresolved []string) {
	for _, w := range strings.Fields(text) {
		if path, ok := ix.Resolve(w); ok {
			paths = append(paths, path)
		} else {
			unresolved = append(unresolved, w)
		}
	}
	return paths, unresolved
}

// Words returns the normalized vocabulary keys in sorted order.
func (ix *Index) Words() []string {
	words := make([]string, 0, len(ix.assets))
	for w := range ix.assets {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
