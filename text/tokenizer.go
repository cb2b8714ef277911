package text

import "strings"

const punctuation = ".,!?;:'\"-()[]{}"

// Stop words excluded from the keyword profile
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "they": true, "will": true, "would": true,
	"there": true, "their": true, "what": true, "about": true, "which": true,
	"when": true, "were": true, "been": true, "has": true, "had": true,
	"more": true, "also": true, "into": true, "some": true, "than": true,
	"then": true, "them": true, "these": true, "just": true, "over": true,
	"such": true, "only": true, "your": true, "very": true, "can": true,
	"should": true, "could": true, "after": true, "most": true, "made": true,
	"make": true, "like": true, "through": true, "each": true, "other": true,
}

// IsStopWord reports whether the word is on the exclusion list.
// The check is case-sensitive; callers are expected to lowercase first.
func IsStopWord(word string) bool {
	return stopWords[word]
}

// normalize lowercases a word and trims surrounding punctuation.
func normalize(word string) string {
	return strings.ToLower(strings.Trim(word, punctuation))
}

// Tokenize splits text into lowercase, punctuation-trimmed tokens longer
// than 2 characters. This is the embedding profile: stop words are kept so
// fingerprint dimensions follow the document's own wording. Empty input
// yields an empty sequence.
func Tokenize(input string) []string {
	words := strings.Fields(input)
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := normalize(word)
		if len(cleaned) > 2 {
			tokens = append(tokens, cleaned)
		}
	}

	return tokens
}

// Keywords splits text into lowercase, punctuation-trimmed tokens longer
// than 3 characters with stop words removed. This is the keyword profile
// used for topic clustering and keyword overlap scoring.
func Keywords(input string) []string {
	words := strings.Fields(input)
	keywords := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := normalize(word)
		if len(cleaned) > 3 && !stopWords[cleaned] {
			keywords = append(keywords, cleaned)
		}
	}

	return keywords
}

// KeywordSet returns the keyword profile tokens as a set.
func KeywordSet(input string) map[string]bool {
	keywords := Keywords(input)
	set := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		set[kw] = true
	}
	return set
}
