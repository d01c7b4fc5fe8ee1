package edusolve

import (
	"regexp"
	"strings"
)

// Normalization pipeline for question text: clean, lowercase, tokenize,
// drop stop words, reduce simple inflections. Pure function, no error path.

var (
	urlPattern      = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)
	emailPattern    = regexp.MustCompile(`\S+@\S+`)
	nonLetterRunOut = regexp.MustCompile(`[^a-zA-Z\s]`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

var stopWords = map[string]struct{}{}

func init() {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "when",
		"at", "by", "for", "with", "about", "against", "between", "into",
		"through", "during", "before", "after", "above", "below", "to", "from",
		"up", "down", "in", "out", "on", "off", "over", "under", "again",
		"further", "once", "here", "there", "all", "any", "both", "each",
		"few", "more", "most", "other", "some", "such", "no", "nor", "not",
		"only", "own", "same", "so", "than", "too", "very", "can", "will",
		"just", "should", "now", "i", "me", "my", "myself", "we", "our",
		"ours", "you", "your", "yours", "he", "him", "his", "she", "her",
		"it", "its", "they", "them", "their", "what", "which", "who", "whom",
		"this", "that", "these", "those", "am", "is", "are", "was", "were",
		"be", "been", "being", "have", "has", "had", "having", "do", "does",
		"did", "doing", "would", "could", "of", "as", "until", "while",
		"how", "why", "where", "because",
	}
	for _, w := range words {
		stopWords[w] = struct{}{}
	}
}

// Normalize turns raw question text into an ordered token sequence suitable
// for feature extraction. URLs, emails, digits and punctuation are stripped
// before tokenization.
func Normalize(text string) []string {
	text = urlPattern.ReplaceAllString(text, "")
	text = emailPattern.ReplaceAllString(text, "")
	text = nonLetterRunOut.ReplaceAllString(text, "")
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = strings.ToLower(strings.TrimSpace(text))

	if text == "" {
		return nil
	}

	raw := strings.Fields(text)
	tokens := make([]string, 0, len(raw))
	for _, word := range raw {
		if _, skip := stopWords[word]; skip {
			continue
		}
		word = lemmatize(word)
		if word == "" {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// lemmatize reduces common English inflections. A dictionary lemmatizer is
// overkill for short student questions; suffix stripping keeps the vocabulary
// stable across singular/plural and -ing/-ed variants.
func lemmatize(word string) string {
	switch {
	case len(word) > 5 && strings.HasSuffix(word, "ies"):
		return word[:len(word)-3] + "y"
	case len(word) > 4 && strings.HasSuffix(word, "sses"):
		return word[:len(word)-2]
	case len(word) > 5 && strings.HasSuffix(word, "ing"):
		return word[:len(word)-3]
	case len(word) > 4 && strings.HasSuffix(word, "ed"):
		return word[:len(word)-2]
	case len(word) > 3 && strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss"):
		return word[:len(word)-1]
	default:
		return word
	}
}

// ProcessedText joins normalized tokens back into the flat form stored with
// each interaction record.
func ProcessedText(tokens []string) string {
	return strings.Join(tokens, " ")
}
