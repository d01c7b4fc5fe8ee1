package edusolve

import (
	"regexp"
	"sync"
)

// Keyword fallback for low-confidence subject predictions. The statistical
// classifier always answers; when its confidence drops under the configured
// threshold the orchestration layer may let domain keyword tables override
// the label. Whole-word matching only, to avoid substring false positives.

var subjectKeywords = map[Subject][]string{
	SubjectMathematics: {
		"calculus", "derivative", "integral", "algebra", "equation",
		"solve", "calculate", "theorem", "proof", "matrix", "vector",
		"geometry", "trigonometry", "statistics", "probability",
	},
	SubjectBiology: {
		"cell", "dna", "photosynthesis", "evolution", "organism",
		"bacteria", "virus", "protein", "gene", "biology", "species",
	},
	SubjectChemistry: {
		"atom", "molecule", "chemical", "reaction", "element",
		"compound", "bond", "acid", "base", "chemistry", "periodic",
	},
	SubjectPhysics: {
		"force", "velocity", "acceleration", "energy", "motion",
		"gravity", "wave", "electricity", "physics", "momentum",
	},
	SubjectEnglish: {
		"shakespeare", "poem", "novel", "literature", "author",
		"metaphor", "grammar", "writing", "essay", "story",
	},
	SubjectHistory: {
		"war", "ancient", "empire", "civilization", "century",
		"revolution", "historical", "history", "president",
	},
	SubjectGeography: {
		"capital", "country", "continent", "ocean", "mountain",
		"river", "climate", "geography", "map", "location",
	},
}

var (
	keywordPatterns     map[Subject][]*regexp.Regexp
	keywordPatternsOnce sync.Once
)

func compileKeywordPatterns() {
	keywordPatterns = make(map[Subject][]*regexp.Regexp, len(subjectKeywords))
	for subject, keywords := range subjectKeywords {
		patterns := make([]*regexp.Regexp, len(keywords))
		for i, keyword := range keywords {
			patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
		}
		keywordPatterns[subject] = patterns
	}
}

// ApplyKeywordFallback revisits a subject prediction whose confidence fell
// under threshold. When keyword tables find a clearer signal it returns the
// keyword subject with a boosted confidence of min(0.75, 0.50 + 0.15*matches);
// otherwise the original prediction passes through unchanged.
func ApplyKeywordFallback(question string, predicted Subject, confidence, threshold float64) (Subject, float64) {
	if confidence >= threshold {
		return predicted, confidence
	}

	keywordPatternsOnce.Do(compileKeywordPatterns)

	bestSubject := predicted
	bestMatches := 0
	for _, subject := range Subjects {
		matches := 0
		for _, pattern := range keywordPatterns[subject] {
			if pattern.MatchString(question) {
				matches++
			}
		}
		if matches > bestMatches {
			bestSubject = subject
			bestMatches = matches
		}
	}

	if bestMatches == 0 {
		return predicted, confidence
	}

	boosted := 0.50 + float64(bestMatches)*0.15
	if boosted > 0.75 {
		boosted = 0.75
	}
	VerboseLog("keyword fallback: %s -> %s (%d matches, confidence %.2f)",
		predicted, bestSubject, bestMatches, boosted)
	return bestSubject, boosted
}
