package edusolve

import "math"

// Multinomial Naive Bayes over TF-IDF features. Two independent instances are
// trained per snapshot (subject, difficulty); they share the vocabulary but
// never class statistics. Add-one smoothing keeps every prior and likelihood
// strictly positive so unseen tokens and empty classes stay classifiable.

// classifierModel holds the trained statistics for one label set
type classifierModel struct {
	// Classes fixes the label ordering used for tie-breaking
	Classes []string `json:"classes"`
	// Priors[c] = (count(c) + 1) / (N + len(Classes))
	Priors []float64 `json:"priors"`
	// Likelihoods[c][i] = (weight of feature i in class c + 1) / (total class weight + |V|)
	Likelihoods [][]float64 `json:"likelihoods"`
	VocabSize   int         `json:"vocab_size"`
}

// trainClassifier fits a model from the corpus using labelOf to select the
// label under training. classes is the full fixed label set; classes with no
// examples keep smoothed nonzero statistics rather than failing the build.
func trainClassifier(
	corpus []TrainingSample,
	classes []string,
	labelOf func(TrainingSample) string,
	vocab Vocabulary,
	idf FeatureWeights,
	minSamples int,
) (*classifierModel, error) {
	if len(corpus) == 0 {
		return nil, &InsufficientDataError{Reason: "empty corpus"}
	}
	if len(corpus) < minSamples {
		return nil, &InsufficientDataError{
			Reason: "corpus smaller than configured minimum sample count",
		}
	}

	classIndex := make(map[string]int, len(classes))
	for i, class := range classes {
		classIndex[class] = i
	}

	counts := make([]float64, len(classes))
	weightSums := make([][]float64, len(classes))
	totals := make([]float64, len(classes))
	for i := range weightSums {
		weightSums[i] = make([]float64, len(vocab))
	}

	for _, sample := range corpus {
		ci, ok := classIndex[labelOf(sample)]
		if !ok {
			// Record validates labels, so this is state corruption.
			return nil, &UnknownLabelError{Kind: "training", Label: labelOf(sample)}
		}
		counts[ci]++
		vector := vectorize(sample.Tokens, vocab, idf)
		for fi, weight := range vector {
			weightSums[ci][fi] += weight
			totals[ci] += weight
		}
	}

	model := &classifierModel{
		Classes:     append([]string(nil), classes...),
		Priors:      make([]float64, len(classes)),
		Likelihoods: make([][]float64, len(classes)),
		VocabSize:   len(vocab),
	}

	n := float64(len(corpus))
	for ci := range classes {
		model.Priors[ci] = (counts[ci] + 1) / (n + float64(len(classes)))
		model.Likelihoods[ci] = make([]float64, len(vocab))
		denom := totals[ci] + float64(len(vocab))
		for fi := range model.Likelihoods[ci] {
			model.Likelihoods[ci][fi] = (weightSums[ci][fi] + 1) / denom
		}
	}

	return model, nil
}

// classify scores a feature vector against every class and returns the
// arg-max label with a softmax-normalized confidence. Ties resolve to the
// class listed first in the fixed ordering.
func (m *classifierModel) classify(vector []float64) (ClassificationResult, error) {
	if len(vector) != m.VocabSize {
		return ClassificationResult{}, &DimensionMismatchError{
			VectorLen: len(vector),
			VocabLen:  m.VocabSize,
		}
	}

	scores := make([]float64, len(m.Classes))
	for ci := range m.Classes {
		score := math.Log(m.Priors[ci])
		for fi, weight := range vector {
			if weight == 0 {
				continue
			}
			score += weight * math.Log(m.Likelihoods[ci][fi])
		}
		scores[ci] = score
	}

	probs := softmax(scores)

	best := 0
	for ci := 1; ci < len(probs); ci++ {
		if probs[ci] > probs[best] {
			best = ci
		}
	}

	return ClassificationResult{
		Label:      m.Classes[best],
		Confidence: probs[best],
	}, nil
}

// softmax exponentiates log-scores into probabilities summing to one,
// shifting by the max score for numeric stability.
func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}

	probs := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		probs[i] = math.Exp(s - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
