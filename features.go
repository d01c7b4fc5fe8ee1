package edusolve

import "math"

// TF-IDF feature extraction. The vocabulary assigns indices in first-seen
// order so that two builds over the same corpus are byte-for-byte identical,
// which keeps model snapshots reproducible across retraining.

// Vocabulary maps a token to its feature index
type Vocabulary map[string]int

// FeatureWeights holds the per-token inverse document frequencies in
// vocabulary-index order
type FeatureWeights []float64

// buildFeatures derives the vocabulary and IDF table from the full corpus.
// idf(t) = log(N / df(t)); df is never zero because the vocabulary only
// contains tokens observed in at least one document.
func buildFeatures(corpus []TrainingSample) (Vocabulary, FeatureWeights, error) {
	if len(corpus) == 0 {
		return nil, nil, &InsufficientDataError{Reason: "empty corpus"}
	}

	vocab := make(Vocabulary)
	docFreq := make(map[string]int)

	for _, sample := range corpus {
		seen := make(map[string]bool, len(sample.Tokens))
		for _, token := range sample.Tokens {
			if _, ok := vocab[token]; !ok {
				vocab[token] = len(vocab)
			}
			if !seen[token] {
				docFreq[token]++
				seen[token] = true
			}
		}
	}

	if len(vocab) == 0 {
		return nil, nil, &InsufficientDataError{Reason: "corpus contains no tokens"}
	}

	n := float64(len(corpus))
	idf := make(FeatureWeights, len(vocab))
	for token, index := range vocab {
		idf[index] = math.Log(n / float64(docFreq[token]))
	}

	return vocab, idf, nil
}

// vectorize turns a token sequence into a TF-IDF feature vector against a
// previously built vocabulary. Tokens outside the vocabulary contribute
// nothing; they never fail the transform.
func vectorize(tokens []string, vocab Vocabulary, idf FeatureWeights) []float64 {
	vector := make([]float64, len(vocab))
	for _, token := range tokens {
		index, ok := vocab[token]
		if !ok {
			continue
		}
		vector[index] += idf[index]
	}
	return vector
}
