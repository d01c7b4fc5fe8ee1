package edusolve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWithTokens(tokens ...string) TrainingSample {
	return TrainingSample{
		Tokens:     tokens,
		Subject:    SubjectMathematics,
		Difficulty: DifficultyEasy,
	}
}

func TestBuildFeatures(t *testing.T) {
	corpus := []TrainingSample{
		sampleWithTokens("apple", "banana"),
		sampleWithTokens("banana", "cherry"),
	}

	vocab, idf, err := buildFeatures(corpus)
	require.NoError(t, err)

	// Indices follow first-seen order.
	assert.Equal(t, Vocabulary{"apple": 0, "banana": 1, "cherry": 2}, vocab)

	require.Len(t, idf, 3)
	assert.InDelta(t, math.Log(2), idf[vocab["apple"]], 1e-12)
	assert.InDelta(t, 0, idf[vocab["banana"]], 1e-12) // present in every document
	assert.InDelta(t, math.Log(2), idf[vocab["cherry"]], 1e-12)
}

func TestBuildFeaturesDeterministic(t *testing.T) {
	corpus := []TrainingSample{
		sampleWithTokens("force", "velocity", "energy"),
		sampleWithTokens("energy", "wave"),
		sampleWithTokens("wave", "force", "momentum"),
	}

	vocab1, idf1, err := buildFeatures(corpus)
	require.NoError(t, err)
	vocab2, idf2, err := buildFeatures(corpus)
	require.NoError(t, err)

	assert.Equal(t, vocab1, vocab2)
	assert.Equal(t, idf1, idf2)
}

func TestBuildFeaturesRepeatedTokenCountsOncePerDocument(t *testing.T) {
	corpus := []TrainingSample{
		sampleWithTokens("cell", "cell", "cell"),
		sampleWithTokens("gene"),
	}

	vocab, idf, err := buildFeatures(corpus)
	require.NoError(t, err)

	// df(cell) is 1 despite three occurrences in one document.
	assert.InDelta(t, math.Log(2), idf[vocab["cell"]], 1e-12)
}

func TestBuildFeaturesErrors(t *testing.T) {
	var insufficient *InsufficientDataError

	_, _, err := buildFeatures(nil)
	require.ErrorAs(t, err, &insufficient)

	_, _, err = buildFeatures([]TrainingSample{sampleWithTokens()})
	require.ErrorAs(t, err, &insufficient)
}

func TestVectorize(t *testing.T) {
	corpus := []TrainingSample{
		sampleWithTokens("apple", "banana"),
		sampleWithTokens("banana", "cherry"),
	}
	vocab, idf, err := buildFeatures(corpus)
	require.NoError(t, err)

	// Term frequency accumulates, unknown tokens contribute nothing.
	vector := vectorize([]string{"apple", "apple", "durian"}, vocab, idf)
	require.Len(t, vector, len(vocab))
	assert.InDelta(t, 2*math.Log(2), vector[vocab["apple"]], 1e-12)
	assert.Zero(t, vector[vocab["banana"]])
	assert.Zero(t, vector[vocab["cherry"]])

	// All-unknown input yields the zero vector, never an error.
	zero := vectorize([]string{"durian", "elderberry"}, vocab, idf)
	assert.Equal(t, make([]float64, len(vocab)), zero)
}
