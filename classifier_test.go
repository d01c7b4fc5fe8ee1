package edusolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scienceCorpus() []TrainingSample {
	corpus := []TrainingSample{
		{Text: "Plants convert sunlight into chemical energy", Subject: SubjectBiology, Difficulty: DifficultyEasy},
		{Text: "Photosynthesis lets plants absorb light", Subject: SubjectBiology, Difficulty: DifficultyEasy},
		{Text: "How do plant cells store energy", Subject: SubjectBiology, Difficulty: DifficultyMedium},
		{Text: "Newton's laws describe force and motion", Subject: SubjectPhysics, Difficulty: DifficultyEasy},
		{Text: "Velocity and acceleration of a moving object", Subject: SubjectPhysics, Difficulty: DifficultyEasy},
		{Text: "Momentum is conserved in collisions", Subject: SubjectPhysics, Difficulty: DifficultyHard},
	}
	for i := range corpus {
		corpus[i].Tokens = Normalize(corpus[i].Text)
	}
	return corpus
}

func TestClassifierUntrained(t *testing.T) {
	classifier := NewClassifier(ClassifierConfig{})

	var insufficient *InsufficientDataError
	_, err := classifier.ClassifySubject("What is photosynthesis?")
	require.ErrorAs(t, err, &insufficient)
	_, err = classifier.ClassifyDifficulty("What is photosynthesis?")
	require.ErrorAs(t, err, &insufficient)
}

func TestClassifierEndToEnd(t *testing.T) {
	classifier := NewClassifier(ClassifierConfig{})
	classifier.SeedCorpus(scienceCorpus())
	require.NoError(t, classifier.ForceRetrain())

	result, err := classifier.ClassifySubject("How do plants convert light into energy?")
	require.NoError(t, err)
	assert.Equal(t, string(SubjectBiology), result.Label)
	assert.Greater(t, result.Confidence, 0.5)

	diff, err := classifier.ClassifyDifficulty("How do plants convert light into energy?")
	require.NoError(t, err)
	_, parseErr := ParseDifficulty(diff.Label)
	assert.NoError(t, parseErr)
}

func TestRecordRejectsUnknownLabels(t *testing.T) {
	classifier := NewClassifier(ClassifierConfig{})

	var unknown *UnknownLabelError
	err := classifier.Record(TrainingSample{
		Text: "What sign is compatible with Leo?", Subject: "Astrology", Difficulty: DifficultyEasy,
	})
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "subject", unknown.Kind)
	assert.Equal(t, "Astrology", unknown.Label)

	err = classifier.Record(TrainingSample{
		Text: "What is a derivative?", Subject: SubjectMathematics, Difficulty: "Impossible",
	})
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "difficulty", unknown.Kind)

	// Rejected samples never touch the corpus.
	assert.Zero(t, classifier.CorpusSize())
}

func TestRecordGrowsCorpusByOne(t *testing.T) {
	classifier := NewClassifier(ClassifierConfig{})
	classifier.SeedCorpus(scienceCorpus())
	before := classifier.CorpusSize()

	require.NoError(t, classifier.Record(TrainingSample{
		Text: "Balance this redox reaction", Subject: SubjectChemistry, Difficulty: DifficultyMedium,
	}))
	assert.Equal(t, before+1, classifier.CorpusSize())

	// Duplicate text still grows the corpus; dedup is an administrative path.
	require.NoError(t, classifier.Record(TrainingSample{
		Text: "Balance this redox reaction", Subject: SubjectChemistry, Difficulty: DifficultyMedium,
	}))
	assert.Equal(t, before+2, classifier.CorpusSize())
}

func TestRecordNormalizesTokens(t *testing.T) {
	classifier := NewClassifier(ClassifierConfig{})
	require.NoError(t, classifier.Record(TrainingSample{
		Text: "What caused the French Revolution?", Subject: SubjectHistory, Difficulty: DifficultyMedium,
	}))

	corpus := classifier.Corpus()
	require.Len(t, corpus, 1)
	assert.Equal(t, Normalize("What caused the French Revolution?"), corpus[0].Tokens)
	assert.False(t, corpus[0].CreatedAt.IsZero())
}

func TestMaybeRetrainBelowThresholdIsNoOp(t *testing.T) {
	classifier := NewClassifier(ClassifierConfig{RetrainThreshold: 10})
	classifier.SeedCorpus(scienceCorpus())
	require.NoError(t, classifier.ForceRetrain())

	before := classifier.Snapshot()
	require.NotNil(t, before)

	require.NoError(t, classifier.Record(TrainingSample{
		Text: "What is kinetic energy?", Subject: SubjectPhysics, Difficulty: DifficultyEasy,
	}))

	retrained, err := classifier.MaybeRetrain()
	require.NoError(t, err)
	assert.False(t, retrained)

	// The published snapshot is the same object, not a rebuilt equivalent.
	assert.Same(t, before, classifier.Snapshot())
}

func TestMaybeRetrainAtThreshold(t *testing.T) {
	classifier := NewClassifier(ClassifierConfig{RetrainThreshold: 2})
	classifier.SeedCorpus(scienceCorpus())
	require.NoError(t, classifier.ForceRetrain())
	before := classifier.Snapshot()

	require.NoError(t, classifier.Record(TrainingSample{
		Text: "What is an acid base reaction?", Subject: SubjectChemistry, Difficulty: DifficultyEasy,
	}))
	require.NoError(t, classifier.Record(TrainingSample{
		Text: "Explain the periodic table", Subject: SubjectChemistry, Difficulty: DifficultyEasy,
	}))

	retrained, err := classifier.MaybeRetrain()
	require.NoError(t, err)
	assert.True(t, retrained)

	after := classifier.Snapshot()
	assert.NotSame(t, before, after)
	assert.Equal(t, len(scienceCorpus())+2, after.CorpusSize)

	// The counter reset: the next call is a no-op again.
	retrained, err = classifier.MaybeRetrain()
	require.NoError(t, err)
	assert.False(t, retrained)
	assert.Same(t, after, classifier.Snapshot())
}

func TestRecordAndMaybeRetrain(t *testing.T) {
	classifier := NewClassifier(ClassifierConfig{RetrainThreshold: 1})
	classifier.SeedCorpus(scienceCorpus())

	retrained, err := classifier.RecordAndMaybeRetrain(
		"What is the capital of France?", SubjectGeography, DifficultyEasy)
	require.NoError(t, err)
	assert.True(t, retrained)
	require.NotNil(t, classifier.Snapshot())

	_, err = classifier.RecordAndMaybeRetrain("bad", "Astrology", DifficultyEasy)
	var unknown *UnknownLabelError
	require.ErrorAs(t, err, &unknown)
}

func TestFailedRebuildKeepsPreviousModel(t *testing.T) {
	classifier := NewClassifier(ClassifierConfig{})
	classifier.SeedCorpus(scienceCorpus())
	require.NoError(t, classifier.ForceRetrain())
	before := classifier.Snapshot()

	classifier.ResetCorpus()
	err := classifier.ForceRetrain()
	var insufficient *InsufficientDataError
	require.ErrorAs(t, err, &insufficient)

	// Classification still serves the last good model.
	assert.Same(t, before, classifier.Snapshot())
	result, err := classifier.ClassifySubject("How do plants convert light into energy?")
	require.NoError(t, err)
	assert.Equal(t, string(SubjectBiology), result.Label)
}

func TestSnapshotRoundTrip(t *testing.T) {
	classifier := NewClassifier(ClassifierConfig{})
	classifier.SeedCorpus(scienceCorpus())
	require.NoError(t, classifier.ForceRetrain())
	snap := classifier.Snapshot()

	restored := NewClassifier(ClassifierConfig{})
	restored.RestoreSnapshot(snap)

	want, err := classifier.ClassifySubject("How do plants convert light into energy?")
	require.NoError(t, err)
	got, err := restored.ClassifySubject("How do plants convert light into energy?")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClassifierMetrics(t *testing.T) {
	classifier := NewClassifier(ClassifierConfig{RetrainThreshold: 100})
	classifier.SeedCorpus(scienceCorpus())
	require.NoError(t, classifier.ForceRetrain())

	_, err := classifier.ClassifySubject("What is DNA?")
	require.NoError(t, err)
	_, err = classifier.ClassifyDifficulty("What is DNA?")
	require.NoError(t, err)

	require.NoError(t, classifier.Record(TrainingSample{
		Text: "What is DNA?", Subject: SubjectBiology, Difficulty: DifficultyEasy,
	}))

	m := classifier.Metrics()
	assert.Equal(t, len(scienceCorpus())+1, m.CorpusSize)
	assert.Equal(t, 1, m.PendingSamples)
	assert.Equal(t, 1, m.Retrains)
	assert.Equal(t, int64(2), m.TotalClassifications)
	assert.False(t, m.ModelBuiltAt.IsZero())
}
