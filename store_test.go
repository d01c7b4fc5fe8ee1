package edusolve

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.CreateTables())
	return store
}

func testInteraction(question string, subject Subject, difficulty Difficulty, at time.Time) *Interaction {
	tokens := Normalize(question)
	return &Interaction{
		ID:                   uuid.New().String(),
		Timestamp:            at,
		Question:             question,
		ProcessedText:        ProcessedText(tokens),
		Tokens:               tokens,
		Subject:              subject,
		SubjectConfidence:    0.9,
		Difficulty:           difficulty,
		DifficultyConfidence: 0.8,
		Explanation:          "Because of reasons.",
		ModelUsed:            "llama-3.1-8b-instant",
		TokensUsed:           120,
	}
}

func TestSaveAndGetHistory(t *testing.T) {
	store := newTestStore(t)

	base := time.Now().Add(-time.Hour)
	first := testInteraction("What is photosynthesis?", SubjectBiology, DifficultyEasy, base)
	second := testInteraction("What is momentum?", SubjectPhysics, DifficultyMedium, base.Add(time.Minute))
	require.NoError(t, store.SaveInteraction(first))
	require.NoError(t, store.SaveInteraction(second))

	interactions, total, err := store.GetHistory(HistoryFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, interactions, 2)

	// Newest first.
	assert.Equal(t, second.ID, interactions[0].ID)
	assert.Equal(t, first.ID, interactions[1].ID)

	// Round trip preserves the record.
	got := interactions[1]
	assert.Equal(t, first.Question, got.Question)
	assert.Equal(t, first.Tokens, got.Tokens)
	assert.Equal(t, first.Subject, got.Subject)
	assert.InDelta(t, first.SubjectConfidence, got.SubjectConfidence, 1e-9)
	assert.Equal(t, first.Explanation, got.Explanation)
	assert.Equal(t, first.TokensUsed, got.TokensUsed)
}

func TestGetHistoryFilters(t *testing.T) {
	store := newTestStore(t)

	base := time.Now().Add(-time.Hour)
	bio := testInteraction("What is a cell?", SubjectBiology, DifficultyEasy, base)
	phys := testInteraction("What is a force?", SubjectPhysics, DifficultyHard, base.Add(time.Minute))
	require.NoError(t, store.SaveInteraction(bio))
	require.NoError(t, store.SaveInteraction(phys))

	interactions, total, err := store.GetHistory(HistoryFilter{Subject: "Biology"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, interactions, 1)
	assert.Equal(t, bio.ID, interactions[0].ID)

	interactions, total, err = store.GetHistory(HistoryFilter{Difficulty: "Hard"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, phys.ID, interactions[0].ID)

	interactions, total, err = store.GetHistory(HistoryFilter{IDs: []string{phys.ID}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, phys.ID, interactions[0].ID)

	_, total, err = store.GetHistory(HistoryFilter{Subject: "Chemistry"})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestGetHistoryPagination(t *testing.T) {
	store := newTestStore(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		in := testInteraction("What is question number?", SubjectMathematics, DifficultyEasy,
			base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.SaveInteraction(in))
	}

	page1, total, err := store.GetHistory(HistoryFilter{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page1, 2)

	page3, _, err := store.GetHistory(HistoryFilter{Page: 3, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}

func TestSearchInteractions(t *testing.T) {
	store := newTestStore(t)

	base := time.Now()
	require.NoError(t, store.SaveInteraction(
		testInteraction("Explain photosynthesis in plants", SubjectBiology, DifficultyEasy, base)))
	require.NoError(t, store.SaveInteraction(
		testInteraction("What is momentum?", SubjectPhysics, DifficultyMedium, base)))

	results, err := store.SearchInteractions("photosynthesis", 50)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Question, "photosynthesis")

	results, err = store.SearchInteractions("quantum", 50)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDeleteInteraction(t *testing.T) {
	store := newTestStore(t)

	in := testInteraction("What is DNA?", SubjectBiology, DifficultyEasy, time.Now())
	require.NoError(t, store.SaveInteraction(in))

	require.NoError(t, store.DeleteInteraction(in.ID))
	_, total, err := store.GetHistory(HistoryFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)

	err = store.DeleteInteraction("no-such-id")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCorpusRoundTrip(t *testing.T) {
	store := newTestStore(t)

	for _, sample := range scienceCorpus() {
		require.NoError(t, store.SaveTrainingSample(sample))
	}

	corpus, err := store.LoadCorpus()
	require.NoError(t, err)
	require.Len(t, corpus, len(scienceCorpus()))

	// Insertion order and token content survive.
	want := scienceCorpus()
	for i := range corpus {
		assert.Equal(t, want[i].Text, corpus[i].Text)
		assert.Equal(t, want[i].Tokens, corpus[i].Tokens)
		assert.Equal(t, want[i].Subject, corpus[i].Subject)
		assert.Equal(t, want[i].Difficulty, corpus[i].Difficulty)
	}
}

func TestReplaceCorpus(t *testing.T) {
	store := newTestStore(t)

	for _, sample := range scienceCorpus() {
		require.NoError(t, store.SaveTrainingSample(sample))
	}

	replacement := scienceCorpus()[:2]
	require.NoError(t, store.ReplaceCorpus(replacement))

	corpus, err := store.LoadCorpus()
	require.NoError(t, err)
	assert.Len(t, corpus, 2)
}

func TestModelSnapshotRoundTrip(t *testing.T) {
	store := newTestStore(t)

	// Nothing saved yet.
	snap, err := store.LoadLatestModelSnapshot()
	require.NoError(t, err)
	assert.Nil(t, snap)

	classifier := NewClassifier(ClassifierConfig{})
	classifier.SeedCorpus(scienceCorpus())
	require.NoError(t, classifier.ForceRetrain())
	require.NoError(t, store.SaveModelSnapshot(classifier.Snapshot()))

	snap, err = store.LoadLatestModelSnapshot()
	require.NoError(t, err)
	require.NotNil(t, snap)

	// The restored snapshot classifies identically.
	restored := NewClassifier(ClassifierConfig{})
	restored.RestoreSnapshot(snap)
	want, err := classifier.ClassifySubject("How do plants convert light into energy?")
	require.NoError(t, err)
	got, err := restored.ClassifySubject("How do plants convert light into energy?")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLatestSnapshotWins(t *testing.T) {
	store := newTestStore(t)

	classifier := NewClassifier(ClassifierConfig{})
	classifier.SeedCorpus(scienceCorpus()[:3])
	require.NoError(t, classifier.ForceRetrain())
	require.NoError(t, store.SaveModelSnapshot(classifier.Snapshot()))

	classifier.SeedCorpus(scienceCorpus())
	require.NoError(t, classifier.ForceRetrain())
	require.NoError(t, store.SaveModelSnapshot(classifier.Snapshot()))

	snap, err := store.LoadLatestModelSnapshot()
	require.NoError(t, err)
	assert.Equal(t, len(scienceCorpus()), snap.CorpusSize)
}

func TestSaveFeedback(t *testing.T) {
	store := newTestStore(t)

	fb := &Feedback{
		ID:         uuid.New().String(),
		QuestionID: uuid.New().String(),
		Rating:     4,
		Comment:    "Clear explanation",
		Helpful:    true,
		Timestamp:  time.Now(),
	}
	require.NoError(t, store.SaveFeedback(fb))
}

func TestClearAll(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveInteraction(
		testInteraction("What is DNA?", SubjectBiology, DifficultyEasy, time.Now())))
	for _, sample := range scienceCorpus() {
		require.NoError(t, store.SaveTrainingSample(sample))
	}

	require.NoError(t, store.ClearAll())

	_, total, err := store.GetHistory(HistoryFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)

	corpus, err := store.LoadCorpus()
	require.NoError(t, err)
	assert.Empty(t, corpus)
}

func TestGetStats(t *testing.T) {
	store := newTestStore(t)

	base := time.Now()
	require.NoError(t, store.SaveInteraction(
		testInteraction("What is a cell made of?", SubjectBiology, DifficultyEasy, base)))
	require.NoError(t, store.SaveInteraction(
		testInteraction("What is a force?", SubjectPhysics, DifficultyEasy, base)))
	require.NoError(t, store.SaveInteraction(
		testInteraction("Explain gene expression", SubjectBiology, DifficultyHard, base)))

	stats, err := store.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalQuestions)
	assert.Equal(t, 2, stats.Subjects["Biology"])
	assert.Equal(t, 1, stats.Subjects["Physics"])
	assert.Equal(t, 2, stats.Difficulties["Easy"])
	assert.Equal(t, 1, stats.Difficulties["Hard"])
	assert.Greater(t, stats.TotalWords, 0)
	assert.Greater(t, stats.AverageQuestionLength, 0.0)
}

func TestGetStatsEmpty(t *testing.T) {
	store := newTestStore(t)

	stats, err := store.GetStats()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalQuestions)
	assert.Zero(t, stats.AverageQuestionLength)
}
