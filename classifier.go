package edusolve

import (
	"sync"
	"sync/atomic"
	"time"
)

// Classifier owns the labeled corpus and the current model snapshot. Requests
// that only classify read an immutable snapshot through an atomic pointer and
// run fully in parallel; Record and retraining are serialized behind a single
// writer mutex. A rebuild never publishes partial state: the new snapshot is
// swapped in only after the vocabulary and both label models are complete.

// ModelSnapshot is one fully built generation of the classification models.
// Serializable so that classification quality survives process restarts.
type ModelSnapshot struct {
	Vocab      Vocabulary       `json:"vocab"`
	IDF        FeatureWeights   `json:"idf"`
	Subject    *classifierModel `json:"subject"`
	Difficulty *classifierModel `json:"difficulty"`
	CorpusSize int              `json:"corpus_size"`
	BuiltAt    time.Time        `json:"built_at"`
}

// ClassifierConfig tunes corpus and retraining policy
type ClassifierConfig struct {
	// RetrainThreshold is the number of newly recorded samples that triggers
	// a rebuild from MaybeRetrain. Defaults to 10.
	RetrainThreshold int
	// MinTrainingSamples is the smallest corpus a rebuild accepts. Defaults to 1.
	MinTrainingSamples int
}

func (c *ClassifierConfig) applyDefaults() {
	if c.RetrainThreshold <= 0 {
		c.RetrainThreshold = 10
	}
	if c.MinTrainingSamples <= 0 {
		c.MinTrainingSamples = 1
	}
}

// ClassifierMetrics reports counters for the stats surface
type ClassifierMetrics struct {
	CorpusSize           int       `json:"corpus_size"`
	PendingSamples       int       `json:"pending_samples"`
	Retrains             int       `json:"retrains"`
	TotalClassifications int64     `json:"total_classifications"`
	ModelBuiltAt         time.Time `json:"model_built_at"`
}

// Classifier is the classification service core
type Classifier struct {
	mu         sync.Mutex // serializes corpus mutation and model swaps
	corpus     []TrainingSample
	newSamples int
	retrains   int
	cfg        ClassifierConfig

	snapshot atomic.Pointer[ModelSnapshot]

	classifications atomic.Int64
}

// NewClassifier creates an untrained classifier
func NewClassifier(cfg ClassifierConfig) *Classifier {
	cfg.applyDefaults()
	return &Classifier{cfg: cfg}
}

// SeedCorpus installs a previously persisted corpus without counting the
// samples toward the retraining threshold. Used at process start.
func (c *Classifier) SeedCorpus(samples []TrainingSample) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.corpus = append([]TrainingSample(nil), samples...)
}

// RestoreSnapshot installs a previously persisted model snapshot
func (c *Classifier) RestoreSnapshot(snap *ModelSnapshot) {
	c.snapshot.Store(snap)
}

// Snapshot returns the current model snapshot, nil if never trained
func (c *Classifier) Snapshot() *ModelSnapshot {
	return c.snapshot.Load()
}

// ClassifySubject classifies raw question text into a subject label with a
// calibrated confidence. It never refuses low-confidence input; threshold
// policy belongs to the caller.
func (c *Classifier) ClassifySubject(text string) (ClassificationResult, error) {
	return c.classifyWith(text, func(snap *ModelSnapshot) *classifierModel {
		return snap.Subject
	})
}

// ClassifyDifficulty classifies raw question text into a difficulty label
func (c *Classifier) ClassifyDifficulty(text string) (ClassificationResult, error) {
	return c.classifyWith(text, func(snap *ModelSnapshot) *classifierModel {
		return snap.Difficulty
	})
}

func (c *Classifier) classifyWith(text string, pick func(*ModelSnapshot) *classifierModel) (ClassificationResult, error) {
	snap := c.snapshot.Load()
	if snap == nil {
		return ClassificationResult{}, &InsufficientDataError{Reason: "no trained model available"}
	}

	tokens := Normalize(text)
	vector := vectorize(tokens, snap.Vocab, snap.IDF)

	result, err := pick(snap).classify(vector)
	if err != nil {
		return ClassificationResult{}, err
	}

	c.classifications.Add(1)
	return result, nil
}

// Record validates and appends one labeled sample to the corpus. Samples with
// labels outside the fixed sets are rejected and the corpus stays untouched.
func (c *Classifier) Record(sample TrainingSample) error {
	if _, err := ParseSubject(string(sample.Subject)); err != nil {
		return err
	}
	if _, err := ParseDifficulty(string(sample.Difficulty)); err != nil {
		return err
	}

	if sample.Tokens == nil {
		sample.Tokens = Normalize(sample.Text)
	}
	if sample.CreatedAt.IsZero() {
		sample.CreatedAt = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.corpus = append(c.corpus, sample)
	c.newSamples++
	return nil
}

// MaybeRetrain rebuilds the models when enough new samples have accumulated.
// Below the threshold it is a no-op and the published snapshot is unchanged.
// Returns whether a rebuild happened.
func (c *Classifier) MaybeRetrain() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.newSamples < c.cfg.RetrainThreshold {
		return false, nil
	}
	if err := c.rebuildLocked(); err != nil {
		return false, err
	}
	return true, nil
}

// ForceRetrain unconditionally rebuilds the models from the full corpus.
// On failure the previous snapshot stays in service and no samples are lost.
func (c *Classifier) ForceRetrain() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rebuildLocked()
}

// RecordAndMaybeRetrain is the convenience entry point for the orchestration
// layer: validate and record a confirmed sample, then retrain if due.
func (c *Classifier) RecordAndMaybeRetrain(text string, subject Subject, difficulty Difficulty) (bool, error) {
	err := c.Record(TrainingSample{Text: text, Subject: subject, Difficulty: difficulty})
	if err != nil {
		return false, err
	}
	return c.MaybeRetrain()
}

// rebuildLocked builds a complete new snapshot and swaps it in atomically.
// Callers must hold c.mu.
func (c *Classifier) rebuildLocked() error {
	vocab, idf, err := buildFeatures(c.corpus)
	if err != nil {
		return err
	}

	subjectModel, err := trainClassifier(c.corpus, subjectClasses(), func(s TrainingSample) string {
		return string(s.Subject)
	}, vocab, idf, c.cfg.MinTrainingSamples)
	if err != nil {
		return err
	}

	difficultyModel, err := trainClassifier(c.corpus, difficultyClasses(), func(s TrainingSample) string {
		return string(s.Difficulty)
	}, vocab, idf, c.cfg.MinTrainingSamples)
	if err != nil {
		return err
	}

	c.snapshot.Store(&ModelSnapshot{
		Vocab:      vocab,
		IDF:        idf,
		Subject:    subjectModel,
		Difficulty: difficultyModel,
		CorpusSize: len(c.corpus),
		BuiltAt:    time.Now(),
	})
	c.newSamples = 0
	c.retrains++

	VerboseLog("model rebuilt: %d samples, %d vocabulary terms", len(c.corpus), len(vocab))
	return nil
}

// ResetCorpus drops every recorded sample. Administrative action backing the
// clear-data endpoint; the current snapshot stays in service until the next
// successful rebuild.
func (c *Classifier) ResetCorpus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.corpus = nil
	c.newSamples = 0
}

// Corpus returns a copy of the recorded samples
func (c *Classifier) Corpus() []TrainingSample {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]TrainingSample(nil), c.corpus...)
}

// CorpusSize returns the number of recorded samples
func (c *Classifier) CorpusSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.corpus)
}

// Metrics returns current counters for the stats surface
func (c *Classifier) Metrics() ClassifierMetrics {
	c.mu.Lock()
	corpusSize := len(c.corpus)
	pending := c.newSamples
	retrains := c.retrains
	c.mu.Unlock()

	m := ClassifierMetrics{
		CorpusSize:           corpusSize,
		PendingSamples:       pending,
		Retrains:             retrains,
		TotalClassifications: c.classifications.Load(),
	}
	if snap := c.snapshot.Load(); snap != nil {
		m.ModelBuiltAt = snap.BuiltAt
	}
	return m
}

func subjectClasses() []string {
	classes := make([]string, len(Subjects))
	for i, s := range Subjects {
		classes[i] = string(s)
	}
	return classes
}

func difficultyClasses() []string {
	classes := make([]string, len(Difficulties))
	for i, d := range Difficulties {
		classes[i] = string(d)
	}
	return classes
}
