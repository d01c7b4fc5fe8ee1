package edusolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Question length bounds enforced before any processing
const (
	MinQuestionLength = 3
	MaxQuestionLength = 5000
)

var (
	// ErrQuestionTooShort is returned for questions under MinQuestionLength
	ErrQuestionTooShort = errors.New("question too short")
	// ErrQuestionTooLong is returned for questions over MaxQuestionLength
	ErrQuestionTooLong = errors.New("question too long")
)

// Service orchestrates the ask pipeline: classify, explain, persist, learn
type Service struct {
	classifier *Classifier
	explainer  Explainer
	store      *Store
	retrainer  *RetrainWorker
	cfg        Config
}

// NewService wires the pipeline together. retrainer may be nil, in which case
// retraining runs synchronously on the request path.
func NewService(cfg Config, classifier *Classifier, explainer Explainer, store *Store, retrainer *RetrainWorker) *Service {
	return &Service{
		classifier: classifier,
		explainer:  explainer,
		store:      store,
		retrainer:  retrainer,
		cfg:        cfg,
	}
}

// Ask answers a student question end to end: classification with keyword
// fallback, generated explanation, history persistence, and corpus growth
// with threshold-driven retraining.
func (s *Service) Ask(ctx context.Context, question string) (*Interaction, error) {
	question = strings.TrimSpace(question)
	if len(question) < MinQuestionLength {
		return nil, ErrQuestionTooShort
	}
	if len(question) > MaxQuestionLength {
		return nil, ErrQuestionTooLong
	}

	tokens := Normalize(question)
	classification := s.Classify(question)

	explanation, err := s.explainer.GetExplanation(ctx, question, classification.Subject, classification.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to generate explanation: %w", err)
	}

	interaction := &Interaction{
		ID:                   uuid.New().String(),
		Timestamp:            time.Now(),
		Question:             question,
		ProcessedText:        ProcessedText(tokens),
		Tokens:               tokens,
		Subject:              classification.Subject,
		SubjectConfidence:    classification.SubjectConfidence,
		Difficulty:           classification.Difficulty,
		DifficultyConfidence: classification.DifficultyConfidence,
		Explanation:          explanation.Text,
		ModelUsed:            explanation.ModelUsed,
		TokensUsed:           explanation.TokensUsed,
	}

	if err := s.store.SaveInteraction(interaction); err != nil {
		return nil, err
	}

	// Every answered question grows the corpus under its (possibly
	// fallback-corrected) labels; retraining fires once enough accumulate.
	sample := TrainingSample{
		Text:       question,
		Tokens:     tokens,
		Subject:    classification.Subject,
		Difficulty: classification.Difficulty,
		CreatedAt:  interaction.Timestamp,
	}
	if err := s.classifier.Record(sample); err != nil {
		return nil, err
	}
	if err := s.store.SaveTrainingSample(sample); err != nil {
		return nil, err
	}

	if s.retrainer != nil {
		s.retrainer.Notify()
	} else if retrained, err := s.classifier.MaybeRetrain(); err != nil {
		// The previous model stays in service; the answer is still good.
		VerboseLog("retraining failed, keeping previous model: %v", err)
	} else if retrained {
		if err := s.store.SaveModelSnapshot(s.classifier.Snapshot()); err != nil {
			VerboseLog("failed to persist model snapshot: %v", err)
		}
	}

	return interaction, nil
}

// Classify runs both classifiers with keyword fallback and default handling
// for an untrained model. Never fails: an unavailable model degrades to the
// default prediction the dashboard knows how to present.
func (s *Service) Classify(question string) Classification {
	classification := Classification{
		Subject:              SubjectMathematics,
		SubjectConfidence:    0.5,
		Difficulty:           DifficultyMedium,
		DifficultyConfidence: 0.5,
	}

	if result, err := s.classifier.ClassifySubject(question); err == nil {
		subject, confidence := ApplyKeywordFallback(
			question, Subject(result.Label), result.Confidence, s.cfg.MinConfidence)
		classification.Subject = subject
		classification.SubjectConfidence = confidence
	} else {
		VerboseLog("subject classification unavailable: %v", err)
	}

	if result, err := s.classifier.ClassifyDifficulty(question); err == nil {
		classification.Difficulty = Difficulty(result.Label)
		classification.DifficultyConfidence = result.Confidence
	} else {
		VerboseLog("difficulty classification unavailable: %v", err)
	}

	return classification
}

// BatchClassify classifies many questions without calling the generative API
// or touching persistence. Items that fail validation report an error string
// in place of a classification.
func (s *Service) BatchClassify(questions []string) []BatchResult {
	results := make([]BatchResult, 0, len(questions))
	for _, raw := range questions {
		question := strings.TrimSpace(raw)
		if len(question) < MinQuestionLength {
			results = append(results, BatchResult{Question: raw, Error: "question too short"})
			continue
		}
		classification := s.Classify(question)
		results = append(results, BatchResult{
			Question:       question,
			Classification: &classification,
		})
	}
	return results
}

// BatchResult is one entry of a batch classification response
type BatchResult struct {
	Question       string          `json:"question"`
	Classification *Classification `json:"classification,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// SubmitFeedback stores a rating for a previously answered question
func (s *Service) SubmitFeedback(questionID string, rating int, comment string, helpful bool) (*Feedback, error) {
	fb := &Feedback{
		ID:         uuid.New().String(),
		QuestionID: questionID,
		Rating:     rating,
		Comment:    comment,
		Helpful:    helpful,
		Timestamp:  time.Now(),
	}
	if err := s.store.SaveFeedback(fb); err != nil {
		return nil, err
	}
	return fb, nil
}

// ClearAllData wipes the history log and the corpus. The trained snapshot
// stays in service until the next successful rebuild.
func (s *Service) ClearAllData() error {
	if err := s.store.ClearAll(); err != nil {
		return err
	}
	s.classifier.ResetCorpus()
	return nil
}

// Store exposes the underlying store to the HTTP layer
func (s *Service) Store() *Store {
	return s.store
}

// Classifier exposes the classification core to the HTTP layer
func (s *Service) Classifier() *Classifier {
	return s.classifier
}
