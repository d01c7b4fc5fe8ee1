package edusolve

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists the interaction history, the training corpus, feedback and
// trained model snapshots
type Store struct {
	db *sql.DB
}

// HistoryFilter narrows a history query
type HistoryFilter struct {
	Subject    string
	Difficulty string
	IDs        []string // when non-empty, restrict to these interaction IDs
	Page       int
	PerPage    int
}

// Stats is the aggregate view backing the statistics dashboard
type Stats struct {
	TotalQuestions        int            `json:"total_questions"`
	Subjects              map[string]int `json:"subjects"`
	Difficulties          map[string]int `json:"difficulties"`
	TotalWords            int            `json:"total_words"`
	AverageQuestionLength float64        `json:"average_question_length"`
}

// OpenStore opens the database and verifies the connection
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateTables creates the necessary tables if they don't exist
func (s *Store) CreateTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS interactions (
			id TEXT PRIMARY KEY,
			timestamp DATETIME NOT NULL,
			question TEXT NOT NULL,
			processed_text TEXT,
			tokens TEXT,
			subject TEXT NOT NULL,
			subject_confidence REAL NOT NULL,
			difficulty TEXT NOT NULL,
			difficulty_confidence REAL NOT NULL,
			explanation TEXT,
			model_used TEXT,
			tokens_used INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS training_samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			text TEXT NOT NULL,
			tokens TEXT NOT NULL,
			subject TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS feedback (
			id TEXT PRIMARY KEY,
			question_id TEXT NOT NULL,
			rating INTEGER NOT NULL,
			comment TEXT,
			helpful INTEGER NOT NULL,
			timestamp DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS model_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			built_at DATETIME NOT NULL,
			corpus_size INTEGER NOT NULL,
			snapshot TEXT NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute %s: %w", query, err)
		}
	}
	return nil
}

// SaveInteraction appends one answered question to the history log
func (s *Store) SaveInteraction(in *Interaction) error {
	tokensJSON, err := json.Marshal(in.Tokens)
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO interactions (id, timestamp, question, processed_text, tokens,
			subject, subject_confidence, difficulty, difficulty_confidence,
			explanation, model_used, tokens_used)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Timestamp, in.Question, in.ProcessedText, string(tokensJSON),
		in.Subject, in.SubjectConfidence, in.Difficulty, in.DifficultyConfidence,
		in.Explanation, in.ModelUsed, in.TokensUsed,
	)
	if err != nil {
		return fmt.Errorf("failed to save interaction: %w", err)
	}
	return nil
}

// GetHistory returns a page of interactions, newest first, with optional
// subject/difficulty/ID filters. The second return value is the total number
// of records matching the filter.
func (s *Store) GetHistory(filter HistoryFilter) ([]Interaction, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}

	if filter.Subject != "" {
		where += " AND subject = ?"
		args = append(args, filter.Subject)
	}
	if filter.Difficulty != "" {
		where += " AND difficulty = ?"
		args = append(args, filter.Difficulty)
	}
	if len(filter.IDs) > 0 {
		where += " AND id IN ("
		for i, id := range filter.IDs {
			if i > 0 {
				where += ","
			}
			where += "?"
			args = append(args, id)
		}
		where += ")"
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM interactions "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count interactions: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 20
	}

	query := `SELECT id, timestamp, question, processed_text, tokens,
			subject, subject_confidence, difficulty, difficulty_confidence,
			explanation, model_used, tokens_used
		FROM interactions ` + where + ` ORDER BY timestamp DESC LIMIT ? OFFSET ?`
	args = append(args, perPage, (page-1)*perPage)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	interactions, err := scanInteractions(rows)
	if err != nil {
		return nil, 0, err
	}
	return interactions, total, nil
}

// SearchInteractions finds interactions whose question contains the query,
// newest first, capped at limit results
func (s *Store) SearchInteractions(query string, limit int) ([]Interaction, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, timestamp, question, processed_text, tokens,
			subject, subject_confidence, difficulty, difficulty_confidence,
			explanation, model_used, tokens_used
		 FROM interactions WHERE question LIKE ? ORDER BY timestamp DESC LIMIT ?`,
		"%"+query+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search interactions: %w", err)
	}
	defer rows.Close()

	return scanInteractions(rows)
}

func scanInteractions(rows *sql.Rows) ([]Interaction, error) {
	var interactions []Interaction
	for rows.Next() {
		var in Interaction
		var tokensJSON string
		err := rows.Scan(&in.ID, &in.Timestamp, &in.Question, &in.ProcessedText, &tokensJSON,
			&in.Subject, &in.SubjectConfidence, &in.Difficulty, &in.DifficultyConfidence,
			&in.Explanation, &in.ModelUsed, &in.TokensUsed)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		if tokensJSON != "" {
			if err := json.Unmarshal([]byte(tokensJSON), &in.Tokens); err != nil {
				return nil, fmt.Errorf("failed to unmarshal tokens: %w", err)
			}
		}
		interactions = append(interactions, in)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interactions: %w", err)
	}
	return interactions, nil
}

// DeleteInteraction removes a single record by ID. Returns sql.ErrNoRows when
// no record matched.
func (s *Store) DeleteInteraction(id string) error {
	result, err := s.db.Exec("DELETE FROM interactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete interaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ClearAll drops every interaction and training sample. Administrative reset.
func (s *Store) ClearAll() error {
	for _, table := range []string{"interactions", "training_samples"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// GetStats aggregates the history log for the statistics dashboard
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{
		Subjects:     make(map[string]int),
		Difficulties: make(map[string]int),
	}

	rows, err := s.db.Query("SELECT question, subject, difficulty FROM interactions")
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var question, subject, difficulty string
		if err := rows.Scan(&question, &subject, &difficulty); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		stats.TotalQuestions++
		stats.Subjects[subject]++
		stats.Difficulties[difficulty]++
		stats.TotalWords += len(strings.Fields(question))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats rows: %w", err)
	}

	if stats.TotalQuestions > 0 {
		stats.AverageQuestionLength = float64(stats.TotalWords) / float64(stats.TotalQuestions)
	}
	return stats, nil
}

// SaveTrainingSample appends one labeled sample to the stored corpus
func (s *Store) SaveTrainingSample(sample TrainingSample) error {
	tokensJSON, err := json.Marshal(sample.Tokens)
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO training_samples (text, tokens, subject, difficulty, created_at) VALUES (?, ?, ?, ?, ?)",
		sample.Text, string(tokensJSON), sample.Subject, sample.Difficulty, sample.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save training sample: %w", err)
	}
	return nil
}

// LoadCorpus reads the full stored corpus in insertion order
func (s *Store) LoadCorpus() ([]TrainingSample, error) {
	rows, err := s.db.Query(
		"SELECT text, tokens, subject, difficulty, created_at FROM training_samples ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	defer rows.Close()

	var corpus []TrainingSample
	for rows.Next() {
		var sample TrainingSample
		var tokensJSON string
		if err := rows.Scan(&sample.Text, &tokensJSON, &sample.Subject, &sample.Difficulty, &sample.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan training sample: %w", err)
		}
		if err := json.Unmarshal([]byte(tokensJSON), &sample.Tokens); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sample tokens: %w", err)
		}
		corpus = append(corpus, sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating training samples: %w", err)
	}
	return corpus, nil
}

// ReplaceCorpus swaps the stored corpus for the given samples in one
// transaction. Used by the administrative dedup cleanup.
func (s *Store) ReplaceCorpus(samples []TrainingSample) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM training_samples"); err != nil {
		return fmt.Errorf("failed to clear training samples: %w", err)
	}

	for _, sample := range samples {
		tokensJSON, err := json.Marshal(sample.Tokens)
		if err != nil {
			return fmt.Errorf("failed to marshal tokens: %w", err)
		}
		_, err = tx.Exec(
			"INSERT INTO training_samples (text, tokens, subject, difficulty, created_at) VALUES (?, ?, ?, ?, ?)",
			sample.Text, string(tokensJSON), sample.Subject, sample.Difficulty, sample.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert training sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit corpus replacement: %w", err)
	}
	return nil
}

// SaveFeedback stores a student rating
func (s *Store) SaveFeedback(fb *Feedback) error {
	_, err := s.db.Exec(
		"INSERT INTO feedback (id, question_id, rating, comment, helpful, timestamp) VALUES (?, ?, ?, ?, ?, ?)",
		fb.ID, fb.QuestionID, fb.Rating, fb.Comment, fb.Helpful, fb.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	return nil
}

// SaveModelSnapshot persists a trained snapshot so classification quality
// survives restarts
func (s *Store) SaveModelSnapshot(snap *ModelSnapshot) error {
	blob, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal model snapshot: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO model_snapshots (built_at, corpus_size, snapshot) VALUES (?, ?, ?)",
		snap.BuiltAt, snap.CorpusSize, string(blob),
	)
	if err != nil {
		return fmt.Errorf("failed to save model snapshot: %w", err)
	}
	return nil
}

// LoadLatestModelSnapshot restores the most recently trained snapshot.
// Returns nil without error when no snapshot has been saved yet.
func (s *Store) LoadLatestModelSnapshot() (*ModelSnapshot, error) {
	var blob string
	err := s.db.QueryRow(
		"SELECT snapshot FROM model_snapshots ORDER BY id DESC LIMIT 1",
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model snapshot: %w", err)
	}

	var snap ModelSnapshot
	if err := json.Unmarshal([]byte(blob), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model snapshot: %w", err)
	}
	return &snap, nil
}
