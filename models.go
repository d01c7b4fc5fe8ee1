package edusolve

import "time"

// Subject is one of the fixed subject categories rendered by the dashboard
type Subject string

const (
	SubjectMathematics Subject = "Mathematics"
	SubjectPhysics     Subject = "Physics"
	SubjectChemistry   Subject = "Chemistry"
	SubjectBiology     Subject = "Biology"
	SubjectEnglish     Subject = "English"
	SubjectHistory     Subject = "History"
	SubjectGeography   Subject = "Geography"
)

// Subjects is the fixed subject set in tie-break order
var Subjects = []Subject{
	SubjectMathematics,
	SubjectPhysics,
	SubjectChemistry,
	SubjectBiology,
	SubjectEnglish,
	SubjectHistory,
	SubjectGeography,
}

// Difficulty is one of the fixed difficulty levels
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Difficulties is the fixed difficulty set in tie-break order
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseSubject validates a raw subject label against the fixed set
func ParseSubject(s string) (Subject, error) {
	for _, subject := range Subjects {
		if string(subject) == s {
			return subject, nil
		}
	}
	return "", &UnknownLabelError{Kind: "subject", Label: s}
}

// ParseDifficulty validates a raw difficulty label against the fixed set
func ParseDifficulty(s string) (Difficulty, error) {
	for _, difficulty := range Difficulties {
		if string(difficulty) == s {
			return difficulty, nil
		}
	}
	return "", &UnknownLabelError{Kind: "difficulty", Label: s}
}

// TrainingSample is a single labeled question in the corpus. Immutable once
// recorded; the corpus only grows except for an explicit administrative reset.
type TrainingSample struct {
	Text       string     `json:"text"`
	Tokens     []string   `json:"tokens"`
	Subject    Subject    `json:"subject"`
	Difficulty Difficulty `json:"difficulty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ClassificationResult is the label plus calibrated confidence for one request
type ClassificationResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classification bundles both classifier outputs for a question
type Classification struct {
	Subject              Subject    `json:"subject"`
	SubjectConfidence    float64    `json:"subject_confidence"`
	Difficulty           Difficulty `json:"difficulty"`
	DifficultyConfidence float64    `json:"difficulty_confidence"`
}

// Interaction is one answered question as stored in the history log
type Interaction struct {
	ID                   string     `json:"id"`
	Timestamp            time.Time  `json:"timestamp"`
	Question             string     `json:"question"`
	ProcessedText        string     `json:"processed_text"`
	Tokens               []string   `json:"tokens"`
	Subject              Subject    `json:"subject"`
	SubjectConfidence    float64    `json:"subject_confidence"`
	Difficulty           Difficulty `json:"difficulty"`
	DifficultyConfidence float64    `json:"difficulty_confidence"`
	Explanation          string     `json:"explanation"`
	ModelUsed            string     `json:"model_used"`
	TokensUsed           int        `json:"tokens_used"`
}

// Feedback is a student rating of an explanation
type Feedback struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	Helpful    bool      `json:"helpful"`
	Timestamp  time.Time `json:"timestamp"`
}

// Explanation is the generative model's answer plus usage metadata
type Explanation struct {
	Text       string `json:"text"`
	ModelUsed  string `json:"model_used"`
	TokensUsed int    `json:"tokens_used"`
}
