package main

import (
	"database/sql"
	"encoding/csv"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	edusolve "github.com/subhampadhi33537-collab/EduSolve-Ai"

	"github.com/gorilla/sessions"
)

const (
	sessionName      = "edusolve-session"
	recentKey        = "recent_questions"
	maxRecentTracked = 50
)

func init() {
	gob.Register([]string{})
}

// Server holds the HTTP handler dependencies
type Server struct {
	service *edusolve.Service
	store   *sessions.CookieStore
}

// NewServer creates the API server
func NewServer(service *edusolve.Service, store *sessions.CookieStore) *Server {
	return &Server{service: service, store: store}
}

// Routes registers every API endpoint on the mux
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", s.withCORS(s.handleHealth))
	mux.HandleFunc("/api/ask", s.withCORS(s.handleAsk))
	mux.HandleFunc("/api/batch-ask", s.withCORS(s.handleBatchAsk))
	mux.HandleFunc("/api/subjects", s.withCORS(s.handleSubjects))
	mux.HandleFunc("/api/difficulties", s.withCORS(s.handleDifficulties))
	mux.HandleFunc("/api/history", s.withCORS(s.handleHistory))
	mux.HandleFunc("/api/stats", s.withCORS(s.handleStats))
	mux.HandleFunc("/api/search", s.withCORS(s.handleSearch))
	mux.HandleFunc("/api/feedback", s.withCORS(s.handleFeedback))
	mux.HandleFunc("/api/export", s.withCORS(s.handleExport))
	mux.HandleFunc("/api/clear-data", s.withCORS(s.handleClearData))
	mux.HandleFunc("/api/delete-record/", s.withCORS(s.handleDeleteRecord))
}

// apiResponse is the JSON envelope shared by every endpoint
type apiResponse struct {
	Status     string      `json:"status"`
	Code       string      `json:"code,omitempty"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
}

func writeJSON(w http.ResponseWriter, httpStatus int, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, httpStatus int, code, message string) {
	writeJSON(w, httpStatus, apiResponse{Status: "error", Code: code, Message: message})
}

func (s *Server) withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
		return
	}

	metrics := s.service.Classifier().Metrics()
	writeJSON(w, http.StatusOK, apiResponse{
		Status:  "success",
		Message: "EduSolve AI backend is operational",
		Data: map[string]interface{}{
			"timestamp":        time.Now().Format(time.RFC3339),
			"database_records": metrics.CorpusSize,
			"model_built_at":   metrics.ModelBuiltAt,
			"version":          "2.0",
		},
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "MISSING_QUESTION", "Missing required field: question")
		return
	}

	interaction, err := s.service.Ask(r.Context(), req.Question)
	switch {
	case errors.Is(err, edusolve.ErrQuestionTooShort):
		writeError(w, http.StatusBadRequest, "QUESTION_TOO_SHORT",
			fmt.Sprintf("Question must be at least %d characters long", edusolve.MinQuestionLength))
		return
	case errors.Is(err, edusolve.ErrQuestionTooLong):
		writeError(w, http.StatusBadRequest, "QUESTION_TOO_LONG",
			fmt.Sprintf("Question must be less than %d characters", edusolve.MaxQuestionLength))
		return
	case err != nil:
		log.Printf("Ask failed: %v", err)
		writeError(w, http.StatusInternalServerError, "API_ERROR", "Failed to generate explanation")
		return
	}

	s.trackRecentQuestion(w, r, interaction.ID)

	writeJSON(w, http.StatusOK, apiResponse{
		Status:  "success",
		Code:    "QUESTION_PROCESSED",
		Message: "Question processed successfully",
		Data:    interaction,
	})
}

func (s *Server) handleBatchAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
		return
	}

	var req struct {
		Questions []string `json:"questions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Questions) == 0 {
		writeError(w, http.StatusBadRequest, "MISSING_QUESTIONS", "Questions must be a non-empty list")
		return
	}
	if len(req.Questions) > 100 {
		writeError(w, http.StatusBadRequest, "BATCH_TOO_LARGE", "Maximum 100 questions allowed per batch")
		return
	}

	results := s.service.BatchClassify(req.Questions)
	writeJSON(w, http.StatusOK, apiResponse{
		Status: "success",
		Code:   "BATCH_PROCESSED",
		Data:   results,
	})
}

func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiResponse{
		Status: "success",
		Data: map[string]interface{}{
			"subjects": edusolve.Subjects,
			"count":    len(edusolve.Subjects),
		},
	})
}

func (s *Server) handleDifficulties(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiResponse{
		Status: "success",
		Data: map[string]interface{}{
			"difficulties": edusolve.Difficulties,
			"count":        len(edusolve.Difficulties),
		},
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
		return
	}

	filter := edusolve.HistoryFilter{
		Subject:    r.URL.Query().Get("subject"),
		Difficulty: r.URL.Query().Get("difficulty"),
		Page:       queryInt(r, "page", 1),
		PerPage:    queryInt(r, "per_page", 20),
	}

	if r.URL.Query().Get("mine") == "true" {
		ids := s.recentQuestions(r)
		if len(ids) == 0 {
			writeJSON(w, http.StatusOK, apiResponse{Status: "success", Data: []edusolve.Interaction{}})
			return
		}
		filter.IDs = ids
	}

	interactions, total, err := s.service.Store().GetHistory(filter)
	if err != nil {
		log.Printf("Failed to get history: %v", err)
		writeError(w, http.StatusInternalServerError, "HISTORY_ERROR", "Failed to retrieve history")
		return
	}

	totalPages := (total + filter.PerPage - 1) / filter.PerPage
	writeJSON(w, http.StatusOK, apiResponse{
		Status: "success",
		Data:   interactions,
		Pagination: map[string]int{
			"total_records": total,
			"page":          filter.Page,
			"per_page":      filter.PerPage,
			"total_pages":   totalPages,
		},
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
		return
	}

	stats, err := s.service.Store().GetStats()
	if err != nil {
		log.Printf("Failed to get stats: %v", err)
		writeError(w, http.StatusInternalServerError, "STATS_ERROR", "Failed to retrieve statistics")
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Status: "success",
		Data: map[string]interface{}{
			"total_questions": stats.TotalQuestions,
			"subjects":        stats.Subjects,
			"difficulties":    stats.Difficulties,
			"statistics": map[string]interface{}{
				"total_words":             stats.TotalWords,
				"average_question_length": stats.AverageQuestionLength,
				"timestamp":               time.Now().Format(time.RFC3339),
			},
			"model": s.service.Classifier().Metrics(),
		},
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) < 2 {
		writeError(w, http.StatusBadRequest, "QUERY_TOO_SHORT", "Search query must be at least 2 characters")
		return
	}

	results, err := s.service.Store().SearchInteractions(query, 50)
	if err != nil {
		log.Printf("Search failed: %v", err)
		writeError(w, http.StatusInternalServerError, "SEARCH_ERROR", "Search failed")
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Status: "success",
		Data: map[string]interface{}{
			"results":     results,
			"total_found": len(results),
		},
	})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
		return
	}

	var req struct {
		QuestionID string `json:"question_id"`
		Rating     int    `json:"rating"`
		Comment    string `json:"comment"`
		Helpful    bool   `json:"helpful"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FEEDBACK_ID", "Missing required field: question_id")
		return
	}

	fb, err := s.service.SubmitFeedback(req.QuestionID, req.Rating, req.Comment, req.Helpful)
	if err != nil {
		log.Printf("Failed to save feedback: %v", err)
		writeError(w, http.StatusInternalServerError, "FEEDBACK_ERROR", "Failed to submit feedback")
		return
	}

	writeJSON(w, http.StatusCreated, apiResponse{
		Status:  "success",
		Code:    "FEEDBACK_SAVED",
		Message: "Feedback submitted successfully",
		Data:    fb,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
		return
	}

	interactions, _, err := s.service.Store().GetHistory(edusolve.HistoryFilter{Page: 1, PerPage: 1 << 20})
	if err != nil {
		log.Printf("Export failed: %v", err)
		writeError(w, http.StatusInternalServerError, "EXPORT_ERROR", "Export failed")
		return
	}

	stamp := time.Now().Format("20060102_150405")
	switch r.URL.Query().Get("format") {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=edusolve_data_%s.json", stamp))
		if err := json.NewEncoder(w).Encode(interactions); err != nil {
			log.Printf("Failed to encode export: %v", err)
		}
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=edusolve_data_%s.csv", stamp))
		writer := csv.NewWriter(w)
		writer.Write([]string{
			"id", "timestamp", "question", "subject", "subject_confidence",
			"difficulty", "difficulty_confidence", "explanation", "model_used", "tokens_used",
		})
		for _, in := range interactions {
			writer.Write([]string{
				in.ID,
				in.Timestamp.Format(time.RFC3339),
				in.Question,
				string(in.Subject),
				strconv.FormatFloat(in.SubjectConfidence, 'f', 4, 64),
				string(in.Difficulty),
				strconv.FormatFloat(in.DifficultyConfidence, 'f', 4, 64),
				in.Explanation,
				in.ModelUsed,
				strconv.Itoa(in.TokensUsed),
			})
		}
		writer.Flush()
	default:
		writeError(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", "Unsupported format. Use csv or json")
	}
}

func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
		return
	}

	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Confirm {
		writeError(w, http.StatusBadRequest, "CONFIRMATION_REQUIRED", "Please set confirm to true to delete all data")
		return
	}

	if err := s.service.ClearAllData(); err != nil {
		log.Printf("Failed to clear data: %v", err)
		writeError(w, http.StatusInternalServerError, "CLEAR_ERROR", "Failed to clear data")
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Status:  "success",
		Code:    "DATA_CLEARED",
		Message: "All training data cleared",
	})
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/delete-record/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_RECORD_ID", "Record ID is required")
		return
	}

	err := s.service.Store().DeleteInteraction(id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "RECORD_NOT_FOUND", "Record not found")
		return
	}
	if err != nil {
		log.Printf("Failed to delete record: %v", err)
		writeError(w, http.StatusInternalServerError, "DELETE_ERROR", "Failed to delete record")
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Status:  "success",
		Code:    "RECORD_DELETED",
		Message: "Record deleted successfully",
	})
}

// trackRecentQuestion remembers the interaction in the caller's session so
// the history endpoint can serve a "mine" view
func (s *Server) trackRecentQuestion(w http.ResponseWriter, r *http.Request, id string) {
	session, _ := s.store.Get(r, sessionName)

	recent := s.recentQuestions(r)
	recent = append(recent, id)
	if len(recent) > maxRecentTracked {
		recent = recent[len(recent)-maxRecentTracked:]
	}

	session.Values[recentKey] = recent
	if err := session.Save(r, w); err != nil {
		log.Printf("Session save error: %v", err)
	}
}

func (s *Server) recentQuestions(r *http.Request) []string {
	session, _ := s.store.Get(r, sessionName)
	recent, _ := session.Values[recentKey].([]string)
	return recent
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
