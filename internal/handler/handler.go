// Package handler exposes the evaluation pipeline and sheet store over a
// JSON HTTP API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yashvini-chirri/evalmate/internal/model"
	"github.com/yashvini-chirri/evalmate/internal/pipeline"
	"github.com/yashvini-chirri/evalmate/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store *store.Store
	pipe  *pipeline.Pipeline
}

// New creates a new Handler.
func New(s *store.Store, p *pipeline.Pipeline) *Handler {
	return &Handler{store: s, pipe: p}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Post("/api/sheets", h.handleEvaluateSheet)
	r.Get("/api/sheets", h.handleListSheets)
	r.Get("/api/sheets/{sheetID}", h.handleGetSheet)
}

// sheetRequest is the upload payload. ExtractedText is accepted as an
// alias for StudentAnswer, matching OCR-stage output.
type sheetRequest struct {
	Questions []struct {
		ID            int      `json:"question_id"`
		StudentAnswer string   `json:"student_answer"`
		ExtractedText string   `json:"extracted_text"`
		ModelAnswer   string   `json:"model_answer"`
		MaxMarks      int      `json:"max_marks"`
		Type          string   `json:"question_type"`
		OCRConfidence *float64 `json:"ocr_confidence"`
	} `json:"questions"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleEvaluateSheet(w http.ResponseWriter, r *http.Request) {
	var req sheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	inputs := make([]model.QuestionInput, 0, len(req.Questions))
	for _, q := range req.Questions {
		answer := q.StudentAnswer
		if strings.TrimSpace(answer) == "" {
			answer = q.ExtractedText
		}
		// An absent field means confidence was not measured; an explicit
		// zero is kept as-is.
		conf := 1.0
		if q.OCRConfidence != nil {
			conf = *q.OCRConfidence
		}
		inputs = append(inputs, model.QuestionInput{
			ID:            q.ID,
			StudentAnswer: answer,
			ModelAnswer:   q.ModelAnswer,
			MaxMarks:      q.MaxMarks,
			Type:          model.ParseQuestionType(q.Type),
			OCRConfidence: conf,
		})
	}

	summary, err := h.pipe.Evaluate(r.Context(), inputs)
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptySheet) || errors.Is(err, pipeline.ErrNoMarksAllocated) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("sheet evaluation failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	stored, err := h.store.SaveSummary(*summary)
	if err != nil {
		slog.Error("save sheet failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (h *Handler) handleListSheets(w http.ResponseWriter, r *http.Request) {
	infos, err := h.store.ListSheets()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if infos == nil {
		infos = []model.SheetInfo{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *Handler) handleGetSheet(w http.ResponseWriter, r *http.Request) {
	sheetID := chi.URLParam(r, "sheetID")
	stored, err := h.store.GetSummary(sheetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "sheet not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
