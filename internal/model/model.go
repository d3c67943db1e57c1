package model

import (
	"strings"
	"time"
)

// QuestionType selects the weight profile used when aggregating sub-scores.
type QuestionType string

const (
	TypeMCQ   QuestionType = "MCQ"
	TypeShort QuestionType = "Short"
	TypeLong  QuestionType = "Long"
	TypeEssay QuestionType = "Essay"
	// TypeOther is the fallback for unknown or missing question types.
	TypeOther QuestionType = "Other"
)

// ParseQuestionType maps a free-form type string to a known QuestionType.
// Unknown values fall back to TypeOther.
func ParseQuestionType(s string) QuestionType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mcq", "multiple_choice", "multiple choice":
		return TypeMCQ
	case "short":
		return TypeShort
	case "long":
		return TypeLong
	case "essay":
		return TypeEssay
	default:
		return TypeOther
	}
}

// Status represents the evaluation status of a single question record.
type Status string

const (
	StatusSkipped   Status = "skipped"
	StatusEvaluated Status = "evaluated"
	StatusFailed    Status = "evaluation_failed"
)

// QuestionInput is one question's worth of caller-supplied data: the
// student's extracted answer, the model answer, the mark budget and the
// OCR confidence reported by the upstream extraction step.
type QuestionInput struct {
	ID            int          `json:"question_id"`
	StudentAnswer string       `json:"student_answer"`
	ModelAnswer   string       `json:"model_answer"`
	MaxMarks      int          `json:"max_marks"`
	Type          QuestionType `json:"question_type"`
	OCRConfidence float64      `json:"ocr_confidence"`
}

// ScoreVector holds the five sub-scores and the aggregated final score,
// all in [0,1].
type ScoreVector struct {
	SemanticSimilarity      float64 `json:"semantic_similarity"`
	ConceptualUnderstanding float64 `json:"conceptual_understanding"`
	FactualAccuracy         float64 `json:"factual_accuracy"`
	Completeness            float64 `json:"completeness"`
	Coherence               float64 `json:"coherence"`
	FinalScore              float64 `json:"final_score"`
}

// IsZero reports whether every component of the vector is exactly zero.
func (v ScoreVector) IsZero() bool {
	return v == ScoreVector{}
}

// FeedbackBundle holds the human-readable evaluation output for one answer.
type FeedbackBundle struct {
	Feedback  string   `json:"feedback"`
	Strengths []string `json:"strengths"`
	Errors    []string `json:"error_analysis"`
}

// EvaluationRecord is the complete per-question result assembled by the
// pipeline and checked by the validator.
type EvaluationRecord struct {
	QuestionID     int    `json:"question_id"`
	StudentAnswer  string `json:"student_answer"`
	ModelAnswer    string `json:"model_answer"`
	MarksAllocated int    `json:"marks_allocated"`
	MarksObtained  int    `json:"marks_obtained"`
	Status         Status `json:"status"`
	ScoreVector
	FeedbackBundle
	OCRConfidence float64 `json:"ocr_confidence"`
}

// SheetSummary is the terminal output for one answer sheet.
type SheetSummary struct {
	TotalMarks    int                `json:"total_marks"`
	ObtainedMarks int                `json:"obtained_marks"`
	Percentage    float64            `json:"percentage"`
	Grade         string             `json:"grade"`
	Records       []EvaluationRecord `json:"records"`
	AnsweredCount int                `json:"answered_count"`
	SkippedCount  int                `json:"skipped_count"`
	// Errors collects input-shape problems, scoring failures and every
	// correction the validator applied. Empty for a clean sheet.
	Errors []string `json:"errors,omitempty"`
}

// StoredSheet wraps a persisted SheetSummary with its storage identity.
type StoredSheet struct {
	SheetID   string       `json:"sheet_id"`
	CreatedAt time.Time    `json:"created_at"`
	Summary   SheetSummary `json:"summary"`
}

// SheetInfo is the listing view of a stored sheet, without records.
type SheetInfo struct {
	SheetID       string    `json:"sheet_id"`
	CreatedAt     time.Time `json:"created_at"`
	TotalMarks    int       `json:"total_marks"`
	ObtainedMarks int       `json:"obtained_marks"`
	Percentage    float64   `json:"percentage"`
	Grade         string    `json:"grade"`
}

// SheetExport is the top-level JSON structure for the export command.
type SheetExport struct {
	ExportedAt time.Time     `json:"exported_at"`
	NumSheets  int           `json:"num_sheets"`
	Sheets     []StoredSheet `json:"sheets"`
}
