// Package validate enforces sheet-wide consistency on evaluation records:
// marks bounds, skip-status correctness, duplicate question IDs and
// agreement with the original inputs. Violations are repaired in place and
// every repair is reported; validation never rejects a sheet.
package validate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/yashvini-chirri/evalmate/internal/i18n"
	"github.com/yashvini-chirri/evalmate/internal/model"
)

// Validator checks and repairs per-sheet record lists.
type Validator struct{}

// New creates a Validator.
func New() *Validator {
	return &Validator{}
}

// Validate returns a corrected copy of records plus a log entry for every
// correction made. Validating an already-consistent list returns an
// identical list and an empty log.
func (v *Validator) Validate(ctx context.Context, inputs []model.QuestionInput, records []model.EvaluationRecord) ([]model.EvaluationRecord, []string) {
	var log []string

	inputByID := lo.KeyBy(inputs, func(q model.QuestionInput) int { return q.ID })

	corrected := make([]model.EvaluationRecord, 0, len(records))
	seen := make(map[int]bool, len(records))

	for _, rec := range records {
		if seen[rec.QuestionID] {
			log = append(log, fmt.Sprintf("duplicate question ID: %d", rec.QuestionID))
			continue
		}
		seen[rec.QuestionID] = true

		if in, ok := inputByID[rec.QuestionID]; ok {
			corrected = append(corrected, v.validateRecord(ctx, rec, in, &log))
		} else {
			log = append(log, fmt.Sprintf("question %d: no matching input for record", rec.QuestionID))
			if rec.Status == model.StatusSkipped && rec.MarksObtained != 0 {
				log = append(log, fmt.Sprintf("question %d: skipped question has non-zero marks", rec.QuestionID))
				rec.MarksObtained = 0
			}
			corrected = append(corrected, rec)
		}
	}

	// Synthesize records for inputs the scoring stage never reported on.
	for _, in := range inputs {
		if seen[in.ID] {
			continue
		}
		log = append(log, fmt.Sprintf("question %d: missing evaluation result", in.ID))
		corrected = append(corrected, v.missingRecord(ctx, in))
		seen[in.ID] = true
	}

	if !sort.SliceIsSorted(corrected, func(i, j int) bool {
		return corrected[i].QuestionID < corrected[j].QuestionID
	}) {
		log = append(log, "records out of order: sorted by question ID")
		sort.SliceStable(corrected, func(i, j int) bool {
			return corrected[i].QuestionID < corrected[j].QuestionID
		})
	}
	return corrected, log
}

func (v *Validator) validateRecord(ctx context.Context, rec model.EvaluationRecord, in model.QuestionInput, log *[]string) model.EvaluationRecord {
	answer := strings.TrimSpace(in.StudentAnswer)
	maxMarks := max(in.MaxMarks, 0)

	if rec.StudentAnswer != answer {
		*log = append(*log, fmt.Sprintf("question %d: student answer mismatch in record", rec.QuestionID))
		rec.StudentAnswer = answer
	}
	if rec.ModelAnswer != in.ModelAnswer {
		*log = append(*log, fmt.Sprintf("question %d: model answer mismatch in record", rec.QuestionID))
		rec.ModelAnswer = in.ModelAnswer
	}
	if rec.MarksAllocated != maxMarks {
		*log = append(*log, fmt.Sprintf("question %d: marks allocation mismatch - expected %d, got %d",
			rec.QuestionID, maxMarks, rec.MarksAllocated))
		rec.MarksAllocated = maxMarks
	}

	if answer == "" {
		if rec.Status != model.StatusSkipped || rec.MarksObtained != 0 || !rec.ScoreVector.IsZero() {
			*log = append(*log, fmt.Sprintf("question %d: unanswered question incorrectly awarded %d marks",
				rec.QuestionID, rec.MarksObtained))
			rec.Status = model.StatusSkipped
			rec.ScoreVector = model.ScoreVector{}
			rec.MarksObtained = 0
			rec.FeedbackBundle = model.FeedbackBundle{
				Feedback: i18n.T(ctx, "FeedbackNotAttempted"),
				Errors:   []string{i18n.T(ctx, "ErrorNotAnswered")},
			}
		}
		return rec
	}

	// Answered questions keep an evaluation_failed status; anything else
	// that is not "evaluated" is repaired.
	if rec.Status != model.StatusEvaluated && rec.Status != model.StatusFailed {
		*log = append(*log, fmt.Sprintf("question %d: answered question has status %q", rec.QuestionID, rec.Status))
		rec.Status = model.StatusEvaluated
	}
	if rec.MarksObtained < 0 || rec.MarksObtained > maxMarks {
		*log = append(*log, fmt.Sprintf("question %d: invalid marks %d (expected 0-%d)",
			rec.QuestionID, rec.MarksObtained, maxMarks))
		rec.MarksObtained = min(max(rec.MarksObtained, 0), maxMarks)
	}
	return rec
}

func (v *Validator) missingRecord(ctx context.Context, in model.QuestionInput) model.EvaluationRecord {
	rec := model.EvaluationRecord{
		QuestionID:     in.ID,
		StudentAnswer:  strings.TrimSpace(in.StudentAnswer),
		ModelAnswer:    in.ModelAnswer,
		MarksAllocated: max(in.MaxMarks, 0),
		OCRConfidence:  in.OCRConfidence,
	}
	if rec.StudentAnswer == "" {
		rec.Status = model.StatusSkipped
		rec.FeedbackBundle = model.FeedbackBundle{
			Feedback: i18n.T(ctx, "FeedbackNotAttempted"),
			Errors:   []string{i18n.T(ctx, "ErrorNotAnswered")},
		}
	} else {
		rec.Status = model.StatusFailed
		rec.FeedbackBundle = model.FeedbackBundle{
			Feedback: i18n.T(ctx, "FeedbackUnavailable"),
			Errors:   []string{i18n.T(ctx, "ErrorEvaluationFailed")},
		}
	}
	return rec
}
