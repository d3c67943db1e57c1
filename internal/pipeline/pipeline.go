// Package pipeline runs a full answer sheet through feature extraction,
// per-question scoring, validation and aggregation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/yashvini-chirri/evalmate/internal/analyze"
	"github.com/yashvini-chirri/evalmate/internal/feedback"
	"github.com/yashvini-chirri/evalmate/internal/model"
	"github.com/yashvini-chirri/evalmate/internal/score"
	"github.com/yashvini-chirri/evalmate/internal/validate"
)

// Stage names used in log output.
const (
	stageIntake      = "intake"
	stageScoring     = "per_question_scoring"
	stageValidation  = "validation"
	stageAggregation = "aggregation"
	stageDone        = "done"
	stageFailed      = "failed"
)

var (
	// ErrEmptySheet is returned when the sheet has no questions at all.
	ErrEmptySheet = errors.New("no questions to evaluate")
	// ErrNoMarksAllocated is returned when every question on a non-empty
	// sheet has a zero mark budget, which makes a percentage undefined.
	ErrNoMarksAllocated = errors.New("sheet has no marks allocated")
)

// Pipeline evaluates answer sheets. A single Pipeline is safe for
// concurrent use; per-sheet questions are scored in parallel.
type Pipeline struct {
	an    *analyze.Analyzer
	strat score.Strategy
	agg   *score.Aggregator
	fb    *feedback.Generator
	val   *validate.Validator
	limit int
}

// New builds a Pipeline with the built-in heuristic scoring strategy.
func New() *Pipeline {
	an := analyze.New()
	return &Pipeline{
		an:    an,
		strat: score.NewHeuristic(an),
		agg:   score.NewAggregator(),
		fb:    feedback.New(),
		val:   validate.New(),
		limit: 8,
	}
}

// NewWithStrategy builds a Pipeline around a custom scoring strategy.
func NewWithStrategy(strat score.Strategy) *Pipeline {
	p := New()
	p.strat = strat
	return p
}

// Evaluate runs the whole sheet and returns its summary. A failure while
// scoring one question degrades that question only; the error return is
// reserved for sheet-level conditions (empty input, cancellation, a sheet
// with no mark budget).
func (p *Pipeline) Evaluate(ctx context.Context, inputs []model.QuestionInput) (*model.SheetSummary, error) {
	if len(inputs) == 0 {
		return nil, ErrEmptySheet
	}
	slog.Info("sheet evaluation started", "stage", stageIntake, "questions", len(inputs))

	records := make([]model.EvaluationRecord, len(inputs))
	var mu sync.Mutex
	var failures []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.limit)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := p.scoreQuestion(gctx, in)
			if err != nil {
				slog.Error("question scoring failed", "stage", stageScoring, "question_id", in.ID, "error", err)
				mu.Lock()
				failures = append(failures, fmt.Sprintf("question %d: %v", in.ID, err))
				mu.Unlock()
				rec = p.failedRecord(gctx, in)
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("sheet evaluation aborted", "stage", stageFailed, "error", err)
		return nil, fmt.Errorf("scoring sheet: %w", err)
	}
	sort.Strings(failures)

	records, vlog := p.val.Validate(ctx, inputs, records)
	if len(vlog) > 0 {
		slog.Warn("validation corrections applied", "stage", stageValidation, "corrections", len(vlog))
	}

	slog.Debug("aggregating sheet", "stage", stageAggregation, "records", len(records))
	totalMarks := lo.SumBy(records, func(r model.EvaluationRecord) int { return r.MarksAllocated })
	if totalMarks == 0 {
		slog.Error("sheet evaluation aborted", "stage", stageFailed, "error", ErrNoMarksAllocated)
		return nil, ErrNoMarksAllocated
	}
	obtained := lo.SumBy(records, func(r model.EvaluationRecord) int { return r.MarksObtained })
	skipped := lo.CountBy(records, func(r model.EvaluationRecord) bool { return r.Status == model.StatusSkipped })
	percentage := float64(obtained) / float64(totalMarks) * 100

	summary := &model.SheetSummary{
		TotalMarks:    totalMarks,
		ObtainedMarks: obtained,
		Percentage:    percentage,
		Grade:         score.Grade(percentage),
		Records:       records,
		AnsweredCount: len(records) - skipped,
		SkippedCount:  skipped,
		Errors:        append(failures, vlog...),
	}
	slog.Info("sheet evaluation finished", "stage", stageDone,
		"obtained", obtained, "total", totalMarks, "grade", summary.Grade)
	return summary, nil
}

func (p *Pipeline) scoreQuestion(ctx context.Context, in model.QuestionInput) (rec model.EvaluationRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scoring panic: %v", r)
		}
	}()

	answer := strings.TrimSpace(in.StudentAnswer)
	rec = model.EvaluationRecord{
		QuestionID:     in.ID,
		StudentAnswer:  answer,
		ModelAnswer:    in.ModelAnswer,
		MarksAllocated: max(in.MaxMarks, 0),
		OCRConfidence:  in.OCRConfidence,
	}
	if answer == "" {
		rec.Status = model.StatusSkipped
		rec.FeedbackBundle = p.fb.NotAttempted(ctx)
		return rec, nil
	}

	student := p.an.Extract(answer)
	reference := p.an.Extract(in.ModelAnswer)
	vec, _ := p.strat.Score(student, reference, in.Type)
	final, marks := p.agg.Aggregate(vec, in.Type, in.OCRConfidence, rec.MarksAllocated)
	vec.FinalScore = final

	rec.ScoreVector = vec
	rec.MarksObtained = marks
	rec.Status = model.StatusEvaluated
	rec.FeedbackBundle = p.fb.Generate(ctx, vec, student, reference, marks, rec.MarksAllocated)
	return rec, nil
}

// failedRecord degrades a question whose scoring failed: half credit for an
// attempted answer, zero otherwise.
func (p *Pipeline) failedRecord(ctx context.Context, in model.QuestionInput) model.EvaluationRecord {
	answer := strings.TrimSpace(in.StudentAnswer)
	maxMarks := max(in.MaxMarks, 0)
	rec := model.EvaluationRecord{
		QuestionID:     in.ID,
		StudentAnswer:  answer,
		ModelAnswer:    in.ModelAnswer,
		MarksAllocated: maxMarks,
		Status:         model.StatusFailed,
		OCRConfidence:  in.OCRConfidence,
		FeedbackBundle: p.fb.Unavailable(ctx),
	}
	if answer != "" {
		rec.MarksObtained = int(math.Round(0.5 * float64(maxMarks)))
	}
	return rec
}
