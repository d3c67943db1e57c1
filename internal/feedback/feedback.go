// Package feedback renders score vectors and answer features into
// human-readable feedback, strengths and error analysis. Template selection
// is deterministic; the wording comes from the i18n catalog.
package feedback

import (
	"context"
	"strings"

	"github.com/yashvini-chirri/evalmate/internal/analyze"
	"github.com/yashvini-chirri/evalmate/internal/i18n"
	"github.com/yashvini-chirri/evalmate/internal/model"
)

// Generator produces FeedbackBundles. It holds no state; the localizer
// travels in the context, the way all user-facing text is rendered here.
type Generator struct{}

// New creates a Generator.
func New() *Generator {
	return &Generator{}
}

// Generate builds the feedback bundle for one evaluated answer.
func (g *Generator) Generate(ctx context.Context, v model.ScoreVector, student, reference analyze.FeatureBundle, marks, maxMarks int) model.FeedbackBundle {
	pct := 0.0
	if maxMarks > 0 {
		pct = float64(marks) / float64(maxMarks) * 100
	}

	parts := []string{tierMessage(ctx, pct)}

	if v.SemanticSimilarity < 0.5 {
		parts = append(parts, i18n.T(ctx, "FeedbackDiverges"))
	} else if v.SemanticSimilarity < 0.7 {
		parts = append(parts, i18n.T(ctx, "FeedbackPartialAlign"))
	}

	if v.ConceptualUnderstanding < 0.6 {
		parts = append(parts, i18n.T(ctx, "FeedbackConceptWeak"))
	} else if v.ConceptualUnderstanding >= 0.8 {
		parts = append(parts, i18n.T(ctx, "FeedbackConceptStrong"))
	}

	if v.FactualAccuracy < 0.7 {
		parts = append(parts, i18n.T(ctx, "FeedbackFactsWeak"))
	} else if v.FactualAccuracy >= 0.9 {
		parts = append(parts, i18n.T(ctx, "FeedbackFactsStrong"))
	}

	if v.Coherence < 0.5 {
		parts = append(parts, i18n.T(ctx, "FeedbackStructureWeak"))
	}
	if v.Completeness < 0.6 {
		parts = append(parts, i18n.T(ctx, "FeedbackCoverageWeak"))
	}

	return model.FeedbackBundle{
		Feedback:  strings.Join(parts, " "),
		Strengths: strengths(ctx, v, student),
		Errors:    errorAnalysis(ctx, student, reference),
	}
}

// NotAttempted is the fixed bundle for skipped questions.
func (g *Generator) NotAttempted(ctx context.Context) model.FeedbackBundle {
	return model.FeedbackBundle{
		Feedback: i18n.T(ctx, "FeedbackNotAttempted"),
		Errors:   []string{i18n.T(ctx, "ErrorNotAnswered")},
	}
}

// Unavailable is the bundle for answers whose evaluation failed.
func (g *Generator) Unavailable(ctx context.Context) model.FeedbackBundle {
	return model.FeedbackBundle{
		Feedback: i18n.T(ctx, "FeedbackUnavailable"),
		Errors:   []string{i18n.T(ctx, "ErrorEvaluationFailed")},
	}
}

// tierMessage mirrors the sheet grade tiers.
func tierMessage(ctx context.Context, pct float64) string {
	switch {
	case pct >= 95:
		return i18n.T(ctx, "FeedbackExcellent")
	case pct >= 85:
		return i18n.T(ctx, "FeedbackVeryGood")
	case pct >= 75:
		return i18n.T(ctx, "FeedbackGood")
	case pct >= 65:
		return i18n.T(ctx, "FeedbackSatisfactory")
	case pct >= 55:
		return i18n.T(ctx, "FeedbackBasic")
	case pct >= 40:
		return i18n.T(ctx, "FeedbackPartial")
	default:
		return i18n.T(ctx, "FeedbackLimited")
	}
}

func strengths(ctx context.Context, v model.ScoreVector, student analyze.FeatureBundle) []string {
	var out []string
	if v.SemanticSimilarity >= 0.8 {
		out = append(out, i18n.T(ctx, "StrengthAligned"))
	}
	if student.ConceptualDepth >= 0.7 {
		out = append(out, i18n.T(ctx, "StrengthDepth"))
	}
	if student.CausalScore >= 0.6 {
		out = append(out, i18n.T(ctx, "StrengthCausal"))
	}
	if student.ExplanationQuality >= 0.7 {
		out = append(out, i18n.T(ctx, "StrengthExplanations"))
	}
	if student.Coherence >= 0.7 {
		out = append(out, i18n.T(ctx, "StrengthCoherent"))
	}
	if len(student.TechnicalTerms) >= 2 {
		out = append(out, i18n.T(ctx, "StrengthTerminology"))
	}
	if student.IsMathematical {
		out = append(out, i18n.T(ctx, "StrengthMathematical"))
	}
	return out
}

func errorAnalysis(ctx context.Context, student, reference analyze.FeatureBundle) []string {
	var out []string
	if reference.CausalScore > 0.5 && student.CausalScore < 0.3 {
		out = append(out, i18n.T(ctx, "ErrorMissingCausal"))
	}
	if len(reference.Facts) > len(student.Facts) {
		out = append(out, i18n.T(ctx, "ErrorMissingFacts"))
	}
	if reference.IsDefinition && !student.IsDefinition {
		out = append(out, i18n.T(ctx, "ErrorNeedsDefinition"))
	}
	if reference.IsProcess && !student.IsProcess {
		out = append(out, i18n.T(ctx, "ErrorNeedsProcess"))
	}
	if reference.ConceptualDepth > 0.7 && student.ConceptualDepth < 0.4 {
		out = append(out, i18n.T(ctx, "ErrorLacksDepth"))
	}
	if student.Coherence < 0.4 {
		out = append(out, i18n.T(ctx, "ErrorPoorCoherence"))
	}
	return out
}
