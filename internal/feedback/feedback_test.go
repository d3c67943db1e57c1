package feedback

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/yashvini-chirri/evalmate/internal/analyze"
	"github.com/yashvini-chirri/evalmate/internal/i18n"
	"github.com/yashvini-chirri/evalmate/internal/model"
)

func TestMain(m *testing.M) {
	if err := i18n.Init("en"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestGenerateTiers(t *testing.T) {
	g := New()
	ctx := context.Background()
	strong := model.ScoreVector{
		SemanticSimilarity:      0.95,
		ConceptualUnderstanding: 0.9,
		FactualAccuracy:         0.95,
		Completeness:            0.9,
		Coherence:               0.9,
	}

	cases := []struct {
		marks, maxMarks int
		wantPrefix      string
	}{
		{10, 10, "Excellent"},
		{9, 10, "Very good"},
		{8, 10, "Good"},
		{7, 10, "Satisfactory"},
		{6, 10, "Basic"},
		{4, 10, "Partial"},
		{2, 10, "Limited"},
		{0, 0, "Limited"},
	}
	for _, c := range cases {
		fb := g.Generate(ctx, strong, analyze.FeatureBundle{}, analyze.FeatureBundle{}, c.marks, c.maxMarks)
		if !strings.HasPrefix(fb.Feedback, c.wantPrefix) {
			t.Errorf("marks %d/%d: feedback %q, want prefix %q", c.marks, c.maxMarks, fb.Feedback, c.wantPrefix)
		}
	}
}

func TestGenerateClauses(t *testing.T) {
	g := New()
	ctx := context.Background()

	weak := model.ScoreVector{
		SemanticSimilarity:      0.3,
		ConceptualUnderstanding: 0.4,
		FactualAccuracy:         0.5,
		Completeness:            0.4,
		Coherence:               0.3,
	}
	fb := g.Generate(ctx, weak, analyze.FeatureBundle{}, analyze.FeatureBundle{}, 2, 10)
	for _, want := range []string{"diverges", "Conceptual understanding needs strengthening", "factual inaccuracies", "coherence", "comprehensive coverage"} {
		if !strings.Contains(fb.Feedback, want) {
			t.Errorf("weak answer feedback missing %q: %q", want, fb.Feedback)
		}
	}

	strong := model.ScoreVector{
		SemanticSimilarity:      0.95,
		ConceptualUnderstanding: 0.9,
		FactualAccuracy:         0.95,
		Completeness:            0.9,
		Coherence:               0.9,
	}
	fb = g.Generate(ctx, strong, analyze.FeatureBundle{}, analyze.FeatureBundle{}, 10, 10)
	if !strings.Contains(fb.Feedback, "Strong conceptual understanding") {
		t.Errorf("strong answer should praise concepts: %q", fb.Feedback)
	}
	if !strings.Contains(fb.Feedback, "Factually accurate") {
		t.Errorf("strong answer should praise facts: %q", fb.Feedback)
	}
}

func TestStrengths(t *testing.T) {
	g := New()
	ctx := context.Background()

	student := analyze.FeatureBundle{
		ConceptualDepth:    0.8,
		CausalScore:        0.7,
		ExplanationQuality: 0.8,
		Coherence:          0.8,
		TechnicalTerms:     []string{"photosynthesis", "chlorophyll"},
		IsMathematical:     true,
	}
	v := model.ScoreVector{SemanticSimilarity: 0.85}

	fb := g.Generate(ctx, v, student, analyze.FeatureBundle{}, 9, 10)
	if len(fb.Strengths) != 7 {
		t.Errorf("expected all 7 strengths, got %d: %v", len(fb.Strengths), fb.Strengths)
	}

	fb = g.Generate(ctx, model.ScoreVector{FactualAccuracy: 0.8, Completeness: 0.7, Coherence: 0.6}, analyze.FeatureBundle{}, analyze.FeatureBundle{}, 1, 10)
	if len(fb.Strengths) != 0 {
		t.Errorf("expected no strengths for featureless answer, got %v", fb.Strengths)
	}
}

func TestErrorAnalysis(t *testing.T) {
	g := New()
	ctx := context.Background()

	reference := analyze.FeatureBundle{
		CausalScore:     0.7,
		ConceptualDepth: 0.8,
		Facts:           []string{"Newton", "1905"},
		IsDefinition:    true,
		IsProcess:       true,
	}
	student := analyze.FeatureBundle{Coherence: 0.2}

	fb := g.Generate(ctx, model.ScoreVector{FactualAccuracy: 0.8, SemanticSimilarity: 0.8, ConceptualUnderstanding: 0.7, Completeness: 0.7, Coherence: 0.6}, student, reference, 5, 10)
	if len(fb.Errors) != 6 {
		t.Errorf("expected all 6 error findings, got %d: %v", len(fb.Errors), fb.Errors)
	}
}

func TestFixedBundles(t *testing.T) {
	g := New()
	ctx := context.Background()

	na := g.NotAttempted(ctx)
	if na.Feedback != "Question not attempted." {
		t.Errorf("NotAttempted feedback: %q", na.Feedback)
	}
	if len(na.Errors) != 1 || na.Errors[0] != "Question not answered." {
		t.Errorf("NotAttempted errors: %v", na.Errors)
	}

	un := g.Unavailable(ctx)
	if len(un.Errors) != 1 || un.Errors[0] != "Evaluation system error." {
		t.Errorf("Unavailable errors: %v", un.Errors)
	}
}
