package score

import (
	"math"

	"github.com/yashvini-chirri/evalmate/internal/model"
)

// Weights is a per-question-type aggregation profile. Fields sum to 1.
type Weights struct {
	Semantic     float64
	Conceptual   float64
	Factual      float64
	Completeness float64
	Coherence    float64
}

func defaultProfiles() map[model.QuestionType]Weights {
	long := Weights{Semantic: 0.25, Conceptual: 0.4, Factual: 0.2, Completeness: 0.1, Coherence: 0.05}
	other := Weights{Semantic: 0.3, Conceptual: 0.35, Factual: 0.25, Completeness: 0.05, Coherence: 0.05}
	return map[model.QuestionType]Weights{
		model.TypeMCQ:   {Semantic: 0.5, Conceptual: 0.3, Factual: 0.2},
		model.TypeShort: other,
		model.TypeLong:  long,
		model.TypeEssay: long,
		model.TypeOther: other,
	}
}

// band maps a final-score floor to the fraction of max marks awarded.
type band struct {
	floor    float64
	fraction float64
}

// Marks conversion is deliberately non-linear: it rewards crossing
// comprehension thresholds instead of scaling marks with raw similarity.
func defaultMarkBands() []band {
	return []band{
		{0.9, 1.0},
		{0.8, 0.9},
		{0.7, 0.8},
		{0.6, 0.7},
		{0.5, 0.6},
		{0.4, 0.4},
		{0.3, 0.3},
		{0.2, 0.2},
	}
}

// Aggregator combines sub-scores into a final score and an integral mark.
type Aggregator struct {
	profiles map[model.QuestionType]Weights
	bands    []band
}

// NewAggregator creates an Aggregator with the default weight profiles and
// mark bands.
func NewAggregator() *Aggregator {
	return &Aggregator{profiles: defaultProfiles(), bands: defaultMarkBands()}
}

// WeightsFor returns the profile for a question type, falling back to the
// default profile for unknown types.
func (a *Aggregator) WeightsFor(qt model.QuestionType) Weights {
	if w, ok := a.profiles[qt]; ok {
		return w
	}
	return a.profiles[model.TypeOther]
}

// FinalScore computes the weighted final score with the OCR-confidence
// penalty applied. Low extraction confidence can only reduce the score.
func (a *Aggregator) FinalScore(v model.ScoreVector, qt model.QuestionType, ocrConfidence float64) float64 {
	w := a.WeightsFor(qt)
	final := v.SemanticSimilarity*w.Semantic +
		v.ConceptualUnderstanding*w.Conceptual +
		v.FactualAccuracy*w.Factual +
		v.Completeness*w.Completeness +
		v.Coherence*w.Coherence
	if ocrConfidence < 0.8 {
		final -= (0.8 - ocrConfidence) * 0.05
	}
	return clamp01(final)
}

// Marks discretizes a final score into marks via the band table.
func (a *Aggregator) Marks(finalScore float64, maxMarks int) int {
	if maxMarks <= 0 {
		return 0
	}
	fraction := 0.0
	for _, b := range a.bands {
		if finalScore >= b.floor {
			fraction = b.fraction
			break
		}
	}
	if fraction == 0 && finalScore > 0 {
		fraction = 0.1
	}
	return int(math.Round(fraction * float64(maxMarks)))
}

// Aggregate computes the final score and marks in one step.
func (a *Aggregator) Aggregate(v model.ScoreVector, qt model.QuestionType, ocrConfidence float64, maxMarks int) (float64, int) {
	final := a.FinalScore(v, qt, ocrConfidence)
	return final, a.Marks(final, maxMarks)
}

// Grade converts a sheet percentage into a letter grade. This table is
// coarser than the per-question mark bands and intentionally separate.
func Grade(percentage float64) string {
	switch {
	case percentage >= 95:
		return "A+"
	case percentage >= 85:
		return "A"
	case percentage >= 75:
		return "B+"
	case percentage >= 65:
		return "B"
	case percentage >= 55:
		return "C"
	case percentage >= 40:
		return "D"
	default:
		return "F"
	}
}
