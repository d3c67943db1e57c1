// Package score computes similarity metrics between answer feature bundles,
// derives the five quality sub-scores, and aggregates them into marks.
package score

import (
	"github.com/yashvini-chirri/evalmate/internal/analyze"
	"github.com/yashvini-chirri/evalmate/internal/model"
)

// causalThreshold is the causal-density level above which an answer is
// considered to exhibit causal reasoning.
const causalThreshold = 0.3

// Metrics holds the raw similarity metrics between two answers, each in [0,1].
type Metrics struct {
	Jaccard         float64 `json:"jaccard"`
	WeightedOverlap float64 `json:"weighted_overlap"`
	SentenceOverlap float64 `json:"sentence_overlap"`
	ConceptOverlap  float64 `json:"concept_overlap"`
}

// Semantic combines the raw metrics into the semantic-similarity sub-score.
func (m Metrics) Semantic() float64 {
	return clamp01(0.2*m.Jaccard + 0.3*m.WeightedOverlap + 0.3*m.SentenceOverlap + 0.2*m.ConceptOverlap)
}

// Strategy derives the five sub-scores for a student answer against a model
// answer. Implementations must be pure and deterministic so that repeated
// evaluation of the same sheet yields identical results. The final score is
// left zero; aggregation fills it in.
type Strategy interface {
	Score(student, reference analyze.FeatureBundle, qt model.QuestionType) (model.ScoreVector, Metrics)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
