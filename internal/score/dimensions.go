package score

import (
	"github.com/yashvini-chirri/evalmate/internal/analyze"
	"github.com/yashvini-chirri/evalmate/internal/model"
)

// conceptualUnderstanding measures how well the student's reasoning matches
// the model answer's: conceptual-depth ratio (0.3), causal-reasoning profile
// alignment (up to 0.3), explanation-quality ratio (0.2), and a 0.2 bonus
// for sharing the model answer's structural type. When the model answer
// demands nothing on an axis, the student gets full credit for it.
func conceptualUnderstanding(student, reference analyze.FeatureBundle) float64 {
	score := ratioCredit(student.ConceptualDepth, reference.ConceptualDepth) * 0.3

	studentCausal := student.CausalScore > causalThreshold
	refCausal := reference.CausalScore > causalThreshold
	switch {
	case studentCausal == refCausal:
		// Matching causal profile, present or absent, is full alignment.
		score += 0.3
	case refCausal:
		score += 0.1
	default:
		score += 0.2
	}

	score += ratioCredit(student.ExplanationQuality, reference.ExplanationQuality) * 0.2

	if (student.IsDefinition && reference.IsDefinition) ||
		(student.IsProcess && reference.IsProcess) {
		score += 0.2
	}
	return clamp01(score)
}

// factualAccuracy is the share of model-answer facts the student reproduced,
// reduced by up to 30% for facts the model answer does not contain. Answers
// agreeing that no facts are needed score high without being perfect.
func factualAccuracy(student, reference analyze.FeatureBundle) float64 {
	refFacts := wordSet(reference.Facts)
	stFacts := wordSet(student.Facts)

	if len(refFacts) == 0 {
		if len(stFacts) == 0 {
			return 0.9
		}
		return 0.8
	}
	if len(stFacts) == 0 {
		return 0.0
	}

	correct := 0
	extra := 0
	for f := range stFacts {
		if refFacts[f] {
			correct++
		} else {
			extra++
		}
	}
	accuracy := float64(correct) / float64(len(refFacts))
	if extra > 0 {
		accuracy *= 1 - min(float64(extra)*0.1, 0.3)
	}
	return clamp01(accuracy)
}

// completeness compares the completeness indicators of the two answers.
// MCQ collapses to "any text provided"; Short answers get a 1.2x boost.
func completeness(student, reference analyze.FeatureBundle, qt model.QuestionType) float64 {
	if qt == model.TypeMCQ {
		if student.WordCount > 0 {
			return 1.0
		}
		return 0.0
	}

	ratio := ratioCredit(student.CompletenessScore, reference.CompletenessScore)
	if qt == model.TypeShort {
		ratio *= 1.2
	}
	return clamp01(ratio)
}

// ratioCredit is student/reference capped at 1, with full credit when the
// reference side is zero.
func ratioCredit(student, reference float64) float64 {
	if reference <= 0 {
		return 1.0
	}
	return min(student/reference, 1.0)
}
