package score

import (
	"math"
	"strings"

	"github.com/yashvini-chirri/evalmate/internal/analyze"
	"github.com/yashvini-chirri/evalmate/internal/model"
)

// Heuristic scores answers with lexical and structural text metrics only:
// no network, no models, no randomness.
type Heuristic struct {
	an *analyze.Analyzer
}

// NewHeuristic creates the default scoring strategy backed by an Analyzer.
func NewHeuristic(an *analyze.Analyzer) *Heuristic {
	return &Heuristic{an: an}
}

// Score implements Strategy.
func (h *Heuristic) Score(student, reference analyze.FeatureBundle, qt model.QuestionType) (model.ScoreVector, Metrics) {
	m := h.Similarity(student, reference)
	v := model.ScoreVector{
		SemanticSimilarity:      m.Semantic(),
		ConceptualUnderstanding: conceptualUnderstanding(student, reference),
		FactualAccuracy:         factualAccuracy(student, reference),
		Completeness:            completeness(student, reference, qt),
		Coherence:               student.Coherence,
	}
	return v, m
}

// Similarity computes the raw similarity metrics between two bundles.
func (h *Heuristic) Similarity(student, reference analyze.FeatureBundle) Metrics {
	sw := h.an.MeaningfulWords(student.Text)
	rw := h.an.MeaningfulWords(reference.Text)
	if len(sw) == 0 && len(rw) == 0 {
		// Neither answer yields meaningful tokens ("B", "42"). Word-level
		// metrics cannot discriminate here, so compare the literal text:
		// identical answers get full credit, differing ones none.
		m := 0.0
		if strings.EqualFold(strings.TrimSpace(student.Text), strings.TrimSpace(reference.Text)) {
			m = 1.0
		}
		return Metrics{Jaccard: m, WeightedOverlap: m, SentenceOverlap: m, ConceptOverlap: m}
	}
	return Metrics{
		Jaccard:         jaccard(wordSet(sw), wordSet(rw)),
		WeightedOverlap: cosine(sw, rw),
		SentenceOverlap: h.sentenceOverlap(student, reference),
		ConceptOverlap:  conceptOverlap(student, reference),
	}
}

// jaccard degenerates to full overlap when both sets are empty: two answers
// that agree there is nothing to compare on this axis are in agreement, and
// identical texts must score identically whether or not they produce tokens.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// cosine is the cosine similarity of word-frequency vectors over the union
// vocabulary. Two all-zero vectors degenerate to full similarity, matching
// jaccard; a single all-zero vector scores zero.
func cosine(a, b []string) float64 {
	fa := freq(a)
	fb := freq(b)
	dot := 0.0
	for w, ca := range fa {
		dot += float64(ca) * float64(fb[w])
	}
	magA := magnitude(fa)
	magB := magnitude(fb)
	if magA == 0 && magB == 0 {
		return 1.0
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (magA * magB)
}

func freq(words []string) map[string]int {
	f := make(map[string]int, len(words))
	for _, w := range words {
		f[w]++
	}
	return f
}

func magnitude(f map[string]int) float64 {
	sum := 0.0
	for _, c := range f {
		sum += float64(c) * float64(c)
	}
	return math.Sqrt(sum)
}

// sentenceOverlap is the mean, over student sentences, of the best
// meaningful-word overlap against any model-answer sentence. Degenerates to
// 1.0 when either side has no scoreable sentences, leaving the combined
// similarity to the other metrics.
func (h *Heuristic) sentenceOverlap(student, reference analyze.FeatureBundle) float64 {
	if len(student.Sentences) == 0 || len(reference.Sentences) == 0 {
		return 1.0
	}

	refSets := make([]map[string]bool, 0, len(reference.Sentences))
	for _, s := range reference.Sentences {
		if set := wordSet(h.an.MeaningfulWords(s)); len(set) > 0 {
			refSets = append(refSets, set)
		}
	}

	sum := 0.0
	counted := 0
	for _, s := range student.Sentences {
		set := wordSet(h.an.MeaningfulWords(s))
		if len(set) == 0 {
			continue
		}
		best := 0.0
		for _, rs := range refSets {
			if ov := overlapRatio(set, rs); ov > best {
				best = ov
			}
		}
		sum += best
		counted++
	}
	if counted == 0 {
		return 1.0
	}
	return sum / float64(counted)
}

// overlapRatio is |a∩b| / max(|a|,|b|).
func overlapRatio(a, b map[string]bool) float64 {
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	return float64(inter) / float64(max(len(a), len(b)))
}

// conceptOverlap is the Jaccard similarity of the concept token sets plus
// categorical bonuses for shared reasoning and answer shape, clamped to [0,1].
func conceptOverlap(student, reference analyze.FeatureBundle) float64 {
	score := jaccard(wordSet(student.Concepts), wordSet(reference.Concepts))
	if student.CausalScore > causalThreshold && reference.CausalScore > causalThreshold {
		score += 0.3
	}
	if student.IsMathematical && reference.IsMathematical {
		score += 0.2
	}
	if student.IsDefinition && reference.IsDefinition {
		score += 0.2
	}
	if student.IsProcess && reference.IsProcess {
		score += 0.3
	}
	return clamp01(score)
}

func wordSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
