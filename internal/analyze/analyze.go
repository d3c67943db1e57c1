// Package analyze turns raw answer text into an immutable feature bundle:
// sentence and word statistics, causal-reasoning markers, technical terms,
// factual tokens and structural flags. Extraction is deterministic and
// never fails; empty input yields a zero bundle.
package analyze

import (
	"regexp"
	"sort"
	"strings"
)

// FeatureBundle is the derived, read-only view of one answer text.
// It is created once per answer and never mutated afterwards.
type FeatureBundle struct {
	Text          string
	Sentences     []string
	Words         []string
	WordCount     int
	SentenceCount int
	UniqueWords   int

	// Reasoning and content signals, each in [0,1] unless noted.
	CausalCount        int
	CausalScore        float64
	ConceptualDepth    float64
	ExplanationQuality float64
	CompletenessScore  float64
	Coherence          float64

	// Sorted, de-duplicated token sets.
	TechnicalTerms []string
	Facts          []string
	Concepts       []string

	// Structural flags.
	HasIntroduction bool
	HasConclusion   bool
	IsDefinition    bool
	IsProcess       bool
	IsMathematical  bool
	IsComparative   bool
}

// Analyzer extracts FeatureBundles using a fixed set of lexicons.
type Analyzer struct {
	stopwords         map[string]bool
	conceptIndicators map[string]bool
	causalMarkers     []string
	domainTerms       map[string]bool
	contentKeywords   []string
}

// New creates an Analyzer with the default lexicons.
func New() *Analyzer {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an Analyzer with caller-supplied lexicons.
func NewWithConfig(cfg Config) *Analyzer {
	return &Analyzer{
		stopwords:         toSet(cfg.Stopwords),
		conceptIndicators: toSet(cfg.ConceptIndicators),
		causalMarkers:     cfg.CausalMarkers,
		domainTerms:       toSet(cfg.DomainTerms),
		contentKeywords:   cfg.ContentKeywords,
	}
}

func toSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// Extract derives the full feature bundle for text. Whitespace-only input
// yields the zero bundle.
func (a *Analyzer) Extract(text string) FeatureBundle {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return FeatureBundle{}
	}

	lower := strings.ToLower(trimmed)
	sentences := SplitSentences(trimmed)
	words := Words(trimmed)

	b := FeatureBundle{
		Text:          trimmed,
		Sentences:     sentences,
		Words:         words,
		WordCount:     len(words),
		SentenceCount: len(sentences),
		UniqueWords:   len(uniq(words)),
	}

	b.CausalCount, b.CausalScore = a.causalReasoning(lower)
	b.TechnicalTerms = a.technicalTerms(words)
	b.Facts = extractFacts(trimmed)
	b.Concepts = a.concepts(words, b.TechnicalTerms)

	b.HasIntroduction = containsAny(firstSentence(sentences), introIndicators)
	b.HasConclusion = containsAny(lastSentence(sentences), conclusionIndicators)
	b.IsDefinition = matchesAny(lower, definitionPatternsRe)
	b.IsProcess = countContained(lower, processIndicators) >= 2
	b.IsMathematical = isMathematical(trimmed, lower)
	b.IsComparative = containsAny(lower, comparisonWords)

	b.ConceptualDepth = a.conceptualDepth(lower, words, len(sentences))
	b.ExplanationQuality = explanationQuality(lower, len(sentences))
	b.CompletenessScore = a.completenessScore(lower, len(words), b.HasIntroduction, b.HasConclusion)
	b.Coherence = a.coherence(sentences)

	return b
}

// SplitSentences splits text on sentence terminators, dropping empties.
func SplitSentences(text string) []string {
	parts := sentenceSplitRe.Split(text, -1)
	var out []string
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Words tokenizes text into lowercase word tokens.
func Words(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}

// MeaningfulWords returns the non-stopword tokens longer than two characters.
func (a *Analyzer) MeaningfulWords(text string) []string {
	var out []string
	for _, w := range Words(text) {
		if len(w) > 2 && !a.stopwords[w] {
			out = append(out, w)
		}
	}
	return out
}

// causalReasoning counts lexicon markers contained in the text and scores
// causal density: marker count scaled to 0.5 plus 0.1 per structural
// causal pattern, capped at 1. Containment is substring-based, matching
// how the markers behave in running prose.
func (a *Analyzer) causalReasoning(lower string) (int, float64) {
	count := 0
	for _, m := range a.causalMarkers {
		if strings.Contains(lower, m) {
			count++
		}
	}
	score := min(float64(count)/3.0, 0.5)
	for _, re := range causalPatternsRe {
		if re.MatchString(lower) {
			score += 0.1
		}
	}
	return count, min(score, 1.0)
}

// technicalTerms collects tokens over six characters (minus stopwords and
// common long words) plus hits from the domain-term lexicon.
func (a *Analyzer) technicalTerms(words []string) []string {
	seen := map[string]bool{}
	for _, w := range words {
		if len(w) > 6 && !a.stopwords[w] && !commonLongWords[w] {
			seen[w] = true
		}
		if a.domainTerms[w] {
			seen[w] = true
		}
	}
	return sortedKeys(seen)
}

func extractFacts(text string) []string {
	seen := map[string]bool{}
	add := func(matches []string) {
		for _, m := range matches {
			if m = strings.TrimSpace(m); m != "" {
				seen[m] = true
			}
		}
	}
	add(measurementRe.FindAllString(text, -1))
	add(yearRe.FindAllString(text, -1))
	for _, re := range formulaPatternsRe {
		add(re.FindAllString(text, -1))
	}
	add(properNounRe.FindAllString(text, -1))
	add(scientificRe.FindAllString(text, -1))
	return sortedKeys(seen)
}

// concepts is the union of technical terms and concept-indicator tokens.
func (a *Analyzer) concepts(words, technicalTerms []string) []string {
	seen := map[string]bool{}
	for _, t := range technicalTerms {
		seen[t] = true
	}
	for _, w := range words {
		if a.conceptIndicators[w] {
			seen[w] = true
		}
	}
	return sortedKeys(seen)
}

func (a *Analyzer) conceptualDepth(lower string, words []string, sentenceCount int) float64 {
	depth := 0.0

	conceptHits := 0
	for _, w := range words {
		if a.conceptIndicators[w] {
			conceptHits++
		}
	}
	depth += min(float64(conceptHits)/5.0, 0.3)

	for _, p := range explanatoryPhrases {
		if strings.Contains(lower, p) {
			depth += 0.1
		}
	}
	for _, w := range perspectiveWords {
		if strings.Contains(lower, w) {
			depth += 0.05
		}
	}
	if sentenceCount >= 3 {
		depth += 0.2
	}
	return min(depth, 1.0)
}

func explanationQuality(lower string, sentenceCount int) float64 {
	quality := 0.0
	if sentenceCount >= 2 {
		quality += 0.3
	}
	if sentenceCount >= 4 {
		quality += 0.2
	}
	if containsAny(lower, exampleIndicators) {
		quality += 0.2
	}
	if containsAny(lower, stepIndicators) {
		quality += 0.2
	}
	if containsAny(lower, detailIndicators) {
		quality += 0.1
	}
	return min(quality, 1.0)
}

// completenessScore combines word-count bands, content-keyword hits and
// structural bonuses into a single completeness indicator.
func (a *Analyzer) completenessScore(lower string, wordCount int, intro, conclusion bool) float64 {
	score := 0.0
	switch {
	case wordCount >= 50:
		score += 0.4
	case wordCount >= 25:
		score += 0.3
	case wordCount >= 10:
		score += 0.2
	}
	score += min(float64(countContained(lower, a.contentKeywords))/5.0, 0.3)
	if intro {
		score += 0.15
	}
	if conclusion {
		score += 0.15
	}
	return min(score, 1.0)
}

// coherence is the mean meaningful-word overlap between consecutive
// sentences: 1.0 for zero or one sentence, 0.5 when no pair yields a
// defined overlap.
func (a *Analyzer) coherence(sentences []string) float64 {
	if len(sentences) <= 1 {
		return 1.0
	}
	var scores []float64
	for i := 0; i < len(sentences)-1; i++ {
		w1 := toSet(a.MeaningfulWords(sentences[i]))
		w2 := toSet(a.MeaningfulWords(sentences[i+1]))
		if len(w1) == 0 || len(w2) == 0 {
			continue
		}
		overlap := 0
		for w := range w1 {
			if w2[w] {
				overlap++
			}
		}
		scores = append(scores, float64(overlap)/float64(max(len(w1), len(w2))))
	}
	if len(scores) == 0 {
		return 0.5
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

func isMathematical(text, lower string) bool {
	if strings.ContainsAny(text, "=+-*/^²³") {
		return true
	}
	return containsAny(lower, mathKeywords)
}

func firstSentence(sentences []string) string {
	if len(sentences) == 0 {
		return ""
	}
	return strings.ToLower(sentences[0])
}

func lastSentence(sentences []string) string {
	if len(sentences) == 0 {
		return ""
	}
	return strings.ToLower(sentences[len(sentences)-1])
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func countContained(s string, subs []string) int {
	n := 0
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			n++
		}
	}
	return n
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func uniq(words []string) []string {
	return sortedKeys(toSet(words))
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
