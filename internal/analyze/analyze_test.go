package analyze

import (
	"reflect"
	"testing"
)

func TestExtractEmptyInput(t *testing.T) {
	an := New()

	for _, text := range []string{"", "   ", "\n\t "} {
		b := an.Extract(text)
		if b.Text != "" {
			t.Errorf("Extract(%q): expected empty Text, got %q", text, b.Text)
		}
		if b.WordCount != 0 || b.SentenceCount != 0 {
			t.Errorf("Extract(%q): expected zero counts, got words=%d sentences=%d",
				text, b.WordCount, b.SentenceCount)
		}
		if b.CausalScore != 0 || b.ConceptualDepth != 0 || b.Coherence != 0 {
			t.Errorf("Extract(%q): expected zero scores", text)
		}
	}
}

func TestExtractDeterministic(t *testing.T) {
	an := New()
	text := "Photosynthesis is the process by which plants make food. They use sunlight, water and carbon dioxide because light provides energy."

	b1 := an.Extract(text)
	b2 := an.Extract(text)
	if !reflect.DeepEqual(b1, b2) {
		t.Fatal("Extract is not deterministic for identical input")
	}
}

func TestExtractCounts(t *testing.T) {
	an := New()
	b := an.Extract("Plants make food. They use sunlight.")

	if b.SentenceCount != 2 {
		t.Errorf("expected 2 sentences, got %d", b.SentenceCount)
	}
	if b.WordCount != 6 {
		t.Errorf("expected 6 words, got %d", b.WordCount)
	}
	if b.UniqueWords != 6 {
		t.Errorf("expected 6 unique words, got %d", b.UniqueWords)
	}
}

func TestCausalReasoning(t *testing.T) {
	an := New()

	causal := an.Extract("The ice melts because the temperature rises.")
	if causal.CausalCount == 0 {
		t.Error("expected causal markers to be detected")
	}
	if causal.CausalScore <= 0 {
		t.Errorf("expected positive causal score, got %v", causal.CausalScore)
	}

	plain := an.Extract("Water boils at high heat.")
	if plain.CausalScore >= causal.CausalScore {
		t.Errorf("plain text scored %v, should be below causal text %v",
			plain.CausalScore, causal.CausalScore)
	}
}

func TestStructuralFlags(t *testing.T) {
	an := New()

	def := an.Extract("Photosynthesis is the process plants use.")
	if !def.IsDefinition {
		t.Error("expected definition pattern to match")
	}

	proc := an.Extract("First mix the reagents, then heat the result. Next observe the color change.")
	if !proc.IsProcess {
		t.Error("expected process indicators to trigger")
	}

	math := an.Extract("Use the formula E = mc to solve it.")
	if !math.IsMathematical {
		t.Error("expected mathematical content to be flagged")
	}

	cmp := an.Extract("Unlike mitosis, meiosis halves the chromosome count.")
	if !cmp.IsComparative {
		t.Error("expected comparative language to be flagged")
	}
}

func TestExtractFacts(t *testing.T) {
	an := New()
	b := an.Extract("Newton published the work in 1987 after measuring 5 km of track.")

	want := map[string]bool{"Newton": true, "1987": true}
	for f := range want {
		if !contains(b.Facts, f) {
			t.Errorf("expected fact %q in %v", f, b.Facts)
		}
	}
	// Facts are sorted and de-duplicated.
	for i := 1; i < len(b.Facts); i++ {
		if b.Facts[i-1] >= b.Facts[i] {
			t.Fatalf("facts not sorted: %v", b.Facts)
		}
	}
}

func TestTechnicalTerms(t *testing.T) {
	an := New()
	b := an.Extract("Photosynthesis happens in chlorophyll because light is absorbed.")

	if !contains(b.TechnicalTerms, "photosynthesis") {
		t.Errorf("expected photosynthesis in technical terms, got %v", b.TechnicalTerms)
	}
	if !contains(b.TechnicalTerms, "chlorophyll") {
		t.Errorf("expected chlorophyll in technical terms, got %v", b.TechnicalTerms)
	}
	// Long but common words do not count as technical.
	if contains(b.TechnicalTerms, "because") {
		t.Errorf("did not expect 'because' in technical terms, got %v", b.TechnicalTerms)
	}
}

func TestMeaningfulWords(t *testing.T) {
	an := New()
	got := an.MeaningfulWords("The cat is on the mat")
	want := []string{"cat", "mat"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MeaningfulWords: got %v, want %v", got, want)
	}
}

func TestCoherenceSingleSentence(t *testing.T) {
	an := New()
	b := an.Extract("Water is a liquid.")
	if b.Coherence != 1.0 {
		t.Errorf("single sentence coherence: got %v, want 1.0", b.Coherence)
	}
}

func TestCompletenessWordBands(t *testing.T) {
	an := New()

	short := an.Extract("Water boils.")
	long := an.Extract("Water is a chemical compound that consists of hydrogen and oxygen atoms bonded together. " +
		"It exists naturally in solid liquid and gas states across the planet surface. " +
		"Heating liquid water past its boiling point turns it into steam through evaporation. " +
		"Cooling it below freezing produces ice which floats because solid water is less dense.")

	if long.CompletenessScore <= short.CompletenessScore {
		t.Errorf("long answer completeness %v should exceed short answer %v",
			long.CompletenessScore, short.CompletenessScore)
	}
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
