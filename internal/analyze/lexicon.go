package analyze

import "regexp"

// Config holds the lexicons an Analyzer scores against. The defaults cover
// general academic English; callers with a narrower subject area can supply
// their own term lists.
type Config struct {
	Stopwords         []string
	ConceptIndicators []string
	CausalMarkers     []string
	DomainTerms       []string
	ContentKeywords   []string
}

// DefaultConfig returns the built-in lexicons.
func DefaultConfig() Config {
	return Config{
		Stopwords:         defaultStopwords,
		ConceptIndicators: defaultConceptIndicators,
		CausalMarkers:     defaultCausalMarkers,
		DomainTerms:       defaultDomainTerms,
		ContentKeywords:   defaultContentKeywords,
	}
}

var defaultStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
	"has", "he", "in", "is", "it", "its", "of", "on", "that", "the",
	"to", "was", "will", "with", "would", "have", "had", "been", "this",
	"these", "they", "we", "you", "your", "their", "there", "where",
	"when", "what", "which", "who", "how", "why", "can", "could",
	"should", "may", "might", "must", "shall", "do", "does",
	"did", "am", "were", "being",
}

var defaultConceptIndicators = []string{
	"because", "therefore", "thus", "hence", "consequently",
	"produces", "creates", "process", "method", "procedure", "technique",
	"approach", "system", "principle", "theory", "concept", "definition",
	"explanation", "demonstrate", "illustrate", "show", "prove", "evidence",
	"indicate", "analysis", "synthesis", "evaluation", "comparison", "contrast",
}

var defaultCausalMarkers = []string{
	"because", "since", "as", "due to", "owing to", "caused by",
	"results from", "stems from", "leads to", "causes", "produces",
	"creates", "generates", "brings about", "results in", "therefore",
	"thus", "hence", "consequently", "as a result", "so", "accordingly",
}

var defaultDomainTerms = []string{
	"photosynthesis", "mitochondria", "chlorophyll", "respiration", "ecosystem",
	"democracy", "government", "independence", "acceleration", "velocity",
	"equation", "algorithm", "temperature", "pressure", "molecule",
}

var defaultContentKeywords = []string{
	"definition", "explanation", "process", "method", "example",
	"result", "conclusion", "summary", "analysis", "description",
}

// Words that clear the length bar for technical terms but carry no
// technical meaning.
var commonLongWords = map[string]bool{
	"because":   true,
	"through":   true,
	"example":   true,
	"different": true,
}

var explanatoryPhrases = []string{
	"this means", "in other words", "that is to say", "specifically",
	"for example", "for instance", "such as", "namely", "including",
}

var perspectiveWords = []string{
	"also", "additionally", "furthermore", "moreover", "besides",
	"however", "although",
}

var exampleIndicators = []string{
	"example", "instance", "such as", "like", "including",
}

var stepIndicators = []string{
	"first", "second", "then", "next", "finally", "step",
}

var detailIndicators = []string{
	"detailed", "comprehensive", "thorough", "complete",
}

var introIndicators = []string{
	"is defined as", "refers to", "means", "is called",
	"can be described as", "is known as", "represents",
}

var conclusionIndicators = []string{
	"therefore", "thus", "in conclusion", "finally", "overall",
	"in summary", "to conclude", "as a result",
}

var processIndicators = []string{
	"process", "procedure", "method", "steps", "stages",
	"first", "then", "next", "finally", "sequence",
}

var comparisonWords = []string{
	"compare", "contrast", "difference", "similar", "unlike",
	"whereas", "while", "but", "however", "although",
}

var mathKeywords = []string{
	"formula", "equation", "calculate", "solve",
}

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
	wordRe          = regexp.MustCompile(`\w+`)

	causalPatternsRe = []*regexp.Regexp{
		regexp.MustCompile(`because\s+\w+`),
		regexp.MustCompile(`due\s+to\s+\w+`),
		regexp.MustCompile(`results?\s+in\s+\w+`),
		regexp.MustCompile(`leads?\s+to\s+\w+`),
		regexp.MustCompile(`causes?\s+\w+`),
		regexp.MustCompile(`therefore\s+\w+`),
	}

	definitionPatternsRe = []*regexp.Regexp{
		regexp.MustCompile(`\w+\s+is\s+(?:a|an|the)\s+\w+`),
		regexp.MustCompile(`\w+\s+refers\s+to\s+\w+`),
		regexp.MustCompile(`\w+\s+means\s+\w+`),
		regexp.MustCompile(`\w+\s+is\s+defined\s+as\s+\w+`),
	}

	// Factual-token patterns: measurements, years, formulas, proper
	// nouns and scientific notation.
	measurementRe = regexp.MustCompile(`\d+\.?\d*\s*(?:km|m|cm|mm|kg|g|mg|l|ml|hours?|minutes?|seconds?|%)`)
	yearRe        = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	properNounRe  = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
	scientificRe  = regexp.MustCompile(`\d+\.?\d*\s*[×x]\s*10\^?\d+`)

	formulaPatternsRe = []*regexp.Regexp{
		regexp.MustCompile(`[A-Za-z]+\s*=\s*[A-Za-z0-9+\-*/()\s]+`),
		regexp.MustCompile(`\d+\s*[-+*/]\s*\d+\s*=\s*\d+`),
		regexp.MustCompile(`[A-Z]+\d*\s*[-+]\s*[A-Z]+\d*`),
		regexp.MustCompile(`\d+\s*×\s*\d+|\d+\s*÷\s*\d+`),
		regexp.MustCompile(`½|¼|¾|\d+/\d+`),
	}
)
