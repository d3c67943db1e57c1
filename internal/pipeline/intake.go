package pipeline

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/spf13/cast"

	"github.com/yashvini-chirri/evalmate/internal/model"
)

var digitsRe = regexp.MustCompile(`\d+`)

// SheetFromMaps assembles question inputs from keyed maps, the shape
// produced by form-style uploads: student answers, the answer key, mark
// allocations and question types, all keyed by question number. Keys
// present in either the answers or the key map form the sheet; entries
// whose key cannot be resolved to a question number are dropped and
// reported in the returned problem list.
func SheetFromMaps(answers, key map[string]string, marks map[string]any, types map[string]string) ([]model.QuestionInput, []string) {
	var problems []string

	ids := make(map[int]string)
	for _, m := range []map[string]string{answers, key} {
		for k := range m {
			id, ok := parseQuestionKey(k)
			if !ok {
				problems = append(problems, fmt.Sprintf("invalid question key %q", k))
				continue
			}
			// Alternate spellings of the same question number ("3" vs
			// "Q3") are benign; lookup falls back to the bare number.
			if _, dup := ids[id]; !dup {
				ids[id] = k
			}
		}
	}

	inputs := make([]model.QuestionInput, 0, len(ids))
	for id, k := range ids {
		maxMarks := cast.ToInt(lookupAny(marks, k, id))
		if maxMarks < 0 {
			problems = append(problems, fmt.Sprintf("question %d: negative marks allocation %d", id, maxMarks))
			maxMarks = 0
		}
		inputs = append(inputs, model.QuestionInput{
			ID:            id,
			StudentAnswer: lookup(answers, k, id),
			ModelAnswer:   lookup(key, k, id),
			MaxMarks:      maxMarks,
			Type:          model.ParseQuestionType(lookup(types, k, id)),
			OCRConfidence: 1.0,
		})
	}
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].ID < inputs[j].ID })
	sort.Strings(problems)
	return inputs, problems
}

// parseQuestionKey resolves map keys like "3", "Q3" or "question_3" to a
// question number.
func parseQuestionKey(k string) (int, bool) {
	if id := cast.ToInt(k); id > 0 {
		return id, true
	}
	if m := digitsRe.FindString(k); m != "" {
		if id := cast.ToInt(m); id > 0 {
			return id, true
		}
	}
	return 0, false
}

// lookup reads a keyed map by the literal key first, then by the bare
// question number, so "Q3" in one map still matches "3" in another.
func lookup(m map[string]string, k string, id int) string {
	if v, ok := m[k]; ok {
		return v
	}
	return m[fmt.Sprintf("%d", id)]
}

func lookupAny(m map[string]any, k string, id int) any {
	if v, ok := m[k]; ok {
		return v
	}
	return m[fmt.Sprintf("%d", id)]
}
