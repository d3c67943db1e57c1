package model

import "testing"

func TestParseQuestionType(t *testing.T) {
	cases := []struct {
		in   string
		want QuestionType
	}{
		{"MCQ", TypeMCQ},
		{"mcq", TypeMCQ},
		{"multiple_choice", TypeMCQ},
		{" Short ", TypeShort},
		{"LONG", TypeLong},
		{"Essay", TypeEssay},
		{"", TypeOther},
		{"true/false", TypeOther},
	}
	for _, c := range cases {
		if got := ParseQuestionType(c.in); got != c.want {
			t.Errorf("ParseQuestionType(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestScoreVectorIsZero(t *testing.T) {
	if !(ScoreVector{}).IsZero() {
		t.Error("zero vector should report IsZero")
	}
	if (ScoreVector{Coherence: 0.1}).IsZero() {
		t.Error("non-zero vector should not report IsZero")
	}
}
