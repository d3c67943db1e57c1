package validate

import (
	"context"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/yashvini-chirri/evalmate/internal/i18n"
	"github.com/yashvini-chirri/evalmate/internal/model"
)

func TestMain(m *testing.M) {
	if err := i18n.Init("en"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func testInputs() []model.QuestionInput {
	return []model.QuestionInput{
		{ID: 1, StudentAnswer: "Paris is the capital of France.", ModelAnswer: "Paris.", MaxMarks: 5},
		{ID: 2, StudentAnswer: "", ModelAnswer: "Berlin.", MaxMarks: 5},
		{ID: 3, StudentAnswer: "Rome.", ModelAnswer: "Rome.", MaxMarks: 5},
	}
}

func validRecords() []model.EvaluationRecord {
	return []model.EvaluationRecord{
		{QuestionID: 1, StudentAnswer: "Paris is the capital of France.", ModelAnswer: "Paris.", MarksAllocated: 5, MarksObtained: 4, Status: model.StatusEvaluated},
		{QuestionID: 2, StudentAnswer: "", ModelAnswer: "Berlin.", MarksAllocated: 5, Status: model.StatusSkipped},
		{QuestionID: 3, StudentAnswer: "Rome.", ModelAnswer: "Rome.", MarksAllocated: 5, MarksObtained: 5, Status: model.StatusEvaluated},
	}
}

func TestValidateCleanSheetIsNoOp(t *testing.T) {
	v := New()
	records := validRecords()

	corrected, log := v.Validate(context.Background(), testInputs(), records)
	if len(log) != 0 {
		t.Fatalf("expected empty log for valid records, got %v", log)
	}
	if len(corrected) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(corrected))
	}
	for i := range records {
		if !reflect.DeepEqual(corrected[i], records[i]) {
			t.Errorf("record %d changed: %+v != %+v", i, corrected[i], records[i])
		}
	}
}

func TestValidateIdempotent(t *testing.T) {
	v := New()
	ctx := context.Background()

	broken := validRecords()
	broken[0].MarksObtained = 99
	broken[1].MarksObtained = 3
	broken[1].Status = model.StatusEvaluated

	once, log1 := v.Validate(ctx, testInputs(), broken)
	if len(log1) == 0 {
		t.Fatal("expected corrections on first pass")
	}
	twice, log2 := v.Validate(ctx, testInputs(), once)
	if len(log2) != 0 {
		t.Fatalf("second pass should be clean, got %v", log2)
	}
	for i := range once {
		if !reflect.DeepEqual(twice[i], once[i]) {
			t.Errorf("record %d not stable under revalidation", i)
		}
	}
}

func TestValidateDuplicateRecords(t *testing.T) {
	v := New()
	records := validRecords()
	records = append(records, records[2])

	corrected, log := v.Validate(context.Background(), testInputs(), records)
	if len(corrected) != 3 {
		t.Fatalf("expected duplicate dropped, got %d records", len(corrected))
	}
	if !containsEntry(log, "duplicate question ID: 3") {
		t.Errorf("expected duplicate log entry, got %v", log)
	}
}

func TestValidateMarksClamped(t *testing.T) {
	v := New()
	records := validRecords()
	records[0].MarksObtained = 12
	records[2].MarksObtained = -1

	corrected, log := v.Validate(context.Background(), testInputs(), records)
	if corrected[0].MarksObtained != 5 {
		t.Errorf("over-budget marks: got %d, want 5", corrected[0].MarksObtained)
	}
	if corrected[2].MarksObtained != 0 {
		t.Errorf("negative marks: got %d, want 0", corrected[2].MarksObtained)
	}
	if len(log) != 2 {
		t.Errorf("expected 2 corrections, got %v", log)
	}
}

func TestValidateSkippedGetsZeroed(t *testing.T) {
	v := New()
	records := validRecords()
	records[1].Status = model.StatusEvaluated
	records[1].MarksObtained = 4
	records[1].ScoreVector = model.ScoreVector{FinalScore: 0.8}
	records[1].Feedback = "Good answer."

	corrected, log := v.Validate(context.Background(), testInputs(), records)
	rec := corrected[1]
	if rec.Status != model.StatusSkipped {
		t.Errorf("status: got %q, want skipped", rec.Status)
	}
	if rec.MarksObtained != 0 || !rec.ScoreVector.IsZero() {
		t.Errorf("expected zeroed scores, got marks=%d vector=%+v", rec.MarksObtained, rec.ScoreVector)
	}
	if rec.Feedback != "Question not attempted." {
		t.Errorf("feedback: got %q", rec.Feedback)
	}
	if len(log) == 0 {
		t.Error("expected a correction entry")
	}
}

func TestValidateAnsweredNotSkipped(t *testing.T) {
	v := New()
	records := validRecords()
	records[2].Status = model.StatusSkipped

	corrected, _ := v.Validate(context.Background(), testInputs(), records)
	if corrected[2].Status != model.StatusEvaluated {
		t.Errorf("answered question status: got %q, want evaluated", corrected[2].Status)
	}
}

func TestValidatePreservesFailedStatus(t *testing.T) {
	v := New()
	records := validRecords()
	records[2].Status = model.StatusFailed
	records[2].MarksObtained = 3

	corrected, log := v.Validate(context.Background(), testInputs(), records)
	if corrected[2].Status != model.StatusFailed {
		t.Errorf("failed status should be preserved, got %q", corrected[2].Status)
	}
	if len(log) != 0 {
		t.Errorf("expected no corrections, got %v", log)
	}
}

func TestValidateAnswerMismatch(t *testing.T) {
	v := New()
	records := validRecords()
	records[0].StudentAnswer = "tampered"

	corrected, log := v.Validate(context.Background(), testInputs(), records)
	if corrected[0].StudentAnswer != "Paris is the capital of France." {
		t.Errorf("student answer not restored: %q", corrected[0].StudentAnswer)
	}
	if !containsEntry(log, "question 1: student answer mismatch in record") {
		t.Errorf("expected mismatch entry, got %v", log)
	}
}

func TestValidateMissingRecordCreated(t *testing.T) {
	v := New()
	records := validRecords()[:2]

	corrected, log := v.Validate(context.Background(), testInputs(), records)
	if len(corrected) != 3 {
		t.Fatalf("expected synthesized record, got %d records", len(corrected))
	}
	rec := corrected[2]
	if rec.QuestionID != 3 {
		t.Fatalf("expected question 3 synthesized, got %d", rec.QuestionID)
	}
	if rec.Status != model.StatusFailed {
		t.Errorf("answered question without record: got status %q, want evaluation_failed", rec.Status)
	}
	if rec.MarksObtained != 0 {
		t.Errorf("synthesized record marks: got %d, want 0", rec.MarksObtained)
	}
	if !containsEntry(log, "question 3: missing evaluation result") {
		t.Errorf("expected missing-result entry, got %v", log)
	}
}

func TestValidateSortsByQuestionID(t *testing.T) {
	v := New()
	records := validRecords()
	records[0], records[2] = records[2], records[0]

	corrected, log := v.Validate(context.Background(), testInputs(), records)
	for i := 1; i < len(corrected); i++ {
		if corrected[i-1].QuestionID >= corrected[i].QuestionID {
			t.Fatalf("records not sorted: %d before %d", corrected[i-1].QuestionID, corrected[i].QuestionID)
		}
	}
	// Reordering is a repair like any other and must be reported.
	if !containsEntry(log, "records out of order") {
		t.Errorf("expected reorder entry, got %v", log)
	}
	if len(log) != 1 {
		t.Errorf("otherwise valid records should only log the reorder, got %v", log)
	}
}

func containsEntry(log []string, want string) bool {
	for _, e := range log {
		if strings.Contains(e, want) {
			return true
		}
	}
	return false
}
