// Package store persists evaluated answer sheets in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yashvini-chirri/evalmate/internal/model"

	_ "modernc.org/sqlite"
)

var ErrNotFound = fmt.Errorf("sheet not found")

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sheets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sheet_uid TEXT NOT NULL UNIQUE,
		created_at DATETIME NOT NULL,
		total_marks INTEGER NOT NULL DEFAULT 0,
		obtained_marks INTEGER NOT NULL DEFAULT 0,
		percentage REAL NOT NULL DEFAULT 0,
		grade TEXT NOT NULL DEFAULT '',
		answered_count INTEGER NOT NULL DEFAULT 0,
		skipped_count INTEGER NOT NULL DEFAULT 0,
		error_log TEXT NOT NULL DEFAULT '[]'
	);

	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sheet_id INTEGER NOT NULL,
		question_id INTEGER NOT NULL,
		student_answer TEXT NOT NULL DEFAULT '',
		model_answer TEXT NOT NULL DEFAULT '',
		marks_allocated INTEGER NOT NULL DEFAULT 0,
		marks_obtained INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'evaluated',
		semantic_similarity REAL NOT NULL DEFAULT 0,
		conceptual_understanding REAL NOT NULL DEFAULT 0,
		factual_accuracy REAL NOT NULL DEFAULT 0,
		completeness REAL NOT NULL DEFAULT 0,
		coherence REAL NOT NULL DEFAULT 0,
		final_score REAL NOT NULL DEFAULT 0,
		feedback TEXT NOT NULL DEFAULT '',
		strengths TEXT NOT NULL DEFAULT '[]',
		error_analysis TEXT NOT NULL DEFAULT '[]',
		ocr_confidence REAL NOT NULL DEFAULT 1,
		FOREIGN KEY (sheet_id) REFERENCES sheets(id)
	);

	CREATE INDEX IF NOT EXISTS idx_records_sheet ON records(sheet_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveSummary stores an evaluated sheet and returns its storage identity.
func (s *Store) SaveSummary(summary model.SheetSummary) (model.StoredSheet, error) {
	stored := model.StoredSheet{
		SheetID:   uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Summary:   summary,
	}

	errLog, err := json.Marshal(orEmpty(summary.Errors))
	if err != nil {
		return model.StoredSheet{}, fmt.Errorf("marshal error log: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return model.StoredSheet{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO sheets (sheet_uid, created_at, total_marks, obtained_marks, percentage, grade, answered_count, skipped_count, error_log)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.SheetID, stored.CreatedAt, summary.TotalMarks, summary.ObtainedMarks,
		summary.Percentage, summary.Grade, summary.AnsweredCount, summary.SkippedCount, string(errLog),
	)
	if err != nil {
		return model.StoredSheet{}, fmt.Errorf("insert sheet: %w", err)
	}
	sheetID, err := res.LastInsertId()
	if err != nil {
		return model.StoredSheet{}, err
	}

	for _, rec := range summary.Records {
		strengths, err := json.Marshal(orEmpty(rec.Strengths))
		if err != nil {
			return model.StoredSheet{}, fmt.Errorf("marshal strengths: %w", err)
		}
		errAnalysis, err := json.Marshal(orEmpty(rec.Errors))
		if err != nil {
			return model.StoredSheet{}, fmt.Errorf("marshal error analysis: %w", err)
		}
		if _, err := tx.Exec(
			`INSERT INTO records (sheet_id, question_id, student_answer, model_answer, marks_allocated, marks_obtained, status,
			   semantic_similarity, conceptual_understanding, factual_accuracy, completeness, coherence, final_score,
			   feedback, strengths, error_analysis, ocr_confidence)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sheetID, rec.QuestionID, rec.StudentAnswer, rec.ModelAnswer, rec.MarksAllocated, rec.MarksObtained, rec.Status,
			rec.SemanticSimilarity, rec.ConceptualUnderstanding, rec.FactualAccuracy, rec.Completeness, rec.Coherence, rec.FinalScore,
			rec.Feedback, string(strengths), string(errAnalysis), rec.OCRConfidence,
		); err != nil {
			return model.StoredSheet{}, fmt.Errorf("insert record for question %d: %w", rec.QuestionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.StoredSheet{}, fmt.Errorf("commit: %w", err)
	}
	return stored, nil
}

// GetSummary loads a stored sheet by its public ID.
func (s *Store) GetSummary(sheetUID string) (model.StoredSheet, error) {
	var (
		stored model.StoredSheet
		rowID  int64
		errLog string
	)
	stored.SheetID = sheetUID
	err := s.db.QueryRow(
		`SELECT id, created_at, total_marks, obtained_marks, percentage, grade, answered_count, skipped_count, error_log
		 FROM sheets WHERE sheet_uid = ?`, sheetUID,
	).Scan(&rowID, &stored.CreatedAt, &stored.Summary.TotalMarks, &stored.Summary.ObtainedMarks,
		&stored.Summary.Percentage, &stored.Summary.Grade, &stored.Summary.AnsweredCount,
		&stored.Summary.SkippedCount, &errLog)
	if err == sql.ErrNoRows {
		return model.StoredSheet{}, ErrNotFound
	}
	if err != nil {
		return model.StoredSheet{}, fmt.Errorf("load sheet: %w", err)
	}
	if err := json.Unmarshal([]byte(errLog), &stored.Summary.Errors); err != nil {
		return model.StoredSheet{}, fmt.Errorf("decode error log: %w", err)
	}

	records, err := s.loadRecords(rowID)
	if err != nil {
		return model.StoredSheet{}, err
	}
	stored.Summary.Records = records
	return stored, nil
}

func (s *Store) loadRecords(sheetRowID int64) ([]model.EvaluationRecord, error) {
	rows, err := s.db.Query(
		`SELECT question_id, student_answer, model_answer, marks_allocated, marks_obtained, status,
		   semantic_similarity, conceptual_understanding, factual_accuracy, completeness, coherence, final_score,
		   feedback, strengths, error_analysis, ocr_confidence
		 FROM records WHERE sheet_id = ? ORDER BY question_id`, sheetRowID,
	)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()

	var records []model.EvaluationRecord
	for rows.Next() {
		var (
			rec                   model.EvaluationRecord
			strengths, errAnalysis string
		)
		if err := rows.Scan(&rec.QuestionID, &rec.StudentAnswer, &rec.ModelAnswer, &rec.MarksAllocated, &rec.MarksObtained, &rec.Status,
			&rec.SemanticSimilarity, &rec.ConceptualUnderstanding, &rec.FactualAccuracy, &rec.Completeness, &rec.Coherence, &rec.FinalScore,
			&rec.Feedback, &strengths, &errAnalysis, &rec.OCRConfidence); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if err := json.Unmarshal([]byte(strengths), &rec.Strengths); err != nil {
			return nil, fmt.Errorf("decode strengths: %w", err)
		}
		if err := json.Unmarshal([]byte(errAnalysis), &rec.Errors); err != nil {
			return nil, fmt.Errorf("decode error analysis: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListSheets returns summaries of all stored sheets, newest first.
func (s *Store) ListSheets() ([]model.SheetInfo, error) {
	rows, err := s.db.Query(
		`SELECT sheet_uid, created_at, total_marks, obtained_marks, percentage, grade
		 FROM sheets ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	defer rows.Close()

	var infos []model.SheetInfo
	for rows.Next() {
		var info model.SheetInfo
		if err := rows.Scan(&info.SheetID, &info.CreatedAt, &info.TotalMarks,
			&info.ObtainedMarks, &info.Percentage, &info.Grade); err != nil {
			return nil, fmt.Errorf("scan sheet: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// ExportAll dumps every stored sheet with full records.
func (s *Store) ExportAll() (model.SheetExport, error) {
	infos, err := s.ListSheets()
	if err != nil {
		return model.SheetExport{}, err
	}
	export := model.SheetExport{
		ExportedAt: time.Now().UTC(),
		NumSheets:  len(infos),
		Sheets:     make([]model.StoredSheet, 0, len(infos)),
	}
	for _, info := range infos {
		stored, err := s.GetSummary(info.SheetID)
		if err != nil {
			return model.SheetExport{}, fmt.Errorf("export sheet %s: %w", info.SheetID, err)
		}
		export.Sheets = append(export.Sheets, stored)
	}
	return export, nil
}

// orEmpty keeps nil slices out of stored JSON so they round-trip as [].
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
