// Package casestore persists the outputs of the characterization pipeline:
// document analyses, eligibility assessments, and issued laudos. Records are
// append-only; a laudo, once issued, is never rewritten.
package casestore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/incluo/laudo-agency/internal/docanalysis"
	"github.com/incluo/laudo-agency/internal/eligibility"
	"github.com/incluo/laudo-agency/internal/laudo"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	candidate_cpf  TEXT NOT NULL,
	candidate_name TEXT NOT NULL,
	score          INTEGER NOT NULL,
	tier           TEXT NOT NULL,
	detected_type  TEXT NOT NULL,
	result         TEXT NOT NULL,
	created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS assessments (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	candidate_cpf TEXT NOT NULL,
	outcome       TEXT NOT NULL,
	confidence    REAL NOT NULL,
	assessment    TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS laudos (
	laudo_id      TEXT PRIMARY KEY,
	candidate_cpf TEXT NOT NULL,
	pcd_status    INTEGER NOT NULL,
	report        TEXT NOT NULL,
	issued_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_cpf ON analyses (candidate_cpf);
CREATE INDEX IF NOT EXISTS idx_assessments_cpf ON assessments (candidate_cpf);
CREATE INDEX IF NOT EXISTS idx_laudos_cpf ON laudos (candidate_cpf);
`

// Store is a SQLite-backed case archive.
type Store struct {
	db *sqlx.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func timeToString(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	return string(b), nil
}

// SaveAnalysis appends an analysis record and returns its row id.
func (s *Store) SaveAnalysis(result docanalysis.AnalysisResult) (int64, error) {
	payload, err := marshalJSON(result)
	if err != nil {
		return 0, err
	}
	res, err := s.db.Exec(`INSERT INTO analyses (candidate_cpf, candidate_name, score, tier, detected_type, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.CandidateCPF,
		result.CandidateName,
		result.CompletenessScore,
		string(result.DocumentQuality),
		string(result.DetectedType),
		payload,
		timeToString(result.AnalyzedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("save analysis: %w", err)
	}
	return res.LastInsertId()
}

// SaveAssessment appends an eligibility assessment record.
func (s *Store) SaveAssessment(candidateCPF string, a eligibility.Assessment) (int64, error) {
	payload, err := marshalJSON(a)
	if err != nil {
		return 0, err
	}
	res, err := s.db.Exec(`INSERT INTO assessments (candidate_cpf, outcome, confidence, assessment, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		candidateCPF,
		string(a.Outcome),
		a.Confidence,
		payload,
		timeToString(a.EvaluatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("save assessment: %w", err)
	}
	return res.LastInsertId()
}

// SaveLaudo stores an issued laudo keyed by its identifier.
func (s *Store) SaveLaudo(candidateCPF string, r laudo.Report) error {
	payload, err := marshalJSON(r)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO laudos (laudo_id, candidate_cpf, pcd_status, report, issued_at)
		VALUES (?, ?, ?, ?, ?)`,
		r.ID,
		candidateCPF,
		boolToInt(r.Classification.PCDStatus),
		payload,
		timeToString(r.IssuedAt),
	)
	if err != nil {
		return fmt.Errorf("save laudo: %w", err)
	}
	return nil
}

// GetLaudo loads an issued laudo by id. The second return is false when no
// laudo with that id exists.
func (s *Store) GetLaudo(laudoID string) (laudo.Report, bool, error) {
	var payload string
	err := s.db.QueryRow("SELECT report FROM laudos WHERE laudo_id = ?", laudoID).Scan(&payload)
	if err == sql.ErrNoRows {
		return laudo.Report{}, false, nil
	}
	if err != nil {
		return laudo.Report{}, false, fmt.Errorf("get laudo: %w", err)
	}
	var r laudo.Report
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return laudo.Report{}, false, fmt.Errorf("decode laudo: %w", err)
	}
	return r, true, nil
}

// LaudoSummary is the listing view of an issued laudo.
type LaudoSummary struct {
	LaudoID      string `db:"laudo_id"      json:"laudo_id"`
	CandidateCPF string `db:"candidate_cpf" json:"candidate_cpf"`
	PCDStatus    bool   `db:"-"             json:"pcd_status"`
	IssuedAt     string `db:"issued_at"     json:"issued_at"`
}

// ListLaudos returns the most recent laudos for a candidate, or across all
// candidates when cpf is empty.
func (s *Store) ListLaudos(cpf string, limit int) ([]LaudoSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	query := "SELECT laudo_id, candidate_cpf, pcd_status, issued_at FROM laudos"
	args := []any{}
	if cpf != "" {
		query += " WHERE candidate_cpf = ?"
		args = append(args, cpf)
	}
	query += " ORDER BY issued_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list laudos: %w", err)
	}
	defer rows.Close()

	out := []LaudoSummary{}
	for rows.Next() {
		var sum LaudoSummary
		var status int
		if err := rows.Scan(&sum.LaudoID, &sum.CandidateCPF, &status, &sum.IssuedAt); err != nil {
			return nil, err
		}
		sum.PCDStatus = status != 0
		out = append(out, sum)
	}
	return out, rows.Err()
}

// CaseHistory gathers counts for a candidate, served at /v1/cases/{cpf}.
func (s *Store) CaseHistory(cpf string) (analyses, assessments, laudos int, err error) {
	row := s.db.QueryRow(`SELECT
		(SELECT COUNT(*) FROM analyses WHERE candidate_cpf = ?),
		(SELECT COUNT(*) FROM assessments WHERE candidate_cpf = ?),
		(SELECT COUNT(*) FROM laudos WHERE candidate_cpf = ?)`,
		cpf, cpf, cpf)
	if err := row.Scan(&analyses, &assessments, &laudos); err != nil {
		return 0, 0, 0, fmt.Errorf("case history: %w", err)
	}
	return analyses, assessments, laudos, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
