// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists finished consultations: the structured record,
// the assembled report text, and the derived code lists. It backs the
// download/export surface and full-text search over past reports.
package archive

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/babuconsultant/medical-consultation-ai/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "consultations.db"
)

// Store manages the consultation archive SQLite database.
type Store struct {
	db         *sql.DB
	archiveDir string
	maxResults int
}

// NewStore opens or creates the archive database at
// archiveDir/index/consultations.db, creating the schema if needed.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.ArchiveDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		archiveDir: cfg.ArchiveDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS consultations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			sample_name TEXT,
			description TEXT,
			date_of_visit TEXT,
			gender TEXT,
			record TEXT NOT NULL,
			report TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS findings (
			consultation_id TEXT NOT NULL REFERENCES consultations(id) ON DELETE CASCADE,
			code TEXT NOT NULL,
			system TEXT NOT NULL,
			gloss TEXT,
			rank INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_findings_consultation ON findings(consultation_id)`,
		`CREATE INDEX IF NOT EXISTS idx_findings_code ON findings(code)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='consultations_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE consultations_fts USING fts5(report, content=consultations, content_rowid=rowid)`,
			`CREATE TRIGGER consultations_ai AFTER INSERT ON consultations BEGIN
				INSERT INTO consultations_fts(rowid, report) VALUES (new.rowid, new.report);
			END`,
			`CREATE TRIGGER consultations_ad AFTER DELETE ON consultations BEGIN
				INSERT INTO consultations_fts(consultations_fts, rowid, report) VALUES('delete', old.rowid, old.report);
			END`,
			`CREATE TRIGGER consultations_au AFTER UPDATE ON consultations BEGIN
				INSERT INTO consultations_fts(consultations_fts, rowid, report) VALUES('delete', old.rowid, old.report);
				INSERT INTO consultations_fts(rowid, report) VALUES (new.rowid, new.report);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Save stores one finished consultation and returns its ID. The ID is
// deterministic over sample name, visit date, and report text; saving the
// same consultation again replaces the stored row and its findings.
func (s *Store) Save(ctx context.Context, record types.StructuredRecord, meta types.VisitMetadata, reportText string, set types.CodeSet) (string, error) {
	id := stableID(meta, reportText)

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshaling record: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM findings WHERE consultation_id = ?`, id); err != nil {
		return "", fmt.Errorf("deleting old findings: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO consultations (id, sample_name, description, date_of_visit, gender, record, report, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			sample_name=excluded.sample_name, description=excluded.description,
			date_of_visit=excluded.date_of_visit, gender=excluded.gender,
			record=excluded.record, report=excluded.report, created_at=excluded.created_at`,
		id, meta.SampleName, meta.Description, meta.DateOfVisit, record.Gender,
		string(recordJSON), reportText, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("upserting consultation: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO findings (consultation_id, code, system, gloss, rank) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for rank, f := range set.ICD10 {
		if _, err := stmt.ExecContext(ctx, id, f.Code, string(f.System), f.Gloss, rank); err != nil {
			return "", fmt.Errorf("inserting finding %s: %w", f.Code, err)
		}
	}
	for rank, f := range set.CPT {
		if _, err := stmt.ExecContext(ctx, id, f.Code, string(f.System), f.Gloss, rank); err != nil {
			return "", fmt.Errorf("inserting finding %s: %w", f.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// Consultation is one stored consultation with its code lists.
type Consultation struct {
	ID        string                 `json:"id"`
	Meta      types.VisitMetadata    `json:"metadata"`
	Record    types.StructuredRecord `json:"record"`
	Report    string                 `json:"report"`
	Codes     types.CodeSet          `json:"codes"`
	CreatedAt string                 `json:"created_at"`
}

// Get loads one consultation by ID.
func (s *Store) Get(ctx context.Context, id string) (*Consultation, error) {
	var c Consultation
	var recordJSON string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, sample_name, description, date_of_visit, record, report, created_at
		 FROM consultations WHERE id = ?`, id,
	).Scan(&c.ID, &c.Meta.SampleName, &c.Meta.Description, &c.Meta.DateOfVisit,
		&recordJSON, &c.Report, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("consultation %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading consultation: %w", err)
	}

	if err := json.Unmarshal([]byte(recordJSON), &c.Record); err != nil {
		return nil, fmt.Errorf("parsing stored record: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT code, system, gloss FROM findings WHERE consultation_id = ? ORDER BY system, rank`, id)
	if err != nil {
		return nil, fmt.Errorf("loading findings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f types.CodedFinding
		var system string
		if err := rows.Scan(&f.Code, &system, &f.Gloss); err != nil {
			return nil, fmt.Errorf("scanning finding: %w", err)
		}
		f.System = types.CodeSystem(system)
		switch f.System {
		case types.SystemICD10:
			c.Codes.ICD10 = append(c.Codes.ICD10, f)
		case types.SystemCPT:
			c.Codes.CPT = append(c.Codes.CPT, f)
		}
	}
	return &c, rows.Err()
}

// stableID generates a deterministic ID from the visit identity and report
// text. The ID is the first 12 hex characters of the SHA-256 digest.
func stableID(meta types.VisitMetadata, reportText string) string {
	h := sha256.New()
	h.Write([]byte(meta.SampleName))
	h.Write([]byte(meta.DateOfVisit))
	h.Write([]byte(reportText))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}
