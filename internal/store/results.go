// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/horizon-oa/pkg/types"
)

// Results manages the run-results SQLite database. Every resolution sweep
// and every reconciliation batch is stored as a run with a UUID, so
// results from different pulls can be compared later. Manual overrides
// live in their own table keyed by publication GUID; they apply across
// runs.
type Results struct {
	db *sql.DB
}

// NewResults opens or creates the results database at dbPath, creating the
// schema if it does not exist.
func NewResults(dbPath string) (*Results, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	r := &Results{db: db}
	if err := r.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return r, nil
}

// Close releases the database connection.
func (r *Results) Close() error {
	return r.db.Close()
}

func (r *Results) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			run_id TEXT NOT NULL REFERENCES runs(id),
			project_guid TEXT NOT NULL,
			project_title TEXT,
			horizon_id TEXT NOT NULL,
			stage TEXT NOT NULL,
			confidence INTEGER NOT NULL,
			provenance TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_run_id ON matches(run_id)`,
		`CREATE TABLE IF NOT EXISTS verdicts (
			run_id TEXT NOT NULL REFERENCES runs(id),
			publication_guid TEXT NOT NULL,
			doi TEXT,
			title TEXT,
			registry_open INTEGER NOT NULL,
			lookup_url TEXT,
			manual INTEGER,
			open INTEGER NOT NULL,
			ambiguous INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verdicts_run_id ON verdicts(run_id)`,
		`CREATE TABLE IF NOT EXISTS overrides (
			publication_guid TEXT PRIMARY KEY,
			open INTEGER NOT NULL,
			noted_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (r *Results) newRun(ctx context.Context, tx *sql.Tx, kind string) (string, error) {
	runID := uuid.NewString()
	_, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, kind, created_at) VALUES (?, ?, ?)`,
		runID, kind, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return runID, nil
}

// SaveResolution stores the matched set of one resolution sweep as a new
// run and returns the run ID. Ambiguous and no-input outcomes stay in the
// JSON artifact; only accepted matches are queryable.
func (r *Results) SaveResolution(ctx context.Context, report types.ResolutionReport) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	runID, err := r.newRun(ctx, tx, "resolution")
	if err != nil {
		return "", err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO matches (run_id, project_guid, project_title, horizon_id, stage, confidence, provenance)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range report.Matched {
		if _, err := stmt.ExecContext(ctx,
			runID, m.ProjectGUID, m.ProjectTitle, m.HorizonID, m.Stage, m.Confidence, m.Provenance,
		); err != nil {
			return "", fmt.Errorf("inserting match for %s: %w", m.ProjectGUID, err)
		}
	}

	return runID, tx.Commit()
}

// SaveVerdicts stores a batch of reconciled verdicts as a new run and
// returns the run ID.
func (r *Results) SaveVerdicts(ctx context.Context, verdicts []types.OpenAccessVerdict) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	runID, err := r.newRun(ctx, tx, "verdicts")
	if err != nil {
		return "", err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO verdicts (run_id, publication_guid, doi, title, registry_open, lookup_url, manual, open, ambiguous)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range verdicts {
		var manual sql.NullBool
		if v.Manual != nil {
			manual = sql.NullBool{Bool: *v.Manual, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			runID, v.PublicationGUID, v.DOI, v.Title, v.RegistryOpen, v.LookupURL, manual, v.Open, v.Ambiguous,
		); err != nil {
			return "", fmt.Errorf("inserting verdict for %s: %w", v.PublicationGUID, err)
		}
	}

	return runID, tx.Commit()
}

// LatestVerdicts returns the verdicts of the most recent verdict run, in
// insertion order. Returns an empty slice when no verdict run exists.
func (r *Results) LatestVerdicts(ctx context.Context) ([]types.OpenAccessVerdict, error) {
	var runID string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM runs WHERE kind = 'verdicts' ORDER BY rowid DESC LIMIT 1`,
	).Scan(&runID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding latest verdict run: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT publication_guid, doi, title, registry_open, lookup_url, manual, open, ambiguous
		 FROM verdicts WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying verdicts: %w", err)
	}
	defer rows.Close()

	var verdicts []types.OpenAccessVerdict
	for rows.Next() {
		var v types.OpenAccessVerdict
		var manual sql.NullBool
		if err := rows.Scan(&v.PublicationGUID, &v.DOI, &v.Title, &v.RegistryOpen,
			&v.LookupURL, &manual, &v.Open, &v.Ambiguous); err != nil {
			return nil, fmt.Errorf("scanning verdict: %w", err)
		}
		if manual.Valid {
			m := manual.Bool
			v.Manual = &m
		}
		verdicts = append(verdicts, v)
	}
	return verdicts, rows.Err()
}

// SetOverride records a manually verified availability for one publication,
// replacing any earlier override.
func (r *Results) SetOverride(ctx context.Context, publicationGUID string, open bool) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO overrides (publication_guid, open, noted_at) VALUES (?, ?, ?)
		 ON CONFLICT(publication_guid) DO UPDATE SET open=excluded.open, noted_at=excluded.noted_at`,
		publicationGUID, open, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving override for %s: %w", publicationGUID, err)
	}
	return nil
}

// Overrides returns all manual overrides keyed by publication GUID.
func (r *Results) Overrides(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT publication_guid, open FROM overrides`)
	if err != nil {
		return nil, fmt.Errorf("querying overrides: %w", err)
	}
	defer rows.Close()

	overrides := make(map[string]bool)
	for rows.Next() {
		var guid string
		var open bool
		if err := rows.Scan(&guid, &open); err != nil {
			return nil, fmt.Errorf("scanning override: %w", err)
		}
		overrides[guid] = open
	}
	return overrides, rows.Err()
}
