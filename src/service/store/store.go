// Package store persists analysis runs to a SQLite database so results can
// be compared across runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"code-analyzer/src/model"
	"code-analyzer/src/util"
)

const driverName = "sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
  id            TEXT PRIMARY KEY,
  root_path     TEXT NOT NULL,
  generated_at  TEXT NOT NULL,
  files         INTEGER NOT NULL,
  file_errors   INTEGER NOT NULL,
  issues        INTEGER NOT NULL,
  debt_score    REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS files (
  id           INTEGER PRIMARY KEY AUTOINCREMENT,
  run_id       TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
  path         TEXT NOT NULL,
  hash         TEXT NOT NULL,
  line_count   INTEGER NOT NULL,
  parse_errors INTEGER NOT NULL,
  error        TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS types (
  id            INTEGER PRIMARY KEY AUTOINCREMENT,
  file_id       INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  namespace     TEXT NOT NULL,
  kind          TEXT NOT NULL,
  name          TEXT NOT NULL,
  start_line    INTEGER NOT NULL,
  end_line      INTEGER NOT NULL,
  comment_lines INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS methods (
  id                    INTEGER PRIMARY KEY AUTOINCREMENT,
  type_id               INTEGER NOT NULL REFERENCES types(id) ON DELETE CASCADE,
  name                  TEXT NOT NULL,
  start_line            INTEGER NOT NULL,
  end_line              INTEGER NOT NULL,
  cyclomatic_complexity INTEGER NOT NULL,
  comment_lines         INTEGER NOT NULL,
  code_tokens           INTEGER NOT NULL,
  lambdas               INTEGER NOT NULL,
  parameters            INTEGER NOT NULL,
  contract_complexity   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS issues (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
  category    TEXT NOT NULL,
  subcategory TEXT NOT NULL,
  severity    TEXT NOT NULL,
  file_path   TEXT NOT NULL,
  start_line  INTEGER NOT NULL,
  end_line    INTEGER NOT NULL,
  entity_name TEXT NOT NULL,
  description TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_files_run ON files(run_id);
CREATE INDEX IF NOT EXISTS idx_issues_run ON issues(run_id);
`

// Run summarizes one stored analysis run
type Run struct {
	ID          string
	RootPath    string
	GeneratedAt time.Time
	Files       int
	FileErrors  int
	Issues      int
	DebtScore   float64
}

// Store is a SQLite-backed run history
type Store struct {
	path string
	db   *sql.DB
}

// Open opens or creates the database at path and applies the schema
func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("database path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("database path %q is a directory, expected file", cleanPath)
	}
	if dir := filepath.Dir(cleanPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory %q: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite database %q: %w", cleanPath, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	util.Debug("Opened run database %s", cleanPath)
	return &Store{path: cleanPath, db: db}, nil
}

// Path returns the database file
func (s *Store) Path() string {
	return s.path
}

// Close closes the database
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save writes a report and all of its file metrics in one transaction.
// Saving a run id twice replaces the earlier rows.
func (s *Store) Save(ctx context.Context, report *model.AnalysisReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, report.RunID); err != nil {
		return fmt.Errorf("replace run %s: %w", report.RunID, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, root_path, generated_at, files, file_errors, issues, debt_score) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, report.RootPath, report.GeneratedAt.UTC().Format(time.RFC3339Nano),
		len(report.Files), report.FileErrors, len(report.Issues), report.Summary.DebtScore)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", report.RunID, err)
	}

	for _, f := range report.Files {
		if err := saveFile(ctx, tx, report.RunID, f); err != nil {
			return err
		}
	}

	for _, issue := range report.Issues {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO issues (run_id, category, subcategory, severity, file_path, start_line, end_line, entity_name, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			report.RunID, string(issue.Category), issue.Subcategory, string(issue.Severity), issue.FilePath,
			issue.StartLine, issue.EndLine, issue.EntityName, issue.Description)
		if err != nil {
			return fmt.Errorf("insert issue for %s: %w", issue.EntityName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", report.RunID, err)
	}
	util.Info("Saved run %s to %s (%d files, %d issues)", report.RunID, s.path, len(report.Files), len(report.Issues))
	return nil
}

func saveFile(ctx context.Context, tx *sql.Tx, runID string, f model.FileMetrics) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO files (run_id, path, hash, line_count, parse_errors, error) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, f.Path, f.Hash, f.LineCount, f.ParseErrors, f.Error)
	if err != nil {
		return fmt.Errorf("insert file %s: %w", f.Path, err)
	}
	fileID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, ns := range f.Namespaces {
		for _, t := range ns.Types {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO types (file_id, namespace, kind, name, start_line, end_line, comment_lines) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				fileID, ns.Name, string(t.Kind), t.Name, t.StartLine, t.EndLine, t.CommentLines)
			if err != nil {
				return fmt.Errorf("insert type %s in %s: %w", t.Name, f.Path, err)
			}
			typeID, err := res.LastInsertId()
			if err != nil {
				return err
			}

			for _, m := range t.Methods {
				_, err := tx.ExecContext(ctx,
					`INSERT INTO methods (type_id, name, start_line, end_line, cyclomatic_complexity, comment_lines, code_tokens, lambdas, parameters, contract_complexity)
					 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					typeID, m.Name, m.StartLine, m.EndLine, m.CyclomaticComplexity, m.CommentLines,
					m.CodeTokens, m.Lambdas, m.Parameters, m.ContractComplexity)
				if err != nil {
					return fmt.Errorf("insert method %s.%s: %w", t.Name, m.Name, err)
				}
			}
		}
	}
	return nil
}

// Runs returns the most recent runs, newest first. limit <= 0 returns all.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, root_path, generated_at, files, file_errors, issues, debt_score FROM runs ORDER BY generated_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var generated string
		if err := rows.Scan(&r.ID, &r.RootPath, &generated, &r.Files, &r.FileErrors, &r.Issues, &r.DebtScore); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.GeneratedAt, err = time.Parse(time.RFC3339Nano, generated)
		if err != nil {
			return nil, fmt.Errorf("run %s has bad timestamp %q: %w", r.ID, generated, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// MethodComplexity returns the stored cyclomatic complexity of every method
// in a run, keyed by file path and qualified name.
func (s *Store) MethodComplexity(ctx context.Context, runID string) (map[string]uint, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT f.path, t.namespace, t.name, m.name, m.cyclomatic_complexity
FROM methods m
JOIN types t ON t.id = m.type_id
JOIN files f ON f.id = t.file_id
WHERE f.run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("query methods of run %s: %w", runID, err)
	}
	defer rows.Close()

	out := make(map[string]uint)
	for rows.Next() {
		var path, ns, typeName, method string
		var cc uint
		if err := rows.Scan(&path, &ns, &typeName, &method, &cc); err != nil {
			return nil, fmt.Errorf("scan method: %w", err)
		}
		name := typeName + "." + method
		if ns != "" {
			name = ns + "." + name
		}
		out[path+":"+name] = cc
	}
	return out, rows.Err()
}
