// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps a local SQLite history of completed conversions.
package archive

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"

	"github.com/pdiddy/leiden-epidoc/internal/convert"
	"github.com/pdiddy/leiden-epidoc/pkg/types"
)

// driverName is go-sqlite3 with a Unicode-aware fold() SQL function.
const driverName = "sqlite3_archive"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("fold", fold, true)
		},
	})
}

// fold applies full Unicode case folding; SQLite's lower() only folds ASCII.
func fold(s string) string {
	return cases.Fold().String(s)
}

// timeFormat is fixed width so stored timestamps sort lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

var (
	// ErrNotFound is returned by Get when no record matches.
	ErrNotFound = errors.New("no matching conversion")
	// ErrAmbiguous is returned by Get when a prefix matches several records.
	ErrAmbiguous = errors.New("id prefix matches more than one conversion")
)

// Record is one archived conversion.
type Record struct {
	ID           string                   `json:"id" yaml:"id"`
	CreatedAt    time.Time                `json:"created_at" yaml:"created_at"`
	SourcePath   string                   `json:"source_path,omitempty" yaml:"source_path,omitempty"`
	SourceSHA256 string                   `json:"source_sha256" yaml:"source_sha256"`
	Source       string                   `json:"source" yaml:"source"`
	Provider     types.Provider           `json:"provider" yaml:"provider"`
	Model        string                   `json:"model" yaml:"model"`
	Strategy     types.ExtractionStrategy `json:"strategy" yaml:"strategy"`
	EpiDoc       string                   `json:"epidoc" yaml:"epidoc"`
	Analysis     string                   `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Notes        string                   `json:"notes,omitempty" yaml:"notes,omitempty"`
	Raw          string                   `json:"raw" yaml:"raw"`
	Scripts      []string                 `json:"scripts,omitempty" yaml:"scripts,omitempty"`
	RTL          bool                     `json:"rtl" yaml:"rtl"`
	ElapsedMS    int64                    `json:"elapsed_ms" yaml:"elapsed_ms"`
}

// NewRecord builds a record from a conversion result. sourcePath may be
// empty for text given on the command line or stdin.
func NewRecord(sourcePath string, res *convert.Result) Record {
	sum := sha256.Sum256([]byte(res.Request.SourceText))
	return Record{
		SourcePath:   sourcePath,
		SourceSHA256: hex.EncodeToString(sum[:]),
		Source:       res.Request.SourceText,
		Provider:     res.Provider,
		Model:        res.Model,
		Strategy:     res.Extracted.Strategy,
		EpiDoc:       res.Extracted.EpiDocXML,
		Analysis:     res.Extracted.Analysis,
		Notes:        res.Extracted.Notes,
		Raw:          res.Raw,
		Scripts:      res.Scripts,
		RTL:          res.RTL,
		ElapsedMS:    res.Elapsed.Milliseconds(),
	}
}

// Store is the archive database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	db, err := sql.Open(driverName, path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS conversions (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			source_path TEXT,
			source_sha256 TEXT NOT NULL,
			source TEXT NOT NULL,
			provider TEXT,
			model TEXT,
			strategy TEXT NOT NULL,
			epidoc TEXT NOT NULL,
			analysis TEXT,
			notes TEXT,
			raw TEXT,
			scripts TEXT,
			rtl INTEGER NOT NULL DEFAULT 0,
			elapsed_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_created_at ON conversions(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_sha ON conversions(source_sha256)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Add stores r, assigning an ID and timestamp when they are unset, and
// returns the stored record.
func (s *Store) Add(ctx context.Context, r Record) (Record, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.CreatedAt = r.CreatedAt.UTC()
	if r.SourceSHA256 == "" {
		sum := sha256.Sum256([]byte(r.Source))
		r.SourceSHA256 = hex.EncodeToString(sum[:])
	}

	scripts, err := json.Marshal(r.Scripts)
	if err != nil {
		return r, fmt.Errorf("marshaling scripts: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO conversions (id, created_at, source_path, source_sha256, source,
			provider, model, strategy, epidoc, analysis, notes, raw, scripts, rtl, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CreatedAt.Format(timeFormat), r.SourcePath, r.SourceSHA256, r.Source,
		string(r.Provider), r.Model, string(r.Strategy), r.EpiDoc, r.Analysis, r.Notes, r.Raw,
		string(scripts), r.RTL, r.ElapsedMS,
	)
	if err != nil {
		return r, fmt.Errorf("inserting conversion %s: %w", r.ID, err)
	}
	return r, nil
}

const selectColumns = `SELECT id, created_at, source_path, source_sha256, source,
	provider, model, strategy, epidoc, analysis, notes, raw, scripts, rtl, elapsed_ms
	FROM conversions`

// Get returns the record whose ID equals idOrPrefix, or the single record
// whose ID starts with it.
func (s *Store) Get(ctx context.Context, idOrPrefix string) (Record, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return Record{}, ErrNotFound
	}

	records, err := s.query(ctx,
		selectColumns+` WHERE substr(id, 1, ?) = ? ORDER BY (id = ?) DESC, created_at DESC LIMIT 2`,
		len(idOrPrefix), idOrPrefix, idOrPrefix)
	if err != nil {
		return Record{}, err
	}

	switch {
	case len(records) == 0:
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	case records[0].ID == idOrPrefix, len(records) == 1:
		return records[0], nil
	default:
		return Record{}, fmt.Errorf("%w: %s", ErrAmbiguous, idOrPrefix)
	}
}

// List returns the newest records first. A limit of zero or less returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	return s.query(ctx, selectColumns+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, sqlLimit(limit))
}

// Search returns records whose source or EpiDoc contains query, newest
// first. Matching is case-insensitive in every script, so θεοις finds ΘΕΟΙΣ.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Record, error) {
	if query == "" {
		return s.List(ctx, limit)
	}
	return s.query(ctx,
		selectColumns+` WHERE instr(fold(source), fold(?)) > 0 OR instr(fold(epidoc), fold(?)) > 0
		ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		query, query, sqlLimit(limit))
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r                                            Record
			created, provider, strategy                  string
			sourcePath, model, analysis, notes, raw, scr sql.NullString
			elapsed                                      sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &created, &sourcePath, &r.SourceSHA256, &r.Source,
			&provider, &model, &strategy, &r.EpiDoc, &analysis, &notes, &raw, &scr, &r.RTL, &elapsed); err != nil {
			return nil, fmt.Errorf("scanning conversion: %w", err)
		}

		r.CreatedAt, err = time.Parse(timeFormat, created)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at of %s: %w", r.ID, err)
		}
		r.SourcePath = sourcePath.String
		r.Provider = types.Provider(provider)
		r.Model = model.String
		r.Strategy = types.ExtractionStrategy(strategy)
		r.Analysis = analysis.String
		r.Notes = notes.String
		r.Raw = raw.String
		r.ElapsedMS = elapsed.Int64
		if scr.Valid && scr.String != "" && scr.String != "null" {
			if err := json.Unmarshal([]byte(scr.String), &r.Scripts); err != nil {
				return nil, fmt.Errorf("parsing scripts of %s: %w", r.ID, err)
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
