// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// SQLStore is the embedded-SQL Backend variant: three relational tables
// with foreign keys and cascading deletes.
type SQLStore struct {
	db  *sql.DB
	log *slog.Logger
}

// OpenDB opens the SQLite database at path with foreign keys enforced.
// Cascade deletes depend on the foreign_keys pragma, so it is part of the
// DSN rather than a per-session afterthought.
func OpenDB(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return db, nil
}

// NewSQLStore wraps an open database, runs legacy-schema migrations and
// asserts the target schema.
func NewSQLStore(db *sql.DB, log *slog.Logger) (*SQLStore, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &SQLStore{db: db, log: log}
	s.migrate()
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// tryExec runs one guarded migration step. Failures are logged and skipped:
// most mean the step already ran on an earlier start, and the target schema
// is re-asserted idempotently afterward either way.
func (s *SQLStore) tryExec(stmt string) {
	if _, err := s.db.Exec(stmt); err != nil {
		s.log.Debug("migration step skipped", "stmt", stmt, "err", err)
	}
}

func (s *SQLStore) hasTable(name string) bool {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	return err == nil && n > 0
}

func (s *SQLStore) hasColumn(table, column string) bool {
	rows, err := s.db.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cid       int
			name, typ string
			notnull   int
			dflt      sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			continue
		}
		if name == column {
			return true
		}
	}
	return false
}

// migrate brings databases written by earlier releases up to the current
// naming: categories became decks, words became terms, and the progress
// table lost its difficulty column.
func (s *SQLStore) migrate() {
	if s.hasTable("categories") && !s.hasTable("decks") {
		s.tryExec(`ALTER TABLE categories RENAME TO decks`)
	}
	if s.hasTable("words") && !s.hasTable("terms") {
		s.tryExec(`ALTER TABLE words RENAME TO terms`)
		s.tryExec(`ALTER TABLE terms RENAME COLUMN word TO term`)
		s.tryExec(`ALTER TABLE terms RENAME COLUMN example TO function`)
	}
	if s.hasTable("terms") && s.hasColumn("terms", "category_id") {
		s.tryExec(`ALTER TABLE terms RENAME COLUMN category_id TO deck_id`)
	}
	if s.hasTable("progress") {
		if s.hasColumn("progress", "word_id") {
			s.tryExec(`ALTER TABLE progress RENAME COLUMN word_id TO term_id`)
		}
		if s.hasColumn("progress", "difficulty_level") {
			s.tryExec(`ALTER TABLE progress DROP COLUMN difficulty_level`)
		}
	}
	if s.hasTable("decks") {
		if !s.hasColumn("decks", "created_at") {
			s.tryExec(`ALTER TABLE decks ADD COLUMN created_at TEXT`)
		}
		if !s.hasColumn("decks", "last_studied") {
			s.tryExec(`ALTER TABLE decks ADD COLUMN last_studied TEXT`)
		}
	}
}

func (s *SQLStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS decks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		created_at TEXT,
		last_studied TEXT
	);

	CREATE TABLE IF NOT EXISTS terms (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		deck_id INTEGER,
		term TEXT NOT NULL,
		definition TEXT NOT NULL,
		ipa TEXT,
		function TEXT,
		FOREIGN KEY (deck_id) REFERENCES decks (id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS progress (
		term_id INTEGER PRIMARY KEY,
		status TEXT,
		last_reviewed TEXT,
		FOREIGN KEY (term_id) REFERENCES terms (id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_terms_deck ON terms(deck_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Timestamps are stored as RFC 3339 TEXT.

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}

// Deck operations

func (s *SQLStore) ListDecks(ctx context.Context) ([]Deck, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at, last_studied FROM decks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decks []Deck
	for rows.Next() {
		var (
			d                    Deck
			createdAt, lastStudy sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.Name, &createdAt, &lastStudy); err != nil {
			return nil, err
		}
		if createdAt.Valid {
			d.CreatedAt = parseTime(createdAt.String)
		}
		if lastStudy.Valid && lastStudy.String != "" {
			t := parseTime(lastStudy.String)
			d.LastStudied = &t
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

func (s *SQLStore) CreateDeck(ctx context.Context, name string) (Deck, error) {
	d := Deck{Name: name, CreatedAt: time.Now().UTC()}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO decks (name, created_at) VALUES (?, ?)`,
		d.Name, formatTime(d.CreatedAt))
	if err != nil {
		return Deck{}, err
	}
	d.ID, err = res.LastInsertId()
	if err != nil {
		return Deck{}, err
	}
	return d, nil
}

func (s *SQLStore) RenameDeck(ctx context.Context, id int64, name string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE decks SET name = ? WHERE id = ?`, name, id)
	return err
}

func (s *SQLStore) SetDeckLastStudied(ctx context.Context, id int64, t time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE decks SET last_studied = ? WHERE id = ?`, formatTime(t), id)
	return err
}

func (s *SQLStore) DeleteDeck(ctx context.Context, id int64) error {
	// Terms and progress go with it via ON DELETE CASCADE.
	_, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	return err
}

// Term operations

func (s *SQLStore) ListTerms(ctx context.Context) ([]Term, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, deck_id, term, definition, ipa, function FROM terms ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []Term
	for rows.Next() {
		var (
			t       Term
			ipa, fn sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.DeckID, &t.Term, &t.Definition, &ipa, &fn); err != nil {
			return nil, err
		}
		if ipa.Valid {
			t.IPA = ipa.String
		}
		if fn.Valid {
			t.Function = fn.String
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

func (s *SQLStore) CreateTerm(ctx context.Context, t Term) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO terms (deck_id, term, definition, ipa, function) VALUES (?, ?, ?, ?, ?)`,
		t.DeckID, t.Term, t.Definition, t.IPA, t.Function)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RestoreTerm re-inserts a deleted term. AUTOINCREMENT never hands back a
// freed rowid, so the restored term gets a fresh id; the caller rebinds
// progress to whatever id comes back.
func (s *SQLStore) RestoreTerm(ctx context.Context, t Term) (int64, error) {
	return s.CreateTerm(ctx, t)
}

func (s *SQLStore) UpdateTerm(ctx context.Context, id int64, patch TermPatch) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE terms SET
			term = COALESCE(?, term),
			definition = COALESCE(?, definition),
			ipa = COALESCE(?, ipa),
			function = COALESCE(?, function)
		WHERE id = ?`,
		patch.Term, patch.Definition, patch.IPA, patch.Function, id)
	return err
}

func (s *SQLStore) DeleteTerm(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM terms WHERE id = ?`, id)
	return err
}

// Progress operations

func (s *SQLStore) ListProgress(ctx context.Context) ([]Progress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT term_id, status, last_reviewed FROM progress ORDER BY term_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Progress
	for rows.Next() {
		var (
			p              Progress
			status, lastRv sql.NullString
		)
		if err := rows.Scan(&p.TermID, &status, &lastRv); err != nil {
			return nil, err
		}
		if status.Valid {
			p.Status = ParseStatus(status.String)
		}
		if lastRv.Valid {
			p.LastReviewed = parseTime(lastRv.String)
		}
		records = append(records, p)
	}
	return records, rows.Err()
}

// UpsertProgress is atomic by construction: a single INSERT … ON CONFLICT
// keyed by term_id, no read-then-write window.
func (s *SQLStore) UpsertProgress(ctx context.Context, p Progress) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress (term_id, status, last_reviewed)
		VALUES (?, ?, ?)
		ON CONFLICT(term_id) DO UPDATE SET
			status = excluded.status,
			last_reviewed = excluded.last_reviewed`,
		p.TermID, p.Status.String(), formatTime(p.LastReviewed))
	return err
}

func (s *SQLStore) Close() error { return s.db.Close() }
