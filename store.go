package siteconf

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a requested revision or icon does not exist.
	ErrNotFound = sql.ErrNoRows
	// ErrUnchanged is returned by SaveRevision when the config matches the latest revision.
	ErrUnchanged = errors.New("config unchanged since latest revision")
)

// Revision is one immutable version of the site configuration.
type Revision struct {
	ID        int64
	CreatedAt time.Time
	Note      string
	Checksum  string // sha256 of Body
	Body      []byte // YAML
	Config    *SiteConfig
}

// Icon is an uploaded social-link icon.
type Icon struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// Store keeps the revision history and icon metadata in SQLite.
// There is no update path for revisions: history only grows.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the server read while the CLI appends; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS revisions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TEXT NOT NULL,
    note TEXT NOT NULL,
    checksum TEXT NOT NULL,
    body BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS icons (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

// SaveRevision appends cfg to the history. If it is identical to the latest
// revision, that revision is returned together with ErrUnchanged.
func (s *Store) SaveRevision(cfg *SiteConfig, note string) (Revision, error) {
	body, err := Marshal(cfg)
	if err != nil {
		return Revision{}, fmt.Errorf("marshal config: %w", err)
	}
	sum := sha256.Sum256(body)
	checksum := hex.EncodeToString(sum[:])

	latest, err := s.Latest()
	switch {
	case err == nil && latest.Checksum == checksum && bytes.Equal(latest.Body, body):
		return latest, ErrUnchanged
	case err != nil && !errors.Is(err, ErrNotFound):
		return Revision{}, err
	}

	created := time.Now().UTC().Truncate(time.Second)
	res, err := s.db.Exec(`INSERT INTO revisions (created_at, note, checksum, body) VALUES (?, ?, ?, ?)`,
		created.Format(time.RFC3339), note, checksum, body)
	if err != nil {
		return Revision{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Revision{}, err
	}
	return Revision{
		ID:        id,
		CreatedAt: created,
		Note:      note,
		Checksum:  checksum,
		Body:      body,
		Config:    cfg,
	}, nil
}

const revisionColumns = `id, created_at, note, checksum, body`

// GetRevision returns the revision with the given id.
func (s *Store) GetRevision(id int64) (Revision, error) {
	return scanRevision(s.db.QueryRow(`SELECT `+revisionColumns+` FROM revisions WHERE id = ?`, id))
}

// Latest returns the newest revision.
func (s *Store) Latest() (Revision, error) {
	return scanRevision(s.db.QueryRow(`SELECT ` + revisionColumns + ` FROM revisions ORDER BY id DESC LIMIT 1`))
}

// Previous returns the revision saved immediately before id.
func (s *Store) Previous(id int64) (Revision, error) {
	return scanRevision(s.db.QueryRow(`SELECT `+revisionColumns+` FROM revisions WHERE id < ? ORDER BY id DESC LIMIT 1`, id))
}

// ListRevisions returns every revision, newest first.
func (s *Store) ListRevisions() ([]Revision, error) {
	rows, err := s.db.Query(`SELECT ` + revisionColumns + ` FROM revisions ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		revs = append(revs, rev)
	}
	return revs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRevision(row rowScanner) (Revision, error) {
	var rev Revision
	var created string
	if err := row.Scan(&rev.ID, &created, &rev.Note, &rev.Checksum, &rev.Body); err != nil {
		return Revision{}, err
	}
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return Revision{}, fmt.Errorf("revision %d: bad timestamp: %w", rev.ID, err)
	}
	rev.CreatedAt = t
	cfg, err := Parse(rev.Body)
	if err != nil {
		return Revision{}, fmt.Errorf("revision %d: %w", rev.ID, err)
	}
	rev.Config = cfg
	return rev, nil
}

// SaveIcon upserts icon metadata.
func (s *Store) SaveIcon(icon Icon) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO icons (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		icon.Filename, icon.OriginalName, icon.Width, icon.Height, icon.Size, icon.UploadedAt)
	return err
}

// ListIcons returns all icons, most recently uploaded first.
func (s *Store) ListIcons() ([]Icon, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, width, height, size, uploaded_at FROM icons ORDER BY uploaded_at DESC, filename`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var icons []Icon
	for rows.Next() {
		var icon Icon
		if err := rows.Scan(&icon.Filename, &icon.OriginalName, &icon.Width, &icon.Height, &icon.Size, &icon.UploadedAt); err != nil {
			return nil, err
		}
		icons = append(icons, icon)
	}
	return icons, rows.Err()
}

// HasIcon reports whether an icon with filename is recorded.
func (s *Store) HasIcon(filename string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM icons WHERE filename = ?`, filename).Scan(&n)
	return n > 0, err
}

// DeleteIcon removes icon metadata by filename.
func (s *Store) DeleteIcon(filename string) error {
	_, err := s.db.Exec(`DELETE FROM icons WHERE filename = ?`, filename)
	return err
}
