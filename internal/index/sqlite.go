package index

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// migrations is the ordered list of SQL migration statements.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS fragments (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		text TEXT NOT NULL,
		vector TEXT NOT NULL,
		position INTEGER NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fragments_position ON fragments(position)`,
}

// Store persists fragments and their embeddings to SQLite. Vectors are
// stored as JSON arrays, which keeps the schema portable and debuggable.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the index database at dbPath.
func OpenStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	for _, stmt := range migrations {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save inserts or replaces a fragment. A replaced fragment keeps its
// original position so insertion order survives reloads.
func (s *Store) Save(f Fragment) error {
	vec, err := json.Marshal(f.Vector)
	if err != nil {
		return err
	}

	var pos int64
	err = s.db.QueryRow(`SELECT position FROM fragments WHERE id = ?`, f.ID).Scan(&pos)
	if err == sql.ErrNoRows {
		err = s.db.QueryRow(`SELECT COALESCE(MAX(position), -1) + 1 FROM fragments`).Scan(&pos)
	}
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO fragments (id, source, text, vector, position, updated_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		f.ID, f.Source, f.Text, string(vec), pos,
	)
	return err
}

// LoadAll returns every fragment in insertion order.
func (s *Store) LoadAll() ([]Fragment, error) {
	rows, err := s.db.Query(
		`SELECT id, source, text, vector FROM fragments ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frags []Fragment
	for rows.Next() {
		var f Fragment
		var vec string
		if err := rows.Scan(&f.ID, &f.Source, &f.Text, &vec); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(vec), &f.Vector); err != nil {
			return nil, err
		}
		frags = append(frags, f)
	}
	return frags, rows.Err()
}

// IDs returns all persisted fragment ids in insertion order.
func (s *Store) IDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM fragments ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Get fetches one fragment by id.
func (s *Store) Get(id string) (Fragment, error) {
	var f Fragment
	var vec string
	err := s.db.QueryRow(
		`SELECT id, source, text, vector FROM fragments WHERE id = ?`, id,
	).Scan(&f.ID, &f.Source, &f.Text, &vec)
	if err != nil {
		return Fragment{}, err
	}
	if err := json.Unmarshal([]byte(vec), &f.Vector); err != nil {
		return Fragment{}, err
	}
	return f, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
