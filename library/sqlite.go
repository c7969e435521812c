package library

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const sqliteSchemaVersion = 1

// SQLiteStore persists the aggregate into a SQLite file with the same
// whole-snapshot contract as SnapshotStore: every save rebuilds a fresh
// database in a temp file and renames it over the target, so a failed
// save leaves the previous artifact untouched.
type SQLiteStore struct {
	path string
	log  *zap.Logger
}

// NewSQLiteStore builds a store writing to the database file at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path, log: zap.NewNop()}
}

// WithStoreLogger attaches a structured logger to the store.
func (s *SQLiteStore) WithStoreLogger(log *zap.Logger) *SQLiteStore {
	s.log = log
	return s
}

func sqliteSchema() []string {
	return []string{
		`CREATE TABLE meta (key TEXT PRIMARY KEY, value TEXT);`,
		`CREATE TABLE items (
            id TEXT PRIMARY KEY,
            kind TEXT NOT NULL,
            title TEXT NOT NULL,
            available BOOLEAN NOT NULL,
            author TEXT NOT NULL DEFAULT '',
            year INTEGER NOT NULL DEFAULT 0,
            genre TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE TABLE members (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL
        );`,
		`CREATE TABLE loans (
            id TEXT PRIMARY KEY,
            item_id TEXT NOT NULL,
            member_id TEXT NOT NULL,
            checkout_date TEXT NOT NULL,
            due_date TEXT NOT NULL,
            return_date TEXT
        );`,
	}
}

// Save serializes the whole aggregate. Failures surface as ErrSaveFailed.
func (s *SQLiteStore) Save(l *Library) error {
	snap := l.export(time.Now().UTC())

	if err := s.writeDatabase(snap); err != nil {
		return errors.Join(ErrSaveFailed, err)
	}

	s.log.Info("library saved",
		zap.String("path", s.path),
		zap.Int("items", len(snap.Items)),
		zap.Int("members", len(snap.Members)),
		zap.Int("loans", len(snap.Loans)))
	return nil
}

func (s *SQLiteStore) writeDatabase(snap snapshot) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".library-db-*")
	if err != nil {
		return fmt.Errorf("create temp db: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", tmpPath))
	if err != nil {
		return fmt.Errorf("open temp db: %w", err)
	}

	if err := s.populate(db, snap); err != nil {
		db.Close()
		return err
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("close temp db: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("commit db file: %w", err)
	}
	return nil
}

func (s *SQLiteStore) populate(db *sql.DB, snap snapshot) error {
	for _, stmt := range sqliteSchema() {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)`,
		fmt.Sprint(sqliteSchemaVersion)); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('saved_at',?)`,
		snap.SavedAt.Format(time.RFC3339)); err != nil {
		return err
	}

	for _, rec := range snap.Items {
		if _, err := tx.Exec(
			`INSERT INTO items(id,kind,title,available,author,year,genre) VALUES(?,?,?,?,?,?,?)`,
			rec.ID, rec.Kind, rec.Title, rec.Available, rec.Author, rec.Year, rec.Genre); err != nil {
			return fmt.Errorf("insert item %s: %w", rec.ID, err)
		}
	}
	for _, rec := range snap.Members {
		if _, err := tx.Exec(
			`INSERT INTO members(id,name,email) VALUES(?,?,?)`,
			rec.ID, rec.Name, rec.Email); err != nil {
			return fmt.Errorf("insert member %s: %w", rec.ID, err)
		}
	}
	for _, rec := range snap.Loans {
		var returned any
		if rec.ReturnDate != "" {
			returned = rec.ReturnDate
		}
		if _, err := tx.Exec(
			`INSERT INTO loans(id,item_id,member_id,checkout_date,due_date,return_date) VALUES(?,?,?,?,?,?)`,
			rec.ID, rec.ItemID, rec.MemberID, rec.CheckoutDate, rec.DueDate, returned); err != nil {
			return fmt.Errorf("insert loan %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// Load rebuilds the aggregate from the database file. An absent file,
// an unreadable database or a schema version mismatch all yield
// ErrLoadFailed.
func (s *SQLiteStore) Load(opts ...Option) (*Library, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&mode=ro", s.path))
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	defer db.Close()

	snap, err := s.readSnapshot(db)
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}

	l, err := fromSnapshot(snap, opts...)
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}

	s.log.Info("library loaded", zap.String("path", s.path), zap.Int("loans", len(snap.Loans)))
	return l, nil
}

func (s *SQLiteStore) readSnapshot(db *sql.DB) (snapshot, error) {
	var snap snapshot

	var version int
	if err := db.QueryRow(`SELECT value FROM meta WHERE key='schema_version'`).Scan(&version); err != nil {
		return snap, fmt.Errorf("read schema version: %w", err)
	}
	if version != sqliteSchemaVersion {
		return snap, fmt.Errorf("unsupported schema version %d", version)
	}
	snap.Version = snapshotVersion

	rows, err := db.Query(`SELECT id,kind,title,available,author,year,genre FROM items ORDER BY id`)
	if err != nil {
		return snap, err
	}
	defer rows.Close()
	for rows.Next() {
		var rec itemRecord
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Title, &rec.Available, &rec.Author, &rec.Year, &rec.Genre); err != nil {
			return snap, err
		}
		snap.Items = append(snap.Items, rec)
	}
	if err := rows.Err(); err != nil {
		return snap, err
	}

	mrows, err := db.Query(`SELECT id,name,email FROM members ORDER BY id`)
	if err != nil {
		return snap, err
	}
	defer mrows.Close()
	for mrows.Next() {
		var rec memberRecord
		if err := mrows.Scan(&rec.ID, &rec.Name, &rec.Email); err != nil {
			return snap, err
		}
		snap.Members = append(snap.Members, rec)
	}
	if err := mrows.Err(); err != nil {
		return snap, err
	}

	lrows, err := db.Query(`SELECT id,item_id,member_id,checkout_date,due_date,COALESCE(return_date,'') FROM loans ORDER BY id`)
	if err != nil {
		return snap, err
	}
	defer lrows.Close()
	for lrows.Next() {
		var rec loanRecord
		if err := lrows.Scan(&rec.ID, &rec.ItemID, &rec.MemberID, &rec.CheckoutDate, &rec.DueDate, &rec.ReturnDate); err != nil {
			return snap, err
		}
		snap.Loans = append(snap.Loans, rec)
	}
	if err := lrows.Err(); err != nil {
		return snap, err
	}

	return snap, nil
}
