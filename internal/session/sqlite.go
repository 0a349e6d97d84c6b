package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists the session as key/value rows in a SQLite database
type SQLiteStore struct {
	db        *sql.DB
	namespace string
}

// NewSQLiteStore opens or creates the database at dbPath. An empty
// namespace selects DefaultNamespace.
func NewSQLiteStore(dbPath, namespace string) (*SQLiteStore, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	// One connection keeps ":memory:" databases shared between calls
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, namespace: namespace}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate session database: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS prefs (
		namespace TEXT NOT NULL,
		key       TEXT NOT NULL,
		value     TEXT NOT NULL,
		PRIMARY KEY (namespace, key)
	)`)
	return err
}

// Save writes both session fields in one transaction
func (s *SQLiteStore) Save(username string, rememberMe bool) error {
	if err := validate(username); err != nil {
		return err
	}

	remember := "false"
	if rememberMe {
		remember = "true"
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin session write: %w", err)
	}
	defer tx.Rollback()

	const upsert = `INSERT INTO prefs (namespace, key, value) VALUES (?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value`
	for key, value := range map[string]string{keyUsername: username, keyRememberMe: remember} {
		if _, err := tx.Exec(upsert, s.namespace, key, value); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// Get reads the session. A missing username yields the zero Session.
func (s *SQLiteStore) Get() (Session, error) {
	rows, err := s.db.Query(`SELECT key, value FROM prefs WHERE namespace = ?`, s.namespace)
	if err != nil {
		return Session{}, fmt.Errorf("failed to read session: %w", err)
	}
	defer rows.Close()

	var sess Session
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Session{}, fmt.Errorf("failed to scan session: %w", err)
		}
		switch key {
		case keyUsername:
			sess.Username = value
		case keyRememberMe:
			sess.RememberMe = value == "true"
		}
	}
	if err := rows.Err(); err != nil {
		return Session{}, fmt.Errorf("failed to read session: %w", err)
	}

	if sess.Username == "" {
		return Session{}, nil
	}
	return sess, nil
}

// Clear deletes every field in the namespace
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM prefs WHERE namespace = ?`, s.namespace); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return errors.New("session store already closed")
	}
	err := s.db.Close()
	s.db = nil
	return err
}
