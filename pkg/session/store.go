package session

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	// use the sqlite db driver.
	_ "github.com/mattn/go-sqlite3"
)

//go:embed base.sql
var baseSQL string

// Store persists the remembered identity name in a local sqlite file. It is
// the only thing this client writes to durable storage, and Clear removes it
// so a logout leaves nothing behind for the next user of the machine.
type Store struct {
	conn *sql.DB
}

// OpenStore opens (creating if needed) the sqlite file at filename and runs
// the idempotent schema setup.
func OpenStore(filename string) (*Store, error) {
	conn, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("error connecting to sqlite db at %s: %w", filename, err)
	}

	if _, err := conn.Exec(baseSQL); err != nil {
		conn.Close()

		return nil, fmt.Errorf("error running base sql: %w", err)
	}

	return &Store{conn: conn}, nil
}

// Close closes the underlying connection.
func (st *Store) Close() error {
	return st.conn.Close()
}

// Remember stores name as the single remembered identity, replacing any
// previous one.
func (st *Store) Remember(name string) error {
	_, err := st.conn.Exec(
		`INSERT INTO remembered_identity (id, name, updated_datetime) VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE SET name = $1, updated_datetime = $2`,
		name, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("error remembering identity: %w", err)
	}

	return nil
}

// Remembered returns the stored identity name, or "" when none is stored.
func (st *Store) Remembered() (string, error) {
	var name string

	err := st.conn.QueryRow(`SELECT name FROM remembered_identity WHERE id = 1`).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("error reading remembered identity: %w", err)
	}

	return name, nil
}

// Clear deletes the remembered identity.
func (st *Store) Clear() error {
	if _, err := st.conn.Exec(`DELETE FROM remembered_identity`); err != nil {
		return fmt.Errorf("error clearing remembered identity: %w", err)
	}

	return nil
}
