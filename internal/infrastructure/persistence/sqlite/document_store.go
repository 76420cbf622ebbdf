package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/YoshitsuguKoike/stagelist/internal/application/port/output"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/list"
)

// Open opens (creating if needed) the database at path and migrates it.
// ":memory:" is accepted for tests.
func Open(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer; also keeps ":memory:" on a single shared connection.
	db.SetMaxOpenConns(1)

	if err := NewMigrator(db).Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// DocumentStore implements output.DocumentStore with SQLite
type DocumentStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewDocumentStore creates a store on a migrated database
func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *DocumentStore) Load(ctx context.Context, listID string) ([]byte, error) {
	if err := list.ValidateID(listID); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM documents WHERE list_id = ?`, listID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, output.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select document: %w", err)
	}
	return data, nil
}

// Save upserts the document and bumps its revision.
func (s *DocumentStore) Save(ctx context.Context, listID string, data []byte) error {
	if err := list.ValidateID(listID); err != nil {
		return err
	}

	now := s.now().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (list_id, data, size, revision, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT(list_id) DO UPDATE SET
			data = excluded.data,
			size = excluded.size,
			revision = documents.revision + 1,
			updated_at = excluded.updated_at
	`, listID, data, len(data), now, now)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

func (s *DocumentStore) List(ctx context.Context) ([]output.DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT list_id, size, updated_at FROM documents ORDER BY list_id`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var infos []output.DocumentInfo
	for rows.Next() {
		var (
			id        string
			size      int64
			updatedAt string
		)
		if err := rows.Scan(&id, &size, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		info := output.DocumentInfo{
			ListID:   id,
			Location: "sqlite://documents/" + id,
			Size:     size,
		}
		if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
			info.UpdatedAt = t
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func (s *DocumentStore) Delete(ctx context.Context, listID string) error {
	if err := list.ValidateID(listID); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE list_id = ?`, listID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Revision returns how many times listID has been saved, 0 when absent.
func (s *DocumentStore) Revision(ctx context.Context, listID string) (int, error) {
	var rev int
	err := s.db.QueryRowContext(ctx, `SELECT revision FROM documents WHERE list_id = ?`, listID).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("select revision: %w", err)
	}
	return rev, nil
}
