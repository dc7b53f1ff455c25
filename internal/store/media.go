package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// MediaKind represents the type of captured media.
type MediaKind string

const (
	// MediaKindSnapshot is a single PNG heatmap image.
	MediaKindSnapshot MediaKind = "snapshot"
	// MediaKindRecording is an AVI heatmap video.
	MediaKindRecording MediaKind = "recording"
)

// Media represents one captured file tracked in the database.
type Media struct {
	ID        string
	Kind      MediaKind
	Path      string
	Colormap  string
	Duration  time.Duration
	CreatedAt time.Time
}

// MediaRepository provides CRUD operations for media records.
type MediaRepository struct {
	db *sql.DB
}

// Media returns the media repository for this store.
func (s *Store) Media() *MediaRepository {
	return &MediaRepository{db: s.db}
}

// Create inserts a new media record into the database.
func (r *MediaRepository) Create(m *Media) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO media (id, kind, path, colormap, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, string(m.Kind), m.Path, m.Colormap, m.Duration.Milliseconds(), m.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a media record by its ID.
func (r *MediaRepository) GetByID(id string) (*Media, error) {
	m := &Media{}
	var kind string
	var durationMs int64

	err := r.db.QueryRow(
		`SELECT id, kind, path, colormap, duration_ms, created_at
		 FROM media WHERE id = ?`,
		id,
	).Scan(&m.ID, &kind, &m.Path, &m.Colormap, &durationMs, &m.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	m.Kind = MediaKind(kind)
	m.Duration = time.Duration(durationMs) * time.Millisecond
	return m, nil
}

// List retrieves all media records, newest first.
func (r *MediaRepository) List() ([]*Media, error) {
	rows, err := r.db.Query(
		`SELECT id, kind, path, colormap, duration_ms, created_at
		 FROM media ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Media
	for rows.Next() {
		m := &Media{}
		var kind string
		var durationMs int64

		err := rows.Scan(&m.ID, &kind, &m.Path, &m.Colormap, &durationMs, &m.CreatedAt)
		if err != nil {
			return nil, err
		}

		m.Kind = MediaKind(kind)
		m.Duration = time.Duration(durationMs) * time.Millisecond
		records = append(records, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Delete removes a media record from the database by its ID.
func (r *MediaRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM media WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
