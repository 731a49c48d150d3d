package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/songfinder/internal/models"
	"github.com/desertthunder/songfinder/internal/shared"
)

// ErrLookupNotFound is returned by [LookupRepository.Get] and [LookupRepository.Delete] for unknown IDs.
var ErrLookupNotFound = errors.New("lookup not found")

// DefaultListLimit caps List when no "limit" criterion is given.
const DefaultListLimit = 50

const lookupColumns = `id, sequence, query, preview_url, status, error_kind, error_message, audio_bytes, source, created_at`

// LookupRepository implements models.Repository[*models.Lookup] for lookup history.
type LookupRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Lookup] = (*LookupRepository)(nil)

// NewLookupRepository creates a new LookupRepository with the given database connection
func NewLookupRepository(db *sql.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

// Create inserts a finished [models.Lookup] with a generated ID and sequence
func (r *LookupRepository) Create(lookup *models.Lookup) error {
	if err := lookup.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "lookups")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO lookups (` + lookupColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		lookup.Query(),
		lookup.PreviewURL(),
		lookup.Status(),
		lookup.ErrorKind(),
		lookup.ErrorMessage(),
		lookup.AudioBytes(),
		string(lookup.Source()),
		lookup.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert lookup: %w", err)
	}

	lookup.SetID(id)
	lookup.SetSequence(sequence)
	return nil
}

// Get retrieves a lookup by ID
func (r *LookupRepository) Get(id string) (*models.Lookup, error) {
	query := `SELECT ` + lookupColumns + ` FROM lookups WHERE id = ?`
	return scanLookup(r.db.QueryRow(query, id))
}

// Delete removes a lookup by ID
func (r *LookupRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM lookups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete lookup: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrLookupNotFound, id)
	}

	return nil
}

// List retrieves lookups newest first.
//
// Supported criteria: "source" (string), "status" (int), "failed" (bool), "limit" (int, defaults to [DefaultListLimit]).
func (r *LookupRepository) List(criteria map[string]any) ([]*models.Lookup, error) {
	query := `SELECT ` + lookupColumns + ` FROM lookups WHERE 1 = 1`
	args := []any{}

	if source, ok := criteria["source"].(string); ok && source != "" {
		query += " AND source = ?"
		args = append(args, source)
	}

	if status, ok := criteria["status"].(int); ok && status != 0 {
		query += " AND status = ?"
		args = append(args, status)
	}

	if failed, ok := criteria["failed"].(bool); ok {
		if failed {
			query += " AND error_kind != ''"
		} else {
			query += " AND error_kind = ''"
		}
	}

	limit := DefaultListLimit
	if l, ok := criteria["limit"].(int); ok && l > 0 {
		limit = l
	}

	query += " ORDER BY sequence DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookups: %w", err)
	}
	defer rows.Close()

	var lookups []*models.Lookup
	for rows.Next() {
		lookup, err := scanLookup(rows)
		if err != nil {
			return nil, err
		}
		lookups = append(lookups, lookup)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return lookups, nil
}

// Recent returns the latest n lookups.
func (r *LookupRepository) Recent(n int) ([]*models.Lookup, error) {
	return r.List(map[string]any{"limit": n})
}

// Count returns the number of stored lookups.
func (r *LookupRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM lookups").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count lookups: %w", err)
	}
	return n, nil
}

// Prune deletes lookups created before cutoff and returns how many were removed.
func (r *LookupRepository) Prune(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM lookups WHERE created_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune lookups: %w", err)
	}
	return result.RowsAffected()
}

// scanner is satisfied by [sql.Row] and [sql.Rows]
type scanner interface {
	Scan(dest ...any) error
}

// scanLookup scans one row into a [models.Lookup]
func scanLookup(row scanner) (*models.Lookup, error) {
	var (
		id           string
		sequence     int
		query        string
		previewURL   string
		status       int
		errorKind    string
		errorMessage string
		audioBytes   int
		source       string
		createdAt    time.Time
	)

	err := row.Scan(&id, &sequence, &query, &previewURL, &status, &errorKind, &errorMessage, &audioBytes, &source, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLookupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan lookup: %w", err)
	}

	return models.RestoreLookup(
		id, sequence, query, previewURL, status, errorKind, errorMessage, audioBytes, models.Source(source), createdAt,
	), nil
}
