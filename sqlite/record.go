package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/cbprofile"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ cbprofile.RecordService = (*RecordService)(nil)
	_ cbprofile.ProfileWriter = (*RecordService)(nil)
)

const recordColumns = "id, name, url, access, sections, content, content_hash, fetched_at"

// RecordService implements cbprofile.RecordService using SQLite.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

// CreateRecord stores a new record with a generated ID, fetch time and
// content hash.
func (s *RecordService) CreateRecord(ctx context.Context, r *cbprofile.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.Access == "" {
		r.Access = cbprofile.AccessPublic
	}

	r.ID = uuid.New().String()
	r.FetchedAt = time.Now().UTC()
	r.ContentHash = hashContent(r.Content)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Name, r.URL, string(r.Access), r.Sections, r.Content, r.ContentHash,
		r.FetchedAt.Format(timeLayout))

	return err
}

// WriteProfile stores the profile's JSON document as a new record.
func (s *RecordService) WriteProfile(ctx context.Context, p *cbprofile.Profile) error {
	content, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile %q: %w", p.Name, err)
	}
	return s.CreateRecord(ctx, &cbprofile.Record{
		Name:     p.Name,
		URL:      p.URL,
		Access:   p.Access,
		Sections: p.Sections.Len(),
		Content:  string(content),
	})
}

// FindRecordByID retrieves a record by ID.
func (s *RecordService) FindRecordByID(ctx context.Context, id string) (*cbprofile.Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM records WHERE id = ?", id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cbprofile.Errorf(cbprofile.ENOTFOUND, "record not found")
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// FindRecords retrieves records matching the filter, newest first.
func (s *RecordService) FindRecords(ctx context.Context, filter cbprofile.RecordFilter) ([]*cbprofile.Record, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + recordColumns + " FROM records WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY fetched_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*cbprofile.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// DeleteRecord permanently removes a record.
func (s *RecordService) DeleteRecord(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return cbprofile.Errorf(cbprofile.ENOTFOUND, "record not found")
	}

	return nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*cbprofile.Record, error) {
	var r cbprofile.Record
	var access, fetchedAt string

	if err := row.Scan(&r.ID, &r.Name, &r.URL, &access, &r.Sections, &r.Content, &r.ContentHash, &fetchedAt); err != nil {
		return nil, err
	}
	r.Access = cbprofile.Access(access)

	var err error
	r.FetchedAt, err = parseTime(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}
	return &r, nil
}
