package cbprofile

import (
	"context"
	"time"
)

// Record is a stored scrape result.
type Record struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Access      Access    `json:"access"`
	Sections    int       `json:"sections"`
	Content     string    `json:"content"` // profile JSON
	ContentHash string    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if r.Name == "" {
		return Errorf(EINVALID, "record name required")
	}
	if r.URL == "" {
		return Errorf(EINVALID, "record URL required")
	}
	return nil
}

// RecordService represents a service for managing stored scrape results.
type RecordService interface {
	// CreateRecord stores a new record.
	CreateRecord(ctx context.Context, r *Record) error

	// FindRecordByID retrieves a record by ID.
	// Returns ENOTFOUND if the record does not exist.
	FindRecordByID(ctx context.Context, id string) (*Record, error)

	// FindRecords retrieves records matching the filter, newest first.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*Record, error)

	// DeleteRecord permanently removes a record.
	// Returns ENOTFOUND if the record does not exist.
	DeleteRecord(ctx context.Context, id string) error
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
	URL  *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
