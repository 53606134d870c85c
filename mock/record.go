package mock

import (
	"context"

	"github.com/fwojciec/cbprofile"
)

var _ cbprofile.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of cbprofile.RecordService.
type RecordService struct {
	CreateRecordFn   func(ctx context.Context, r *cbprofile.Record) error
	FindRecordByIDFn func(ctx context.Context, id string) (*cbprofile.Record, error)
	FindRecordsFn    func(ctx context.Context, filter cbprofile.RecordFilter) ([]*cbprofile.Record, error)
	DeleteRecordFn   func(ctx context.Context, id string) error
}

func (s *RecordService) CreateRecord(ctx context.Context, r *cbprofile.Record) error {
	return s.CreateRecordFn(ctx, r)
}

func (s *RecordService) FindRecordByID(ctx context.Context, id string) (*cbprofile.Record, error) {
	return s.FindRecordByIDFn(ctx, id)
}

func (s *RecordService) FindRecords(ctx context.Context, filter cbprofile.RecordFilter) ([]*cbprofile.Record, error) {
	return s.FindRecordsFn(ctx, filter)
}

func (s *RecordService) DeleteRecord(ctx context.Context, id string) error {
	return s.DeleteRecordFn(ctx, id)
}
