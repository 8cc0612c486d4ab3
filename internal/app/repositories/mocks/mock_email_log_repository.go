package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/undergraduation/ugadmin/internal/app/models"
	"github.com/undergraduation/ugadmin/internal/app/models/dto"
)

type MockEmailLogRepository struct {
	mock.Mock
}

func (m *MockEmailLogRepository) Insert(ctx context.Context, log *models.EmailLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockEmailLogRepository) Query(ctx context.Context, filters dto.EmailLogFilters, offset uint64, limit int) ([]*models.EmailLog, int64, error) {
	args := m.Called(ctx, filters, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.EmailLog), args.Get(1).(int64), args.Error(2)
}
