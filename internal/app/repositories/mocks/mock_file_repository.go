package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/undergraduation/ugadmin/internal/app/models"
)

type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) Create(ctx context.Context, file *models.StoredFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockFileRepository) GetByID(ctx context.Context, id string) (*models.StoredFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoredFile), args.Error(1)
}

func (m *MockFileRepository) ListByStudent(ctx context.Context, studentID string, fileType string) ([]*models.StoredFile, error) {
	args := m.Called(ctx, studentID, fileType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StoredFile), args.Error(1)
}

func (m *MockFileRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFileRepository) ExistsByHash(ctx context.Context, studentID, sha256 string) (bool, error) {
	args := m.Called(ctx, studentID, sha256)
	return args.Bool(0), args.Error(1)
}

func (m *MockFileRepository) Statistics(ctx context.Context) (*models.StorageStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StorageStatistics), args.Error(1)
}
