package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	"github.com/undergraduation/ugadmin/internal/pkg/apperrors"
)

func TestFileRepository_MalformedID(t *testing.T) {
	repo := NewFileRepository(nil)
	ctx := context.Background()

	file, err := repo.GetByID(ctx, "not-a-uuid")
	assert.Nil(t, file)
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "42"), apperrors.ErrFileNotFound)
}

func TestEmailLogRepository_MalformedStudentFilter(t *testing.T) {
	repo := NewEmailLogRepository(nil)

	logs, total, err := repo.Query(context.Background(), dto.EmailLogFilters{StudentID: "not-a-uuid"}, 0, 20)
	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.Zero(t, total)
}
