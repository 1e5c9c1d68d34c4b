package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-suite/timetable-api/internal/dto"
	"github.com/campus-suite/timetable-api/internal/models"
	appErrors "github.com/campus-suite/timetable-api/pkg/errors"
)

type stubBatchRepo struct {
	batches  map[string]*models.Batch
	subjects int
	nextID   int
}

func newStubBatchRepo() *stubBatchRepo {
	return &stubBatchRepo{batches: make(map[string]*models.Batch)}
}

func (s *stubBatchRepo) List(ctx context.Context, filter models.BatchFilter) ([]models.Batch, int, error) {
	out := make([]models.Batch, 0, len(s.batches))
	for _, batch := range s.batches {
		out = append(out, *batch)
	}
	return out, len(out), nil
}

func (s *stubBatchRepo) FindByID(ctx context.Context, id string) (*models.Batch, error) {
	if batch, ok := s.batches[id]; ok {
		copied := *batch
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubBatchRepo) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	for id, batch := range s.batches {
		if id != excludeID && strings.EqualFold(batch.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubBatchRepo) CountSubjects(ctx context.Context, id string) (int, error) {
	return s.subjects, nil
}

func (s *stubBatchRepo) Create(ctx context.Context, batch *models.Batch) error {
	s.nextID++
	batch.ID = fmt.Sprintf("b-%d", s.nextID)
	stored := *batch
	s.batches[batch.ID] = &stored
	return nil
}

func (s *stubBatchRepo) Update(ctx context.Context, batch *models.Batch) error {
	stored := *batch
	s.batches[batch.ID] = &stored
	return nil
}

func (s *stubBatchRepo) Delete(ctx context.Context, id string) error {
	delete(s.batches, id)
	return nil
}

func batchFixture(name string) dto.CreateBatchRequest {
	return dto.CreateBatchRequest{
		Name:           name,
		SemesterNumber: 5,
		AcademicYear:   "2025-2026",
		TotalSections:  2,
	}
}

func TestBatchCreateNormalizesName(t *testing.T) {
	svc := NewBatchService(newStubBatchRepo(), nil, nil)

	batch, err := svc.Create(context.Background(), batchFixture("21sw"))
	require.NoError(t, err)
	assert.Equal(t, "21SW", batch.Name)
}

func TestBatchNameConvention(t *testing.T) {
	svc := NewBatchService(newStubBatchRepo(), nil, nil)

	for _, name := range []string{"SW21", "2SW", "21SWX", "21-W"} {
		_, err := svc.Create(context.Background(), batchFixture(name))
		require.Error(t, err, name)
		assert.Equal(t, "name", appErrors.FromError(err).Field)
	}
}

func TestBatchDuplicateNameConflicts(t *testing.T) {
	svc := NewBatchService(newStubBatchRepo(), nil, nil)

	_, err := svc.Create(context.Background(), batchFixture("21SW"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), batchFixture("21sw"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "name", appErr.Field)
}

func TestBatchSemesterBounds(t *testing.T) {
	svc := NewBatchService(newStubBatchRepo(), nil, nil)

	req := batchFixture("21SW")
	req.SemesterNumber = 9
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBatchDeleteBlockedBySubjects(t *testing.T) {
	repo := newStubBatchRepo()
	svc := NewBatchService(repo, nil, nil)

	batch, err := svc.Create(context.Background(), batchFixture("21SW"))
	require.NoError(t, err)

	repo.subjects = 3
	err = svc.Delete(context.Background(), batch.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	repo.subjects = 0
	require.NoError(t, svc.Delete(context.Background(), batch.ID))
}
