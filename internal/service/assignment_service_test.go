package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-suite/timetable-api/internal/dto"
	"github.com/campus-suite/timetable-api/internal/models"
	appErrors "github.com/campus-suite/timetable-api/pkg/errors"
)

type stubAssignmentRepo struct {
	assignments map[string]*models.Assignment
	nextID      int
}

func newStubAssignmentRepo() *stubAssignmentRepo {
	return &stubAssignmentRepo{assignments: make(map[string]*models.Assignment)}
}

func (s *stubAssignmentRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.AssignmentDetail, error) {
	out := []models.AssignmentDetail{}
	for _, a := range s.assignments {
		if a.TeacherID == teacherID {
			out = append(out, models.AssignmentDetail{Assignment: *a})
		}
	}
	return out, nil
}

func (s *stubAssignmentRepo) ListBySubject(ctx context.Context, subjectID string) ([]models.AssignmentDetail, error) {
	out := []models.AssignmentDetail{}
	for _, a := range s.assignments {
		if a.SubjectID == subjectID {
			out = append(out, models.AssignmentDetail{Assignment: *a})
		}
	}
	return out, nil
}

func (s *stubAssignmentRepo) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	if a, ok := s.assignments[id]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubAssignmentRepo) Exists(ctx context.Context, teacherID, subjectID, batchID string) (bool, error) {
	for _, a := range s.assignments {
		if a.TeacherID == teacherID && a.SubjectID == subjectID && a.BatchID == batchID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	s.nextID++
	assignment.ID = string(rune('a' + s.nextID))
	stored := *assignment
	s.assignments[assignment.ID] = &stored
	return nil
}

func (s *stubAssignmentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := s.assignments[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.assignments, id)
	return nil
}

type stubTeacherLoader struct{ teacher *models.Teacher }

func (s *stubTeacherLoader) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if s.teacher != nil && s.teacher.ID == id {
		return s.teacher, nil
	}
	return nil, sql.ErrNoRows
}

type stubSubjectLoader struct{ subject *models.Subject }

func (s *stubSubjectLoader) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if s.subject != nil && s.subject.ID == id {
		return s.subject, nil
	}
	return nil, sql.ErrNoRows
}

func newAssignmentService(repo *stubAssignmentRepo) *AssignmentService {
	return NewAssignmentService(
		repo,
		&stubTeacherLoader{teacher: &models.Teacher{ID: "t-1"}},
		&stubSubjectLoader{subject: &models.Subject{ID: "s-1", BatchID: "b-1"}},
		&stubBatchLoader{batch: &models.Batch{ID: "b-1", TotalSections: 2}},
		nil, nil,
	)
}

func assignmentFixture() dto.CreateAssignmentRequest {
	return dto.CreateAssignmentRequest{
		TeacherID: "t-1",
		SubjectID: "s-1",
		BatchID:   "b-1",
		Sections:  []string{"a", "B"},
	}
}

func TestAssignNormalizesSections(t *testing.T) {
	svc := newAssignmentService(newStubAssignmentRepo())

	assignment, err := svc.Assign(context.Background(), assignmentFixture())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, []string(assignment.Sections))
}

func TestAssignRejectsSectionOutsideBatch(t *testing.T) {
	svc := newAssignmentService(newStubAssignmentRepo())

	req := assignmentFixture()
	req.Sections = []string{"C"}
	_, err := svc.Assign(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "sections", appErrors.FromError(err).Field)
}

func TestAssignDuplicateTupleConflicts(t *testing.T) {
	svc := newAssignmentService(newStubAssignmentRepo())

	_, err := svc.Assign(context.Background(), assignmentFixture())
	require.NoError(t, err)

	_, err = svc.Assign(context.Background(), assignmentFixture())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAssignRejectsSubjectFromOtherBatch(t *testing.T) {
	svc := NewAssignmentService(
		newStubAssignmentRepo(),
		&stubTeacherLoader{teacher: &models.Teacher{ID: "t-1"}},
		&stubSubjectLoader{subject: &models.Subject{ID: "s-1", BatchID: "b-other"}},
		&stubBatchLoader{batch: &models.Batch{ID: "b-1", TotalSections: 2}},
		nil, nil,
	)

	_, err := svc.Assign(context.Background(), assignmentFixture())
	require.Error(t, err)
	assert.Equal(t, "subjectId", appErrors.FromError(err).Field)
}

func TestUnassignMissing(t *testing.T) {
	svc := newAssignmentService(newStubAssignmentRepo())

	err := svc.Unassign(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestListByTeacher(t *testing.T) {
	repo := newStubAssignmentRepo()
	svc := newAssignmentService(repo)

	created, err := svc.Assign(context.Background(), assignmentFixture())
	require.NoError(t, err)

	details, err := svc.ListByTeacher(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, created.ID, details[0].ID)

	require.NoError(t, svc.Unassign(context.Background(), created.ID))
	details, err = svc.ListByTeacher(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Empty(t, details)
}
