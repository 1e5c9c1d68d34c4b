package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-suite/timetable-api/internal/dto"
	"github.com/campus-suite/timetable-api/internal/models"
	appErrors "github.com/campus-suite/timetable-api/pkg/errors"
)

type assignmentRepository interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.AssignmentDetail, error)
	ListBySubject(ctx context.Context, subjectID string) ([]models.AssignmentDetail, error)
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	Exists(ctx context.Context, teacherID, subjectID, batchID string) (bool, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id string) error
}

type assignmentTeacherLoader interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type assignmentSubjectLoader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type assignmentBatchLoader interface {
	FindByID(ctx context.Context, id string) (*models.Batch, error)
}

// AssignmentService manages teacher/subject/batch/section links.
type AssignmentService struct {
	repo      assignmentRepository
	teachers  assignmentTeacherLoader
	subjects  assignmentSubjectLoader
	batches   assignmentBatchLoader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService wires assignment dependencies.
func NewAssignmentService(repo assignmentRepository, teachers assignmentTeacherLoader, subjects assignmentSubjectLoader, batches assignmentBatchLoader, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, teachers: teachers, subjects: subjects, batches: batches, validator: validate, logger: logger}
}

// ListByTeacher returns a teacher's assignments with descriptive names.
func (s *AssignmentService) ListByTeacher(ctx context.Context, teacherID string) ([]models.AssignmentDetail, error) {
	details, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return details, nil
}

// ListBySubject returns a subject's assignments with descriptive names.
func (s *AssignmentService) ListBySubject(ctx context.Context, subjectID string) ([]models.AssignmentDetail, error) {
	details, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return details, nil
}

// Assign creates a teacher/subject/batch link. Sections must exist on the
// batch and the same tuple may only be linked once.
func (s *AssignmentService) Assign(ctx context.Context, req dto.CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
		return nil, referenceError(err, "teacherId", "teacher does not exist")
	}
	subject, err := s.subjects.FindByID(ctx, req.SubjectID)
	if err != nil {
		return nil, referenceError(err, "subjectId", "subject does not exist")
	}
	batch, err := s.batches.FindByID(ctx, req.BatchID)
	if err != nil {
		return nil, referenceError(err, "batchId", "batch does not exist")
	}
	if subject.BatchID != batch.ID {
		return nil, appErrors.Validation("subjectId", "subject is not registered under this batch")
	}

	sections, err := normalizeSections(req.Sections, batch.TotalSections)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, req.TeacherID, req.SubjectID, req.BatchID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check assignment")
	}
	if exists {
		return nil, appErrors.Conflict("teacherId", "this teacher is already assigned to the subject for this batch")
	}

	assignment := &models.Assignment{
		TeacherID: req.TeacherID,
		SubjectID: req.SubjectID,
		BatchID:   req.BatchID,
		Sections:  sections,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	s.logger.Sugar().Infow("assignment created", "assignment_id", assignment.ID, "teacher_id", assignment.TeacherID, "subject_id", assignment.SubjectID)
	return assignment, nil
}

// Unassign removes an assignment.
func (s *AssignmentService) Unassign(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	s.logger.Sugar().Infow("assignment removed", "assignment_id", id)
	return nil
}

// normalizeSections uppercases, deduplicates, and bounds-checks section
// letters against the batch's section count: A..E for five sections.
func normalizeSections(raw []string, totalSections int) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, section := range raw {
		letter := strings.ToUpper(strings.TrimSpace(section))
		if len(letter) != 1 || letter[0] < 'A' || int(letter[0]-'A') >= totalSections {
			return nil, appErrors.Validation("sections", fmt.Sprintf("section %q is not one of the batch's %d sections", section, totalSections))
		}
		if !seen[letter] {
			seen[letter] = true
			out = append(out, letter)
		}
	}
	return out, nil
}

func referenceError(err error, field, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Validation(field, message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load referenced record")
}
