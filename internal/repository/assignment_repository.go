package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campus-suite/timetable-api/internal/models"
)

// AssignmentRepository manages teacher-subject-batch links.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentDetailColumns = `a.id, a.teacher_id, a.subject_id, a.batch_id, a.sections, a.created_at,
	t.full_name AS teacher_name, s.name AS subject_name, b.name AS batch_name`

const assignmentDetailJoins = `FROM assignments a
	JOIN teachers t ON t.id = a.teacher_id
	JOIN subjects s ON s.id = a.subject_id
	JOIN batches b ON b.id = a.batch_id`

// ListByTeacher returns enriched assignments held by a teacher.
func (r *AssignmentRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.AssignmentDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE a.teacher_id = $1 ORDER BY a.created_at", assignmentDetailColumns, assignmentDetailJoins)
	var items []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &items, query, teacherID); err != nil {
		return nil, fmt.Errorf("list assignments by teacher: %w", err)
	}
	return items, nil
}

// ListBySubject returns enriched assignments covering a subject.
func (r *AssignmentRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.AssignmentDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE a.subject_id = $1 ORDER BY a.created_at", assignmentDetailColumns, assignmentDetailJoins)
	var items []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &items, query, subjectID); err != nil {
		return nil, fmt.Errorf("list assignments by subject: %w", err)
	}
	return items, nil
}

// FindByID fetches an assignment by ID.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	const query = `SELECT id, teacher_id, subject_id, batch_id, sections, created_at FROM assignments WHERE id = $1`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Exists checks whether the exact teacher-subject-batch tuple is already linked.
func (r *AssignmentRepository) Exists(ctx context.Context, teacherID, subjectID, batchID string) (bool, error) {
	const query = `SELECT 1 FROM assignments WHERE teacher_id = $1 AND subject_id = $2 AND batch_id = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, teacherID, subjectID, batchID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check assignment: %w", err)
	}
	return true, nil
}

// Create inserts a new assignment link.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO assignments (id, teacher_id, subject_id, batch_id, sections, created_at)
		VALUES (:id, :teacher_id, :subject_id, :batch_id, :sections, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// Delete removes an assignment link.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM assignments WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
