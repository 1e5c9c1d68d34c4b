package models

import (
	"time"

	"github.com/lib/pq"
)

// Assignment links a teacher to a subject/batch pair for a set of sections.
// A teacher may hold any number of assignments.
type Assignment struct {
	ID        string         `db:"id" json:"id"`
	TeacherID string         `db:"teacher_id" json:"teacher_id"`
	SubjectID string         `db:"subject_id" json:"subject_id"`
	BatchID   string         `db:"batch_id" json:"batch_id"`
	Sections  pq.StringArray `db:"sections" json:"sections"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// AssignmentDetail enriches assignments with descriptive fields.
type AssignmentDetail struct {
	Assignment
	TeacherName string `db:"teacher_name" json:"teacher_name"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	BatchName   string `db:"batch_name" json:"batch_name"`
}
