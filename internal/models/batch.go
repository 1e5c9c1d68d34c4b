package models

import "time"

// Batch represents an intake cohort, e.g. "21SW".
type Batch struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Description    string    `db:"description" json:"description"`
	SemesterNumber int       `db:"semester_number" json:"semester_number"`
	AcademicYear   string    `db:"academic_year" json:"academic_year"`
	TotalSections  int       `db:"total_sections" json:"total_sections"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// BatchFilter captures filtering options for listing batches.
type BatchFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
