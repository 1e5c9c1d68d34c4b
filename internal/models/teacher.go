package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Teacher represents an instructor record. Unavailable holds the compact
// availability wire format produced by the availability encoder.
type Teacher struct {
	ID               string         `db:"id" json:"id"`
	FullName         string         `db:"full_name" json:"full_name"`
	Email            string         `db:"email" json:"email"`
	MaxClassesPerDay int            `db:"max_classes_per_day" json:"max_classes_per_day"`
	Subjects         types.JSONText `db:"subjects" json:"subjects"`
	Unavailable      types.JSONText `db:"unavailable" json:"unavailable"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
