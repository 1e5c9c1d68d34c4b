package models

import "time"

// Subject represents an academic subject. A code may be shared by at most
// two subjects, the theory and practical halves of the same course.
type Subject struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	Credits     int       `db:"credits" json:"credits"`
	IsPractical bool      `db:"is_practical" json:"is_practical"`
	BatchID     string    `db:"batch_id" json:"batch_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	BatchID   string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
