package dto

// CreateBatchRequest registers an intake cohort. Name follows the
// two-digits-two-letters convention, e.g. "21SW".
type CreateBatchRequest struct {
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description" validate:"omitempty,max=255"`
	SemesterNumber int    `json:"semesterNumber" validate:"required,min=1,max=8"`
	AcademicYear   string `json:"academicYear" validate:"required"`
	TotalSections  int    `json:"totalSections" validate:"required,min=1,max=5"`
}

// UpdateBatchRequest mirrors create; name changes re-run the uniqueness
// check against every other batch.
type UpdateBatchRequest struct {
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description" validate:"omitempty,max=255"`
	SemesterNumber int    `json:"semesterNumber" validate:"required,min=1,max=8"`
	AcademicYear   string `json:"academicYear" validate:"required"`
	TotalSections  int    `json:"totalSections" validate:"required,min=1,max=5"`
}
