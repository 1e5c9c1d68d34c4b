package dto

// CreateSubjectRequest registers a subject under a batch. A code may be
// reused once, for the practical half of the same course.
type CreateSubjectRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Code        string `json:"code" validate:"required,alphanum,min=2,max=10"`
	Credits     int    `json:"credits" validate:"required,min=1,max=10"`
	IsPractical bool   `json:"isPractical"`
	BatchID     string `json:"batchId" validate:"required"`
}

// UpdateSubjectRequest mirrors create; the code ceiling check excludes the
// subject being edited.
type UpdateSubjectRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Code        string `json:"code" validate:"required,alphanum,min=2,max=10"`
	Credits     int    `json:"credits" validate:"required,min=1,max=10"`
	IsPractical bool   `json:"isPractical"`
	BatchID     string `json:"batchId" validate:"required"`
}
