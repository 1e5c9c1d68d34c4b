package dto

// CreateAssignmentRequest links a teacher to a subject/batch pair for one
// or more of the batch's sections.
type CreateAssignmentRequest struct {
	TeacherID string   `json:"teacherId" validate:"required"`
	SubjectID string   `json:"subjectId" validate:"required"`
	BatchID   string   `json:"batchId" validate:"required"`
	Sections  []string `json:"sections" validate:"required,min=1,dive,required"`
}
