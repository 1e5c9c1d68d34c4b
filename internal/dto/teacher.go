package dto

// CreateTeacherRequest registers an instructor.
type CreateTeacherRequest struct {
	FullName         string   `json:"fullName" validate:"required,min=2,max=100"`
	Email            string   `json:"email" validate:"required,email"`
	MaxClassesPerDay int      `json:"maxClassesPerDay" validate:"required,min=1,max=8"`
	Subjects         []string `json:"subjects" validate:"omitempty,dive,required"`
}

// UpdateTeacherRequest mirrors create; email changes re-run the uniqueness
// check against every other teacher.
type UpdateTeacherRequest struct {
	FullName         string   `json:"fullName" validate:"required,min=2,max=100"`
	Email            string   `json:"email" validate:"required,email"`
	MaxClassesPerDay int      `json:"maxClassesPerDay" validate:"required,min=1,max=8"`
	Subjects         []string `json:"subjects" validate:"omitempty,dive,required"`
}
