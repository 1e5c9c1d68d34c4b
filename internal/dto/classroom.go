package dto

// CreateClassroomRequest registers a bookable room.
type CreateClassroomRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=50"`
	Building string `json:"building" validate:"omitempty,max=100"`
	Capacity int    `json:"capacity" validate:"required,min=1,max=500"`
}

// UpdateClassroomRequest mirrors create.
type UpdateClassroomRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=50"`
	Building string `json:"building" validate:"omitempty,max=100"`
	Capacity int    `json:"capacity" validate:"required,min=1,max=500"`
}
