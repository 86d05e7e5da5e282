package designation

type CreateDesignationRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	Level       *int   `json:"level" binding:"omitempty,min=1"`
	Status      string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// UpdateDesignationRequest keeps the stored level and status when they
// are omitted.
type UpdateDesignationRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	Level       *int   `json:"level" binding:"omitempty,min=1"`
	Status      string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type DesignationResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Level       int    `json:"level"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
