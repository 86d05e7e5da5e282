package employee

type CreateEmployeeRequest struct {
	Name          string `json:"name" binding:"required,max=255"`
	Email         string `json:"email" binding:"required,email"`
	PhoneNumber   string `json:"phone_number" binding:"required,max=50"`
	DepartmentID  string `json:"department_id" binding:"required,uuid"`
	DesignationID string `json:"designation_id" binding:"required,uuid"`
	JoiningDate   string `json:"joining_date" binding:"omitempty,datetime=2006-01-02"`
	Status        string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// UpdateEmployeeRequest replaces the employee record; an empty joining
// date or status keeps the stored value.
type UpdateEmployeeRequest struct {
	Name          string `json:"name" binding:"required,max=255"`
	Email         string `json:"email" binding:"required,email"`
	PhoneNumber   string `json:"phone_number" binding:"required,max=50"`
	DepartmentID  string `json:"department_id" binding:"required,uuid"`
	DesignationID string `json:"designation_id" binding:"required,uuid"`
	JoiningDate   string `json:"joining_date" binding:"omitempty,datetime=2006-01-02"`
	Status        string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type EmployeeDepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EmployeeDesignationResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type EmployeeResponse struct {
	ID            string                       `json:"id"`
	Name          string                       `json:"name"`
	Email         string                       `json:"email"`
	PhoneNumber   string                       `json:"phone_number"`
	DepartmentID  string                       `json:"department_id"`
	DesignationID string                       `json:"designation_id"`
	Department    *EmployeeDepartmentResponse  `json:"department,omitempty"`
	Designation   *EmployeeDesignationResponse `json:"designation,omitempty"`
	JoiningDate   string                       `json:"joining_date"`
	Status        string                       `json:"status"`
	CreatedAt     string                       `json:"created_at"`
	UpdatedAt     string                       `json:"updated_at"`
}
