package dto

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Dates are RFC 3339 timestamps or plain YYYY-MM-DD days.

type CreateMilestoneRequest struct {
	Name     string `json:"name" binding:"required"`
	DueDate  string `json:"dueDate"`
	Reminder bool   `json:"reminder"`
}

type UpdateMilestoneRequest struct {
	Name     *string `json:"name"`
	DueDate  *string `json:"dueDate"`
	Reminder *bool   `json:"reminder"`
}

type CreateTaskRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
}

// UpdateTaskRequest only touches the fields that are present.
type UpdateTaskRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Completed   *bool   `json:"completed"`
	CompletedAt *string `json:"completedAt"`
}
