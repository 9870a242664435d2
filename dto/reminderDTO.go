package dto

type CreateReminderRequest struct {
	Title      string `json:"title" binding:"required"`
	Message    string `json:"message"`
	Date       string `json:"date" binding:"required"`
	TargetRole string `json:"targetRole" binding:"required"`
}
