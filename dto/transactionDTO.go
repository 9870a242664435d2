package dto

type TransactionRequest struct {
	Type        string  `json:"type" binding:"required,oneof=Income Expense"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Category    string  `json:"category" binding:"required"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

type TransactionQuery struct {
	Type     string `form:"type"`
	Category string `form:"category"`
	Month    string `form:"month"` // YYYY-MM
}
