package dto

type SubmitGrievanceRequest struct {
	Subject     string `form:"subject" binding:"required"`
	Description string `form:"description" binding:"required"`
}

type UpdateGrievanceStatusRequest struct {
	Status    string `json:"status" binding:"required"`
	AdminNote string `json:"adminNote"`
}
