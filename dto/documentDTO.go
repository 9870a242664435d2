package dto

type DocumentQuery struct {
	Category string `form:"category"`
	Search   string `form:"search"`
}

type UploadDocumentRequest struct {
	Category string `form:"category" binding:"required"`
}

type DeleteDocumentsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required"`
}
