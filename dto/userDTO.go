package dto

type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName"`
	Phone       *string `json:"phone"`
	PhotoURL    *string `json:"photoURL"`
}
