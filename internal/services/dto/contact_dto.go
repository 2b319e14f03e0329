package dto

type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,min=7"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required,min=5"`
}
