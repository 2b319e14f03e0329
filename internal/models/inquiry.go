package models

type ContactInquiry struct {
	BaseModel
	Name    string        `gorm:"not null" json:"name"`
	Email   string        `gorm:"not null" json:"email"`
	Phone   string        `gorm:"not null" json:"phone"`
	Subject string        `gorm:"not null" json:"subject"`
	Message string        `gorm:"not null" json:"message"`
	Status  InquiryStatus `gorm:"type:varchar(20);default:'New'" json:"status"`
}
