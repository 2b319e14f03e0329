package models

type Notification struct {
	BaseModel
	UserID string           `gorm:"type:uuid;not null;index" json:"userId"`
	Type   NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Text   string           `gorm:"not null" json:"text"`
	Link   string           `json:"link"`
	Read   bool             `gorm:"default:false" json:"read"`
}
