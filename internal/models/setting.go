package models

// Setting is a singleton row; the repository always upserts against an empty
// filter so a second row can never appear.
type Setting struct {
	BaseModel
	SiteName        string  `gorm:"default:'Atithi Consultant Services'" json:"siteName"`
	MaintenanceMode bool    `gorm:"default:false" json:"maintenanceMode"`
	ApplicationFee  float64 `gorm:"default:450" json:"applicationFee"`
}
