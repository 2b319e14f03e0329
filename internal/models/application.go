package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentDetails is the gateway receipt stored with a job application.
type PaymentDetails struct {
	OrderID   string  `json:"orderId"`
	PaymentID string  `json:"paymentId"`
	Amount    float64 `json:"amount"`
}

type JobApplication struct {
	BaseModel
	UserID *string           `gorm:"type:uuid;index" json:"userId"` // nil for guest submissions
	Status ApplicationStatus `gorm:"type:varchar(20);default:'Pending';index" json:"status"`

	// Applicant snapshot
	FullName string     `gorm:"not null" json:"fullName"`
	DOB      *time.Time `json:"dob"`
	Age      *int       `json:"age"`
	Gender   string     `json:"gender"`
	Address  string     `gorm:"not null" json:"address"`
	City     string     `gorm:"not null" json:"city"`
	State    string     `gorm:"not null" json:"state"`
	Zip      string     `gorm:"not null" json:"zip"`
	Phone    string     `gorm:"not null" json:"phone"`
	Email    string     `gorm:"not null" json:"email"`

	// Position details
	Position        string `gorm:"not null" json:"position"`
	CurrentSalary   string `json:"currentSalary"`
	ExpectedSalary  string `gorm:"not null" json:"expectedSalary"`
	Experience      int    `gorm:"not null" json:"experience"`
	CurrentLocation string `gorm:"not null" json:"currentLocation"`
	NoticePeriod    string `json:"noticePeriod"`
	PreferLocation  string `gorm:"not null" json:"preferLocation"`
	Authorized      bool   `gorm:"default:false" json:"authorized"`

	// Employment history
	EmployerName       string     `json:"employerName"`
	Department         string     `json:"department"`
	StartDate          *time.Time `json:"startDate"`
	EndDate            *time.Time `json:"endDate"`
	ReasonForLeaving   string     `json:"reasonForLeaving"`
	CurrentDesignation string     `json:"currentDesignation"`

	Degree     string `json:"degree"`
	Percentage string `json:"percentage"`
	Aadhaar    string `json:"aadhaar"`
	UAN        string `json:"uan"`
	Languages  string `json:"languages"`

	Declaration    bool           `gorm:"not null" json:"declaration"`
	PaymentDetails PaymentDetails `gorm:"embedded;embeddedPrefix:payment_" json:"paymentDetails"`
}

type LoanApplication struct {
	BaseModel
	UserID *string           `gorm:"type:uuid;index" json:"userId"`
	Status ApplicationStatus `gorm:"type:varchar(20);default:'Pending';index" json:"status"`

	// Applicant snapshot
	FullName      string     `gorm:"not null" json:"fullName"`
	PAN           string     `gorm:"not null" json:"pan"`
	DOB           *time.Time `json:"dob"`
	Gender        string     `json:"gender"`
	MaritalStatus string     `json:"maritalStatus"`
	Contact       string     `gorm:"not null" json:"contact"`
	Email         string     `gorm:"not null" json:"email"`
	Aadhaar       string     `json:"aadhaar"`
	Address       string     `gorm:"not null" json:"address"`
	City          string     `gorm:"not null" json:"city"`
	PostalCode    string     `gorm:"not null" json:"postalCode"`
	Country       string     `gorm:"default:'India'" json:"country"`

	// Income and loan details
	Position       string     `gorm:"not null" json:"position"`
	EmploymentDate *time.Time `json:"employmentDate"`
	EmploymentType string     `json:"employmentType"`
	MonthlyIncome  string     `gorm:"not null" json:"monthlyIncome"`
	OtherIncome    string     `json:"otherIncome"`
	LoanAmount     string     `gorm:"not null" json:"loanAmount"`
	LoanPurpose    string     `json:"loanPurpose"`

	NomineeName    string `gorm:"not null" json:"nomineeName"`
	NomineeContact string `gorm:"not null" json:"nomineeContact"`
	NomineeAadhaar string `gorm:"not null" json:"nomineeAadhaar"`

	Declaration bool `gorm:"not null" json:"declaration"`
	// The loan form sends a free-shape payment object, so this stays JSON
	// rather than an embedded struct.
	PaymentDetails datatypes.JSON `gorm:"type:jsonb" json:"paymentDetails"`
}

// Title labels the application in notifications and listings. The purpose
// field is optional on the form, so the amount stands in when it is blank.
func (a *LoanApplication) Title() string {
	if a.LoanPurpose != "" {
		return a.LoanPurpose
	}
	return "Loan of " + a.LoanAmount
}
