package dto

import (
	"time"

	"gorm.io/datatypes"

	"atithi_backend/internal/models"
)

type PaymentDetailsRequest struct {
	OrderID   string  `json:"orderId" validate:"required"`
	PaymentID string  `json:"paymentId" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
}

type SubmitJobApplicationRequest struct {
	FullName string     `json:"fullName" validate:"required,min=2"`
	DOB      *time.Time `json:"dob"`
	Age      *int       `json:"age"`
	Gender   string     `json:"gender"`
	Address  string     `json:"address" validate:"required"`
	City     string     `json:"city" validate:"required"`
	State    string     `json:"state" validate:"required"`
	Zip      string     `json:"zip" validate:"required"`
	Phone    string     `json:"phone" validate:"required"`
	Email    string     `json:"email" validate:"required,email"`

	Position        string `json:"position" validate:"required"`
	CurrentSalary   string `json:"currentSalary"`
	ExpectedSalary  string `json:"expectedSalary" validate:"required"`
	Experience      int    `json:"experience" validate:"min=0"`
	CurrentLocation string `json:"currentLocation" validate:"required"`
	NoticePeriod    string `json:"noticePeriod"`
	PreferLocation  string `json:"preferLocation" validate:"required"`
	Authorized      bool   `json:"authorized"`

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

	Declaration    bool                   `json:"declaration" validate:"required"`
	PaymentDetails *PaymentDetailsRequest `json:"paymentDetails" validate:"required"`
}

type SubmitLoanApplicationRequest struct {
	FullName      string     `json:"fullName" validate:"required,min=2"`
	PAN           string     `json:"pan" validate:"required"`
	DOB           *time.Time `json:"dob"`
	Gender        string     `json:"gender"`
	MaritalStatus string     `json:"maritalStatus"`
	Contact       string     `json:"contact" validate:"required"`
	Email         string     `json:"email" validate:"required,email"`
	Aadhaar       string     `json:"aadhaar"`
	Address       string     `json:"address" validate:"required"`
	City          string     `json:"city" validate:"required"`
	PostalCode    string     `json:"postalCode" validate:"required"`
	Country       string     `json:"country"`

	Position       string     `json:"position" validate:"required"`
	EmploymentDate *time.Time `json:"employmentDate"`
	EmploymentType string     `json:"employmentType"`
	MonthlyIncome  string     `json:"monthlyIncome" validate:"required"`
	OtherIncome    string     `json:"otherIncome"`
	LoanAmount     string     `json:"loanAmount" validate:"required"`
	LoanPurpose    string     `json:"loanPurpose"`

	NomineeName    string `json:"nomineeName" validate:"required"`
	NomineeContact string `json:"nomineeContact" validate:"required"`
	NomineeAadhaar string `json:"nomineeAadhaar" validate:"required"`

	Declaration    bool           `json:"declaration" validate:"required"`
	PaymentDetails datatypes.JSON `json:"paymentDetails" validate:"required"`
}

type UpdateApplicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status" validate:"required,oneof=Pending 'In Review' Approved Rejected"`
}

// ApplicationListItem is the row shape of the admin application listing.
type ApplicationListItem struct {
	ID        string                   `json:"id"`
	Kind      models.ApplicationKind   `json:"kind"`
	Applicant string                   `json:"applicant"`
	Email     string                   `json:"email"`
	Title     string                   `json:"title"`
	Status    models.ApplicationStatus `json:"status"`
	Guest     bool                     `json:"guest"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}
