package models

type UserRole string
type ApplicationStatus string
type ApplicationKind string
type InquiryStatus string
type NotificationType string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleAdmin    UserRole = "admin"

	// Status labels match the values stored by the customer-facing frontend.
	ApplicationStatusPending  ApplicationStatus = "Pending"
	ApplicationStatusInReview ApplicationStatus = "In Review"
	ApplicationStatusApproved ApplicationStatus = "Approved"
	ApplicationStatusRejected ApplicationStatus = "Rejected"

	ApplicationKindJob  ApplicationKind = "job"
	ApplicationKindLoan ApplicationKind = "loan"

	InquiryStatusNew     InquiryStatus = "New"
	InquiryStatusReplied InquiryStatus = "Replied"
	InquiryStatusClosed  InquiryStatus = "Closed"

	NotificationTypeUpdate  NotificationType = "update"
	NotificationTypeMessage NotificationType = "message"
)

// ApplicationStatuses returns the status enum in workflow order.
func ApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		ApplicationStatusPending,
		ApplicationStatusInReview,
		ApplicationStatusApproved,
		ApplicationStatusRejected,
	}
}

// ValidApplicationStatus reports whether s is a member of the status enum.
// Any member may follow any other; there is no transition graph.
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusInReview,
		ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}
