package domain

// RejectionCode машинный код отказа в записи
type RejectionCode string

const (
	RejectClientNotEligible     RejectionCode = "CLIENT_NOT_ELIGIBLE"
	RejectAlreadyEnrolled       RejectionCode = "ALREADY_ENROLLED"
	RejectCapacityExceeded      RejectionCode = "CAPACITY_EXCEEDED"
	RejectSlotNoLongerAvailable RejectionCode = "SLOT_NO_LONGER_AVAILABLE"
	RejectStaffNotFound         RejectionCode = "STAFF_NOT_FOUND"
	RejectServiceNotFound       RejectionCode = "SERVICE_NOT_FOUND"
	RejectPastDatetime          RejectionCode = "PAST_DATETIME"
	RejectBusinessNotFound      RejectionCode = "BUSINESS_NOT_FOUND"
	RejectInvalidInput          RejectionCode = "INVALID_INPUT"
	RejectAccessDenied          RejectionCode = "ACCESS_DENIED"
	RejectAppointmentNotFound   RejectionCode = "APPOINTMENT_NOT_FOUND"
	RejectCannotCancel          RejectionCode = "CANNOT_CANCEL"
	RejectInvalidSlotConfig     RejectionCode = "INVALID_SLOT_CONFIGURATION"
	RejectInternal              RejectionCode = "INTERNAL"
)
