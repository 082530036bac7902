package models

import "strings"

// RequestStatus is the lifecycle state of a recycling request. The stored
// wire values (including the REEDEMED spelling) are fixed by the request
// store and shared with the back-office validation tooling.
type RequestStatus string

const (
	StatusProcessing RequestStatus = "PROCESSING"
	StatusValidating RequestStatus = "VALIDATING"
	StatusReward     RequestStatus = "REWARD"
	StatusRejected   RequestStatus = "REJECTED"
	StatusRedeemed   RequestStatus = "REEDEMED"
	// StatusUnknown is the fallback for stored values this core does not
	// recognize. Non-terminal, never auto-advanced, never written back.
	StatusUnknown RequestStatus = "UNKNOWN"
)

// ParseRequestStatus maps a stored status value to a RequestStatus,
// falling back to StatusUnknown rather than failing the whole read.
func ParseRequestStatus(s string) RequestStatus {
	switch RequestStatus(strings.ToUpper(s)) {
	case StatusProcessing:
		return StatusProcessing
	case StatusValidating:
		return StatusValidating
	case StatusReward:
		return StatusReward
	case StatusRejected:
		return StatusRejected
	case StatusRedeemed:
		return StatusRedeemed
	default:
		return StatusUnknown
	}
}

// Terminal reports whether the status is an end state of the lifecycle.
func (s RequestStatus) Terminal() bool {
	return s == StatusRedeemed || s == StatusRejected
}
