package audit

import "time"

// Event is emitted from domain logic to capture register changes. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Subject   string    `json:"subject"`
	Kind      string    `json:"kind,omitempty"`
	Operator  string    `json:"operator,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

const (
	ActionCompanyRegistered = "company_registered"
	ActionCompanyDeleted    = "company_deleted"
)
