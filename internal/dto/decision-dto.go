package dto

import "time"

const (
	StepOK      = "ok"
	StepFailed  = "failed"
	StepSkipped = "skipped"
)

// StepOutcome reports one best-effort side effect of a decision. The primary
// state transition is authoritative; these only tell the admin what else
// happened.
type StepOutcome struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok | failed | skipped
	Error  string `json:"error,omitempty"`
}

type DecisionData struct {
	ProofID    uint          `json:"proof_id"`
	Status     string        `json:"status"`
	ReviewedAt time.Time     `json:"reviewed_at"`
	Steps      []StepOutcome `json:"steps"`
}

type ResumeDecisionData struct {
	RequestID     uint          `json:"request_id"`
	PaymentStatus string        `json:"payment_status"`
	Status        string        `json:"status"`
	EmailSent     bool          `json:"email_sent"`
	Warning       string        `json:"warning,omitempty"`
	Steps         []StepOutcome `json:"steps"`
}
