package dto

// Kafka event payloads, published best-effort after a decision persists.

type ProofDecidedEvent struct {
	ProofID     uint   `json:"proof_id"`
	Reference   string `json:"reference"`
	PurchaserID uint   `json:"purchaser_id"`
	ItemType    string `json:"item_type"`
	Status      string `json:"status"`
	DecidedAt   string `json:"decided_at"`
}

type ResumePaymentEvent struct {
	RequestID     uint   `json:"request_id"`
	Email         string `json:"email"`
	PaymentStatus string `json:"payment_status"`
	Status        string `json:"status"`
	DecidedAt     string `json:"decided_at"`
}
