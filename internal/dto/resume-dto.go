package dto

type ApproveResumePaymentRequest struct {
	AdminNotes string `json:"admin_notes,omitempty"`
}

type RejectResumePaymentRequest struct {
	AdminNotes string `json:"admin_notes"`
}

type DeliverResumeRequest struct {
	ResumeURL string `json:"resume_url"`
}
