package dto

import "time"

type SubmitProofInput struct {
	ItemType    string
	ItemIDs     []uint
	Amount      float64
	StudentNote string

	SlipFilename string
	SlipMimeType string
	SlipBytes    []byte
}

type SubmitProofResponse struct {
	ProofID   uint   `json:"proof_id"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

type UserSummary struct {
	ID          uint    `json:"id"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

type ItemSummary struct {
	ID           uint    `json:"id"`
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
}

type ProofListItem struct {
	ProofID     uint          `json:"proof_id"`
	Reference   string        `json:"reference"`
	Purchaser   UserSummary   `json:"purchaser"`
	Reviewer    *UserSummary  `json:"reviewer,omitempty"`
	ItemType    string        `json:"item_type"`
	Items       []ItemSummary `json:"items"`
	Amount      float64       `json:"amount"`
	SlipURL     string        `json:"slip_url"`
	StudentNote *string       `json:"student_note,omitempty"`
	Status      string        `json:"status"`
	AdminNotes  *string       `json:"admin_notes,omitempty"`
	SubmittedAt time.Time     `json:"submitted_at"`
	ReviewedAt  *time.Time    `json:"reviewed_at,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type ProofListResponse struct {
	Proofs     []ProofListItem `json:"proofs"`
	Pagination Pagination      `json:"pagination"`
}

type DecideProofRequest struct {
	Status     string `json:"status"` // approved | rejected
	AdminNotes string `json:"admin_notes,omitempty"`
}
