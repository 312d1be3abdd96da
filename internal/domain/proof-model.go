package domain

import (
	"time"

	"gorm.io/gorm"
)

type ProofStatus string

const (
	ProofStatusPending  ProofStatus = "pending"
	ProofStatusApproved ProofStatus = "approved"
	ProofStatusRejected ProofStatus = "rejected"
)

type ItemType string

const (
	ItemTypeCourse   ItemType = "course"
	ItemTypeDocument ItemType = "document"
	ItemTypeBundle   ItemType = "bundle"
)

type PaymentProof struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Reference   string   `gorm:"type:varchar(36);uniqueIndex;not null" json:"reference"`
	PurchaserID uint     `gorm:"not null;index" json:"purchaser_id"`
	ItemType    ItemType `gorm:"type:varchar(20);not null" json:"item_type"`
	Amount      float64  `gorm:"type:numeric(10,2);not null" json:"amount"`

	SlipURL      string  `gorm:"type:text;not null" json:"slip_url"`
	SlipFilename string  `gorm:"type:varchar(255)" json:"slip_filename"`
	SlipMimeType *string `gorm:"type:varchar(100)" json:"slip_mime_type,omitempty"`
	SlipSize     *int64  `json:"slip_size,omitempty"`

	StudentNote *string `gorm:"type:text" json:"student_note,omitempty"`

	Status     ProofStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	AdminNotes *string     `gorm:"type:text" json:"admin_notes,omitempty"`
	ReviewedBy *uint       `gorm:"index" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time  `json:"reviewed_at,omitempty"`

	// --- automated slip check (best-effort, never blocks submission) ---
	SlipCheckScore *float64 `json:"slip_check_score,omitempty"`
	SlipCheckError *string  `gorm:"type:text" json:"slip_check_error,omitempty"`

	// --- Relations ---
	Purchaser *User       `gorm:"foreignKey:PurchaserID" json:"purchaser,omitempty"`
	Reviewer  *User       `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
	Items     []ProofItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:ProofID" json:"items,omitempty"`

	gorm.Model
}

type ProofItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	ProofID uint `gorm:"not null;uniqueIndex:uidx_proof_items_proof_item" json:"proof_id"`
	ItemID  uint `gorm:"not null;uniqueIndex:uidx_proof_items_proof_item" json:"item_id"`

	gorm.Model
}

func (p *PaymentProof) ItemIDs() []uint {
	ids := make([]uint, 0, len(p.Items))
	for _, it := range p.Items {
		ids = append(ids, it.ItemID)
	}
	return ids
}
