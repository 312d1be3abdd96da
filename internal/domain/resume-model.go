package domain

import (
	"time"

	"gorm.io/gorm"
)

type ResumePaymentStatus string

const (
	ResumePaymentPending  ResumePaymentStatus = "pending"
	ResumePaymentPaid     ResumePaymentStatus = "paid"
	ResumePaymentRejected ResumePaymentStatus = "rejected"
)

type ResumeStatus string

const (
	ResumeStatusPending    ResumeStatus = "pending"
	ResumeStatusInProgress ResumeStatus = "in_progress"
	ResumeStatusCompleted  ResumeStatus = "completed"
	ResumeStatusRejected   ResumeStatus = "rejected"
)

type ResumeRequest struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	FullName   string  `gorm:"type:varchar(255);not null" json:"full_name"`
	Email      string  `gorm:"type:varchar(255);not null;index" json:"email"`
	Phone      string  `gorm:"type:varchar(50)" json:"phone"`
	TargetRole string  `gorm:"type:varchar(255)" json:"target_role"`
	Price      float64 `gorm:"type:numeric(10,2);not null" json:"price"`

	SlipURL      *string `gorm:"type:text" json:"slip_url,omitempty"`
	SlipFilename *string `gorm:"type:varchar(255)" json:"slip_filename,omitempty"`

	PaymentStatus ResumePaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	Status        ResumeStatus        `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	AdminNotes    *string             `gorm:"type:text" json:"admin_notes,omitempty"`

	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	ApprovedBy *uint      `json:"approved_by,omitempty"`
	RejectedAt *time.Time `json:"rejected_at,omitempty"`
	RejectedBy *uint      `json:"rejected_by,omitempty"`

	// backfilled opportunistically when the requester is matched by email
	UserID *uint `gorm:"index" json:"user_id,omitempty"`

	ResumeURL   *string    `gorm:"type:text" json:"resume_url,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	gorm.Model
}
