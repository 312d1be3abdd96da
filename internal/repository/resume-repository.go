package repository

import (
	"time"

	"github.com/LumosAcademy/payment_service/internal/domain"
	"gorm.io/gorm"
)

type ResumeRepository interface {
	Create(req *domain.ResumeRequest) error
	FindByID(requestID uint) (*domain.ResumeRequest, error)

	ApprovePayment(requestID, adminID uint, notes string, at time.Time) error
	RejectPayment(requestID, adminID uint, notes string, at time.Time) error
	// SetUserID backfills the linked account once the requester is matched by email.
	SetUserID(requestID, userID uint) error
	Deliver(requestID uint, resumeURL string, at time.Time) error
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) Create(req *domain.ResumeRequest) error {
	return r.db.Create(req).Error
}

func (r *resumeRepository) FindByID(requestID uint) (*domain.ResumeRequest, error) {
	var req domain.ResumeRequest
	if err := r.db.First(&req, requestID).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *resumeRepository) ApprovePayment(requestID, adminID uint, notes string, at time.Time) error {
	res := r.db.Model(&domain.ResumeRequest{}).
		Where("id = ? AND payment_status = ?", requestID, domain.ResumePaymentPending).
		Updates(map[string]any{
			"payment_status": domain.ResumePaymentPaid,
			"status":         domain.ResumeStatusInProgress,
			"admin_notes":    notes,
			"approved_at":    at,
			"approved_by":    adminID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}

func (r *resumeRepository) RejectPayment(requestID, adminID uint, notes string, at time.Time) error {
	res := r.db.Model(&domain.ResumeRequest{}).
		Where("id = ? AND payment_status = ?", requestID, domain.ResumePaymentPending).
		Updates(map[string]any{
			"payment_status": domain.ResumePaymentRejected,
			"status":         domain.ResumeStatusRejected,
			"admin_notes":    notes,
			"rejected_at":    at,
			"rejected_by":    adminID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}

func (r *resumeRepository) SetUserID(requestID, userID uint) error {
	return r.db.Model(&domain.ResumeRequest{}).
		Where("id = ?", requestID).
		Update("user_id", userID).Error
}

func (r *resumeRepository) Deliver(requestID uint, resumeURL string, at time.Time) error {
	res := r.db.Model(&domain.ResumeRequest{}).
		Where("id = ? AND status = ?", requestID, domain.ResumeStatusInProgress).
		Updates(map[string]any{
			"status":       domain.ResumeStatusCompleted,
			"resume_url":   resumeURL,
			"delivered_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
