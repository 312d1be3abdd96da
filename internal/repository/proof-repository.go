package repository

import (
	"errors"
	"time"

	"github.com/LumosAcademy/payment_service/internal/domain"
	"gorm.io/gorm"
)

// ErrNotPending is returned when a decision targets a proof or request that is
// no longer pending; the transition is single-shot.
var ErrNotPending = errors.New("record is not pending review")

type ProofRepository interface {
	CreateProof(proof *domain.PaymentProof) error
	FindByID(proofID uint) (*domain.PaymentProof, error)
	// List returns a page of proofs ordered by submission time descending,
	// optionally filtered by status ("" means all), plus the total count.
	List(status domain.ProofStatus, limit, offset int) ([]domain.PaymentProof, int64, error)

	Approve(proofID, adminID uint, notes string, at time.Time) error
	Reject(proofID, adminID uint, notes string, at time.Time) error
}

type proofRepository struct {
	db *gorm.DB
}

func NewProofRepository(db *gorm.DB) ProofRepository {
	return &proofRepository{db: db}
}

func (p *proofRepository) CreateProof(proof *domain.PaymentProof) error {
	return p.db.Create(proof).Error
}

func (p *proofRepository) FindByID(proofID uint) (*domain.PaymentProof, error) {
	var proof domain.PaymentProof
	err := p.db.
		Preload("Purchaser").
		Preload("Items").
		First(&proof, proofID).Error
	if err != nil {
		return nil, err
	}
	return &proof, nil
}

func (p *proofRepository) List(status domain.ProofStatus, limit, offset int) ([]domain.PaymentProof, int64, error) {
	q := p.db.Model(&domain.PaymentProof{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var proofs []domain.PaymentProof
	err := q.
		Preload("Purchaser").
		Preload("Reviewer").
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&proofs).Error
	if err != nil {
		return nil, 0, err
	}
	return proofs, total, nil
}

func (p *proofRepository) Approve(proofID, adminID uint, notes string, at time.Time) error {
	return p.decide(proofID, adminID, domain.ProofStatusApproved, notes, at)
}

func (p *proofRepository) Reject(proofID, adminID uint, notes string, at time.Time) error {
	return p.decide(proofID, adminID, domain.ProofStatusRejected, notes, at)
}

// decide flips the proof out of pending exactly once; a raced or repeated call
// matches zero rows and reports ErrNotPending.
func (p *proofRepository) decide(proofID, adminID uint, status domain.ProofStatus, notes string, at time.Time) error {
	res := p.db.Model(&domain.PaymentProof{}).
		Where("id = ? AND status = ?", proofID, domain.ProofStatusPending).
		Updates(map[string]any{
			"status":      status,
			"admin_notes": notes,
			"reviewed_by": adminID,
			"reviewed_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}
