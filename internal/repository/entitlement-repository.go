package repository

import (
	"github.com/LumosAcademy/payment_service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntitlementRepository grants access as set-union writes: each grant is an
// INSERT ... ON CONFLICT DO NOTHING against a composite unique index, so
// granting an already-owned item never duplicates and never races.
type EntitlementRepository interface {
	AddEnrollment(userID, courseID uint) error
	AddDocumentPurchase(userID, documentID uint) error
	AddBundlePurchase(userID, bundleID uint) error
}

type entitlementRepository struct {
	db *gorm.DB
}

func NewEntitlementRepository(db *gorm.DB) EntitlementRepository {
	return &entitlementRepository{db: db}
}

func (e *entitlementRepository) AddEnrollment(userID, courseID uint) error {
	return e.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.Enrollment{UserID: userID, CourseID: courseID}).Error
}

func (e *entitlementRepository) AddDocumentPurchase(userID, documentID uint) error {
	return e.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.DocumentPurchase{UserID: userID, DocumentID: documentID}).Error
}

func (e *entitlementRepository) AddBundlePurchase(userID, bundleID uint) error {
	return e.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.BundlePurchase{UserID: userID, BundleID: bundleID}).Error
}
