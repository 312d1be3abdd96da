package domain

import "gorm.io/gorm"

// Entitlements are join rows with composite unique indexes so that a grant is
// an atomic set-union write; granting an already-owned item is a no-op.

type Enrollment struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	UserID   uint `gorm:"not null;uniqueIndex:uidx_enrollments_user_course" json:"user_id"`
	CourseID uint `gorm:"not null;uniqueIndex:uidx_enrollments_user_course" json:"course_id"`

	gorm.Model
}

type DocumentPurchase struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	UserID     uint `gorm:"not null;uniqueIndex:uidx_document_purchases_user_document" json:"user_id"`
	DocumentID uint `gorm:"not null;uniqueIndex:uidx_document_purchases_user_document" json:"document_id"`

	gorm.Model
}

type BundlePurchase struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	UserID   uint `gorm:"not null;uniqueIndex:uidx_bundle_purchases_user_bundle" json:"user_id"`
	BundleID uint `gorm:"not null;uniqueIndex:uidx_bundle_purchases_user_bundle" json:"bundle_id"`

	gorm.Model
}
