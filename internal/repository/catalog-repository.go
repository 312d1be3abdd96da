package repository

import (
	"errors"
	"log"

	"github.com/LumosAcademy/payment_service/internal/domain"
	"gorm.io/gorm"
)

type CatalogRepository interface {
	FindCoursesByIDs(ids []uint) ([]domain.Course, error)
	FindDocumentsByIDs(ids []uint) ([]domain.Document, error)
	FindBundlesByIDs(ids []uint) ([]domain.Bundle, error)

	// EnsureServiceCourse returns the hidden container course that backs the
	// resume-service chat channel for the given instructor, creating it on
	// first use.
	EnsureServiceCourse(instructorID uint) (*domain.Course, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (c *catalogRepository) FindCoursesByIDs(ids []uint) ([]domain.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var courses []domain.Course
	if err := c.db.Where("id IN ?", ids).Find(&courses).Error; err != nil {
		log.Printf("find courses by ids error: %v", err)
		return nil, errors.New("failed to look up courses")
	}
	return courses, nil
}

func (c *catalogRepository) FindDocumentsByIDs(ids []uint) ([]domain.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var docs []domain.Document
	if err := c.db.Where("id IN ?", ids).Find(&docs).Error; err != nil {
		log.Printf("find documents by ids error: %v", err)
		return nil, errors.New("failed to look up documents")
	}
	return docs, nil
}

func (c *catalogRepository) FindBundlesByIDs(ids []uint) ([]domain.Bundle, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var bundles []domain.Bundle
	if err := c.db.Where("id IN ?", ids).Find(&bundles).Error; err != nil {
		log.Printf("find bundles by ids error: %v", err)
		return nil, errors.New("failed to look up bundles")
	}
	return bundles, nil
}

func (c *catalogRepository) EnsureServiceCourse(instructorID uint) (*domain.Course, error) {
	course := &domain.Course{}
	err := c.db.
		Where("instructor_id = ? AND is_service = ?", instructorID, true).
		Attrs(domain.Course{
			Title:        "Resume Writing Service",
			Description:  "Support channel for the resume writing service.",
			Price:        0,
			CourseType:   domain.CourseTypeSpecial,
			InstructorID: instructorID,
			Published:    false,
			IsService:    true,
		}).
		FirstOrCreate(course).Error
	if err != nil {
		return nil, err
	}
	return course, nil
}
