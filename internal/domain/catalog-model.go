package domain

import "gorm.io/gorm"

type CourseType string

const (
	CourseTypeRegular CourseType = "regular"
	CourseTypeSpecial CourseType = "special"
)

type Course struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"type:varchar(255);not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Price        float64    `gorm:"type:numeric(10,2);not null" json:"price"`
	ThumbnailURL *string    `gorm:"type:text" json:"thumbnail_url,omitempty"`
	CourseType   CourseType `gorm:"type:varchar(20);not null;default:'regular'" json:"course_type"`
	InstructorID uint       `gorm:"not null;index" json:"instructor_id"`
	Published    bool       `gorm:"not null;default:false" json:"published"`

	// hidden container course backing the resume-service chat channel,
	// created at most once per instructor
	IsService bool `gorm:"not null;default:false;index" json:"is_service"`

	gorm.Model
}

type Document struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Title        string  `gorm:"type:varchar(255);not null" json:"title"`
	Description  string  `gorm:"type:text" json:"description"`
	Price        float64 `gorm:"type:numeric(10,2);not null" json:"price"`
	ThumbnailURL *string `gorm:"type:text" json:"thumbnail_url,omitempty"`
	FileURL      string  `gorm:"type:text" json:"file_url"`
	Published    bool    `gorm:"not null;default:false" json:"published"`

	gorm.Model
}

type Bundle struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Title        string  `gorm:"type:varchar(255);not null" json:"title"`
	Description  string  `gorm:"type:text" json:"description"`
	Price        float64 `gorm:"type:numeric(10,2);not null" json:"price"`
	ThumbnailURL *string `gorm:"type:text" json:"thumbnail_url,omitempty"`
	Published    bool    `gorm:"not null;default:false" json:"published"`

	gorm.Model
}
