package repository

import (
	"github.com/LumosAcademy/payment_service/internal/domain"
	"github.com/LumosAcademy/payment_service/internal/helper"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatRepository interface {
	// GetOrCreateRoom returns the private room keyed by (course, student,
	// instructor), creating it on first use.
	GetOrCreateRoom(courseID, studentID, instructorID uint) (*domain.ChatRoom, error)
	// AddGroupMember joins the user to the course-wide group chat; already a
	// member is a no-op.
	AddGroupMember(courseID, userID uint) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (c *chatRepository) GetOrCreateRoom(courseID, studentID, instructorID uint) (*domain.ChatRoom, error) {
	room := &domain.ChatRoom{}
	err := c.db.
		Where("course_id = ? AND student_id = ? AND instructor_id = ?", courseID, studentID, instructorID).
		FirstOrCreate(room, domain.ChatRoom{
			CourseID:     courseID,
			StudentID:    studentID,
			InstructorID: instructorID,
		}).Error
	if err != nil {
		// two concurrent approvals can race the insert; the loser re-reads
		if helper.IsUniqueViolation(err) {
			err = c.db.
				Where("course_id = ? AND student_id = ? AND instructor_id = ?", courseID, studentID, instructorID).
				First(room).Error
		}
		if err != nil {
			return nil, err
		}
	}
	return room, nil
}

func (c *chatRepository) AddGroupMember(courseID, userID uint) error {
	return c.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.ChatMember{CourseID: courseID, UserID: userID}).Error
}
