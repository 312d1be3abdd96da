package domain

import "gorm.io/gorm"

// ChatRoom is a private one-to-one channel keyed by (course, student, instructor).
type ChatRoom struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	CourseID     uint `gorm:"not null;uniqueIndex:uidx_chat_rooms_course_student_instructor" json:"course_id"`
	StudentID    uint `gorm:"not null;uniqueIndex:uidx_chat_rooms_course_student_instructor" json:"student_id"`
	InstructorID uint `gorm:"not null;uniqueIndex:uidx_chat_rooms_course_student_instructor" json:"instructor_id"`

	gorm.Model
}

// ChatMember is membership in a course-wide group chat.
type ChatMember struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	CourseID uint `gorm:"not null;uniqueIndex:uidx_chat_members_course_user" json:"course_id"`
	UserID   uint `gorm:"not null;uniqueIndex:uidx_chat_members_course_user" json:"user_id"`

	gorm.Model
}
