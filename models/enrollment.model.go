package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment links a user to a course with its progress state. Rows are never
// deleted. Writers must keep Completed and Progress in step: Completed is true
// exactly when Progress is 100, and once set it never flips back.
type Enrollment struct {
	gorm.Model
	UserID         string     `json:"user_id" gorm:"index;not null"`
	CourseID       uint       `json:"course_id" gorm:"index;not null"`
	Progress       int        `json:"progress" gorm:"default:0"` // 0-100
	Completed      bool       `json:"completed" gorm:"default:false"`
	CompletionDate *time.Time `json:"completion_date"`
	EnrolledAt     time.Time  `json:"enrolled_at"`
}
