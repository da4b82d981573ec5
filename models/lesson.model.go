package models

import "gorm.io/gorm"

// Lesson belongs to exactly one course. LessonOrder is the position shown to
// the student; the player walks lessons in that order.
type Lesson struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	LessonOrder int    `json:"lesson_order" gorm:"default:0"`
	Title       string `json:"title"`
	Duration    string `json:"duration" gorm:"default:''"` // display string, e.g. "12 min"
	VideoURL    string `json:"video_url"`
	Description string `json:"description" gorm:"type:text"`
	IsDeleted   bool   `gorm:"default:false"`
}
