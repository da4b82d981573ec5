package models

import "gorm.io/gorm"

// Review is a student's course review. Reviews have no edit or delete path.
type Review struct {
	gorm.Model
	CourseID   uint   `json:"course_id" gorm:"index;not null"`
	UserID     string `json:"user_id" gorm:"not null"`
	UserName   string `json:"user_name"` // author display name, copied from the profile at submit time
	Rating     int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	ReviewText string `json:"review_text" gorm:"type:text"`
	IsDeleted  bool   `gorm:"default:false"`
}
