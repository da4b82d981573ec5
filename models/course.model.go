package models

import "gorm.io/gorm"

// Course represents a learning course. Courses are read-only to students;
// only admins create or change them.
type Course struct {
	gorm.Model
	Name         string `json:"name"`
	Description  string `json:"description" gorm:"type:text"`
	Difficulty   string `json:"difficulty" gorm:"default:'Beginner'"` // Beginner, Intermediate, Advanced
	Color        string `json:"color" gorm:"default:'blue'"`          // presentation hint for the course card
	TotalLessons int    `json:"total_lessons" gorm:"default:0"`
	IsDeleted    bool   `gorm:"default:false"`
}
