package model

import (
	"time"
)

// Course is a program of study, offered by universities and taught at colleges
type Course struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Duration          string    `gorm:"type:varchar(50)" json:"duration"` // free text, e.g. "4 Years"
	Syllabus          string    `gorm:"type:text" json:"syllabus"`
	Eligibility       string    `gorm:"type:text" json:"eligibility"`
	CareerPaths       string    `gorm:"type:text" json:"career_paths"`
	RequiredDocuments string    `gorm:"type:text" json:"required_documents"`
	CreatedAt         time.Time `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Relationships
	UniversityCourses []UniversityCourse `gorm:"foreignKey:CourseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CollegeCourses    []CollegeCourse    `gorm:"foreignKey:CourseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
