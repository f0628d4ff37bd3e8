package model

import (
	"time"
)

// UniversityCourse links a course to a university that offers it
type UniversityCourse struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UniversityID uint      `gorm:"not null;uniqueIndex:idx_university_course" json:"university_id"`
	CourseID     uint      `gorm:"not null;uniqueIndex:idx_university_course;index" json:"course_id"`
	CreatedAt    time.Time `json:"created_at"`

	// Relationships
	SyllabusGroups []SyllabusGroup `gorm:"foreignKey:UniversityCourseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"syllabus_groups,omitempty"`
}
