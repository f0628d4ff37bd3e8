package model

import (
	"time"
)

// SyllabusGroup is a labelled block (e.g. "First Semester") of a university's course syllabus
type SyllabusGroup struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UniversityCourseID uint      `gorm:"not null;index" json:"university_course_id"`
	Label              string    `gorm:"type:varchar(255);not null" json:"label"`
	CreatedAt          time.Time `json:"created_at"`

	// Relationships
	Items []SyllabusItem `gorm:"foreignKey:GroupID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName specifies the table name for SyllabusGroup
func (SyllabusGroup) TableName() string {
	return "course_syllabus_groups"
}

// TotalCredit sums the credit hours of the loaded items
func (g SyllabusGroup) TotalCredit() int {
	total := 0
	for _, item := range g.Items {
		total += item.CreditHours
	}
	return total
}

// SyllabusItem is a single subject within a syllabus group
type SyllabusItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GroupID     uint      `gorm:"not null;index" json:"group_id"`
	SubjectName string    `gorm:"type:varchar(255);not null" json:"subject_name"`
	CreditHours int       `gorm:"not null;check:chk_course_syllabus_items_credit_hours,credit_hours > 0" json:"credit_hours"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for SyllabusItem
func (SyllabusItem) TableName() string {
	return "course_syllabus_items"
}
