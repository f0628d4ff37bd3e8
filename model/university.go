package model

import (
	"time"
)

// University represents a degree-awarding institution
type University struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	EstablishedYear int       `gorm:"index" json:"established_year"` // 0 when unknown
	Image           string    `gorm:"type:varchar(255)" json:"image"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relationships
	Colleges          []College          `gorm:"foreignKey:UniversityID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"colleges,omitempty"`
	UniversityCourses []UniversityCourse `gorm:"foreignKey:UniversityID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
