package model

import (
	"time"
)

// College is a campus, optionally affiliated with a University.
// UniversityID is nulled when the owning university is deleted.
type College struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	Location     string    `gorm:"type:varchar(255)" json:"location"`
	MapLink      string    `gorm:"type:text" json:"map_link"`
	Image        string    `gorm:"type:varchar(255)" json:"image"`
	WebsiteURL   string    `gorm:"type:varchar(255)" json:"website_url"`
	UniversityID *uint     `gorm:"index" json:"university_id"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	CollegeCourses []CollegeCourse `gorm:"foreignKey:CollegeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
