package model

import (
	"fmt"
	"time"
)

// ProgramLevel is the level at which a college teaches a course
type ProgramLevel string

const (
	ProgramLevelDiploma  ProgramLevel = "Diploma"
	ProgramLevelBachelor ProgramLevel = "Bachelor"
	ProgramLevelMaster   ProgramLevel = "Master"
	ProgramLevelPhD      ProgramLevel = "PhD"
)

// ProgramLevels returns every level in display order
func ProgramLevels() []ProgramLevel {
	return []ProgramLevel{ProgramLevelDiploma, ProgramLevelBachelor, ProgramLevelMaster, ProgramLevelPhD}
}

// ParseProgramLevel accepts only the four literal level names
func ParseProgramLevel(s string) (ProgramLevel, error) {
	for _, l := range ProgramLevels() {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("invalid program level %q", s)
}

// CollegeCourse links a course to a college at a given program level.
// A college offers a course at most once.
type CollegeCourse struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	CollegeID    uint         `gorm:"not null;uniqueIndex:idx_college_course" json:"college_id"`
	CourseID     uint         `gorm:"not null;uniqueIndex:idx_college_course;index" json:"course_id"`
	ProgramLevel ProgramLevel `gorm:"type:varchar(20);not null;check:chk_college_courses_program_level,program_level IN ('Diploma','Bachelor','Master','PhD')" json:"program_level"`
	CreatedAt    time.Time    `json:"created_at"`
}
