package services

import (
	"context"

	"github.com/sahilchouksey/edupool/model"
	"gorm.io/gorm"
)

// CollegeCourseRow is a college-course link with display names
type CollegeCourseRow struct {
	ID           uint
	CollegeID    uint
	CollegeName  string
	CourseID     uint
	CourseName   string
	ProgramLevel model.ProgramLevel
}

// CollegeCourseService manages which courses a college teaches
type CollegeCourseService struct {
	db *gorm.DB
}

// NewCollegeCourseService creates a new college-course service
func NewCollegeCourseService(db *gorm.DB) *CollegeCourseService {
	return &CollegeCourseService{db: db}
}

// ListAll returns every link ordered by college then course name
func (s *CollegeCourseService) ListAll(ctx context.Context) ([]CollegeCourseRow, error) {
	var rows []CollegeCourseRow
	err := s.db.WithContext(ctx).Table("college_courses cc").
		Select("cc.id, cc.college_id, colleges.name AS college_name, cc.course_id, courses.name AS course_name, cc.program_level").
		Joins("JOIN colleges ON colleges.id = cc.college_id").
		Joins("JOIN courses ON courses.id = cc.course_id").
		Order("colleges.name ASC, courses.name ASC").
		Scan(&rows).Error
	return rows, err
}

// Link records that a college teaches a course at a level.
// A second link for the same pair fails with ErrDuplicate.
func (s *CollegeCourseService) Link(ctx context.Context, collegeID, courseID uint, level model.ProgramLevel) (*model.CollegeCourse, error) {
	if _, err := model.ParseProgramLevel(string(level)); err != nil {
		return nil, ErrInvalidValue
	}

	link := model.CollegeCourse{CollegeID: collegeID, CourseID: courseID, ProgramLevel: level}
	if err := s.db.WithContext(ctx).Create(&link).Error; err != nil {
		return nil, translateError(err)
	}
	return &link, nil
}

// Unlink removes a college-course link by its id
func (s *CollegeCourseService) Unlink(ctx context.Context, id uint) error {
	return requireRow(s.db.WithContext(ctx).Delete(&model.CollegeCourse{}, id))
}
