package services

import (
	"context"

	"github.com/sahilchouksey/edupool/model"
	"gorm.io/gorm"
)

// UniversityCourseInfo names the pairing whose syllabus is being edited
type UniversityCourseInfo struct {
	ID             uint
	CourseID       uint
	CourseName     string
	UniversityID   uint
	UniversityName string
}

// SyllabusService manages syllabus groups and items of a university-course pairing
type SyllabusService struct {
	db *gorm.DB
}

// NewSyllabusService creates a new syllabus service
func NewSyllabusService(db *gorm.DB) *SyllabusService {
	return &SyllabusService{db: db}
}

// UniversityCourse loads a pairing with its course and university names
func (s *SyllabusService) UniversityCourse(ctx context.Context, ucID uint) (*UniversityCourseInfo, error) {
	var info UniversityCourseInfo
	result := s.db.WithContext(ctx).Table("university_courses uc").
		Select("uc.id, uc.course_id, courses.name AS course_name, uc.university_id, universities.name AS university_name").
		Joins("JOIN courses ON courses.id = uc.course_id").
		Joins("JOIN universities ON universities.id = uc.university_id").
		Where("uc.id = ?", ucID).
		Limit(1).
		Scan(&info)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &info, nil
}

// Groups returns the pairing's groups with their items, both in insertion order
func (s *SyllabusService) Groups(ctx context.Context, ucID uint) ([]model.SyllabusGroup, error) {
	var groups []model.SyllabusGroup
	err := s.db.WithContext(ctx).
		Where("university_course_id = ?", ucID).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Order("id ASC").
		Find(&groups).Error
	return groups, err
}

// AddGroup appends a labelled group to the pairing
func (s *SyllabusService) AddGroup(ctx context.Context, ucID uint, label string) (*model.SyllabusGroup, error) {
	group := model.SyllabusGroup{UniversityCourseID: ucID, Label: label}
	if err := s.db.WithContext(ctx).Create(&group).Error; err != nil {
		return nil, translateError(err)
	}
	return &group, nil
}

// DeleteGroup removes a group of the pairing and its items
func (s *SyllabusService) DeleteGroup(ctx context.Context, ucID, groupID uint) error {
	return requireRow(s.db.WithContext(ctx).
		Where("id = ? AND university_course_id = ?", groupID, ucID).
		Delete(&model.SyllabusGroup{}))
}

// AddItem appends a subject to a group. The group must belong to the pairing.
func (s *SyllabusService) AddItem(ctx context.Context, ucID, groupID uint, subject string, credits int) (*model.SyllabusItem, error) {
	if credits <= 0 {
		return nil, ErrInvalidValue
	}

	var n int64
	err := s.db.WithContext(ctx).Model(&model.SyllabusGroup{}).
		Where("id = ? AND university_course_id = ?", groupID, ucID).
		Count(&n).Error
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrInvalidReference
	}

	item := model.SyllabusItem{GroupID: groupID, SubjectName: subject, CreditHours: credits}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

// DeleteItem removes a subject from one of the pairing's groups
func (s *SyllabusService) DeleteItem(ctx context.Context, ucID, itemID uint) error {
	return requireRow(s.db.WithContext(ctx).
		Where("id = ? AND group_id IN (?)", itemID,
			s.db.Model(&model.SyllabusGroup{}).Select("id").Where("university_course_id = ?", ucID)).
		Delete(&model.SyllabusItem{}))
}
