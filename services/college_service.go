package services

import (
	"context"
	"log"
	"time"

	"github.com/sahilchouksey/edupool/model"
	queryHelper "github.com/sahilchouksey/edupool/utils/query"
	"gorm.io/gorm"
)

// CollegesPerPage is the public listing page size
const CollegesPerPage = 9

var CollegeSorts = queryHelper.NewSortOptions(
	queryHelper.SortOption{Key: "name", Label: "Name", Clause: "colleges.name ASC"},
	queryHelper.SortOption{Key: "created_at", Label: "Recently Added", Clause: "colleges.created_at DESC, colleges.id DESC"},
)

// CollegeInput carries the editable fields of a college
type CollegeInput struct {
	Name         string
	Description  string
	Location     string
	MapLink      string
	WebsiteURL   string
	UniversityID uint
	Image        string // new image name; empty keeps the current image
}

// CollegeRow is a college joined with its university's name
type CollegeRow struct {
	ID             uint
	Name           string
	Description    string
	Location       string
	MapLink        string
	Image          string
	WebsiteURL     string
	UniversityID   *uint
	UniversityName string
	CourseCount    int64
	CreatedAt      time.Time
}

// CollegeFilter selects a page of the public listing
type CollegeFilter struct {
	Search       string
	UniversityID uint
	Sort         string
	Page         int
}

// CollegePage is one page of the public listing
type CollegePage struct {
	Colleges   []CollegeRow
	Pagination queryHelper.Pagination
	Sort       queryHelper.SortOption
}

// OfferedCourse is a course as taught at a college
type OfferedCourse struct {
	ID           uint
	Name         string
	Duration     string
	ProgramLevel model.ProgramLevel
}

// LevelGroup is the courses a college teaches at one program level
type LevelGroup struct {
	Level   model.ProgramLevel
	Courses []OfferedCourse
}

// CollegeDetail aggregates a college with its university and course offerings
type CollegeDetail struct {
	College CollegeRow
	Levels  []LevelGroup
}

// CollegeService handles college persistence
type CollegeService struct {
	db     *gorm.DB
	images ImageRemover
}

// NewCollegeService creates a new college service
func NewCollegeService(db *gorm.DB, images ImageRemover) *CollegeService {
	return &CollegeService{db: db, images: orNoop(images)}
}

func (s *CollegeService) rows(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&model.College{}).
		Select("colleges.*, universities.name AS university_name, " +
			"(SELECT COUNT(*) FROM college_courses cc WHERE cc.college_id = colleges.id) AS course_count").
		Joins("LEFT JOIN universities ON universities.id = colleges.university_id")
}

// ListAll returns every college with its university name, ordered by name
func (s *CollegeService) ListAll(ctx context.Context) ([]CollegeRow, error) {
	var rows []CollegeRow
	err := s.rows(ctx).Order("colleges.name ASC").Scan(&rows).Error
	return rows, err
}

// Get loads one college
func (s *CollegeService) Get(ctx context.Context, id uint) (*model.College, error) {
	var college model.College
	if err := s.db.WithContext(ctx).First(&college, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &college, nil
}

// universityExists reports ErrInvalidReference for an unknown university
func (s *CollegeService) universityExists(ctx context.Context, id uint) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.University{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidReference
	}
	return nil
}

// Create inserts a college affiliated with an existing university
func (s *CollegeService) Create(ctx context.Context, in CollegeInput) (*model.College, error) {
	if err := s.universityExists(ctx, in.UniversityID); err != nil {
		return nil, err
	}

	universityID := in.UniversityID
	college := model.College{
		Name:         in.Name,
		Description:  in.Description,
		Location:     in.Location,
		MapLink:      in.MapLink,
		WebsiteURL:   in.WebsiteURL,
		Image:        in.Image,
		UniversityID: &universityID,
	}
	if err := s.db.WithContext(ctx).Create(&college).Error; err != nil {
		return nil, translateError(err)
	}
	return &college, nil
}

// Update changes a college. A replaced image is deleted once the row is saved.
func (s *CollegeService) Update(ctx context.Context, id uint, in CollegeInput) (*model.College, error) {
	college, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.universityExists(ctx, in.UniversityID); err != nil {
		return nil, err
	}
	oldImage := college.Image

	updates := map[string]interface{}{
		"name":          in.Name,
		"description":   in.Description,
		"location":      in.Location,
		"map_link":      in.MapLink,
		"website_url":   in.WebsiteURL,
		"university_id": in.UniversityID,
	}
	if in.Image != "" {
		updates["image"] = in.Image
	}

	if err := s.db.WithContext(ctx).Model(college).Updates(updates).Error; err != nil {
		return nil, translateError(err)
	}

	if in.Image != "" && oldImage != "" && oldImage != in.Image {
		s.removeImage(ctx, oldImage)
	}
	return college, nil
}

// Delete removes a college and, through the database, its course links
func (s *CollegeService) Delete(ctx context.Context, id uint) error {
	college, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := requireRow(s.db.WithContext(ctx).Delete(&model.College{}, id)); err != nil {
		return err
	}
	s.removeImage(ctx, college.Image)
	return nil
}

func (s *CollegeService) removeImage(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.images.Delete(ctx, name); err != nil {
		log.Printf("Warning: failed to delete image %s: %v", name, err)
	}
}

// List returns one page of the public listing
func (s *CollegeService) List(ctx context.Context, f CollegeFilter) (*CollegePage, error) {
	query := s.db.WithContext(ctx).Model(&model.College{})
	if f.Search != "" {
		pattern := queryHelper.ContainsPattern(f.Search)
		query = query.Where("LOWER(colleges.name) LIKE ? OR LOWER(colleges.description) LIKE ? OR LOWER(colleges.location) LIKE ?",
			pattern, pattern, pattern)
	}
	if f.UniversityID > 0 {
		query = query.Where("colleges.university_id = ?", f.UniversityID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	sort := CollegeSorts.Resolve(f.Sort)
	pagination := queryHelper.CalculatePagination(f.Page, CollegesPerPage, total)

	var rows []CollegeRow
	err := query.
		Select("colleges.*, universities.name AS university_name, " +
			"(SELECT COUNT(*) FROM college_courses cc WHERE cc.college_id = colleges.id) AS course_count").
		Joins("LEFT JOIN universities ON universities.id = colleges.university_id").
		Order(sort.Clause).
		Limit(pagination.PerPage).
		Offset(pagination.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return &CollegePage{Colleges: rows, Pagination: pagination, Sort: sort}, nil
}

// Detail loads a college with its university and its courses grouped by program level
func (s *CollegeService) Detail(ctx context.Context, id uint) (*CollegeDetail, error) {
	var row CollegeRow
	result := s.rows(ctx).Where("colleges.id = ?", id).Limit(1).Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var offered []OfferedCourse
	err := s.db.WithContext(ctx).Table("courses").
		Select("courses.id, courses.name, courses.duration, cc.program_level").
		Joins("JOIN college_courses cc ON cc.course_id = courses.id").
		Where("cc.college_id = ?", id).
		Order("courses.name ASC").
		Scan(&offered).Error
	if err != nil {
		return nil, err
	}

	return &CollegeDetail{College: row, Levels: GroupByLevel(offered)}, nil
}

// GroupByLevel buckets offerings by program level in Diploma, Bachelor, Master, PhD order,
// omitting empty levels
func GroupByLevel(offered []OfferedCourse) []LevelGroup {
	var groups []LevelGroup
	for _, level := range model.ProgramLevels() {
		var courses []OfferedCourse
		for _, c := range offered {
			if c.ProgramLevel == level {
				courses = append(courses, c)
			}
		}
		if len(courses) > 0 {
			groups = append(groups, LevelGroup{Level: level, Courses: courses})
		}
	}
	return groups
}

// Count returns the number of colleges
func (s *CollegeService) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.College{}).Count(&n).Error
	return n, err
}
