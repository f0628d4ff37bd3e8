package services

import (
	"context"
	"log"
	"time"

	"github.com/sahilchouksey/edupool/model"
	queryHelper "github.com/sahilchouksey/edupool/utils/query"
	"gorm.io/gorm"
)

// UniversitiesPerPage is the public listing page size
const UniversitiesPerPage = 9

var UniversitySorts = queryHelper.NewSortOptions(
	queryHelper.SortOption{Key: "name", Label: "Name", Clause: "name ASC"},
	queryHelper.SortOption{Key: "established_year", Label: "Established Year", Clause: "established_year ASC, name ASC"},
	queryHelper.SortOption{Key: "created_at", Label: "Recently Added", Clause: "created_at DESC, id DESC"},
)

// UniversityInput carries the editable fields of a university
type UniversityInput struct {
	Name            string
	Description     string
	EstablishedYear int
	Image           string // new image name; empty keeps the current image
}

// UniversityFilter selects a page of the public listing
type UniversityFilter struct {
	Search string
	Year   int
	Sort   string
	Page   int
}

// UniversityCard is a listing row with aggregate counts
type UniversityCard struct {
	ID              uint
	Name            string
	Description     string
	EstablishedYear int
	Image           string
	CreatedAt       time.Time
	CollegeCount    int64
	CourseCount     int64
}

// UniversityPage is one page of the public listing
type UniversityPage struct {
	Universities []UniversityCard
	Pagination   queryHelper.Pagination
	Sort         queryHelper.SortOption
}

// UniversityDetail aggregates a university with its colleges and courses
type UniversityDetail struct {
	University model.University
	Colleges   []model.College
	Courses    []model.Course
}

// UniversityService handles university persistence
type UniversityService struct {
	db     *gorm.DB
	images ImageRemover
}

// NewUniversityService creates a new university service
func NewUniversityService(db *gorm.DB, images ImageRemover) *UniversityService {
	return &UniversityService{db: db, images: orNoop(images)}
}

// ListAll returns every university ordered by name
func (s *UniversityService) ListAll(ctx context.Context) ([]model.University, error) {
	var universities []model.University
	err := s.db.WithContext(ctx).Order("name ASC").Find(&universities).Error
	return universities, err
}

// Get loads one university
func (s *UniversityService) Get(ctx context.Context, id uint) (*model.University, error) {
	var university model.University
	if err := s.db.WithContext(ctx).First(&university, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &university, nil
}

// Create inserts a university
func (s *UniversityService) Create(ctx context.Context, in UniversityInput) (*model.University, error) {
	university := model.University{
		Name:            in.Name,
		Description:     in.Description,
		EstablishedYear: in.EstablishedYear,
		Image:           in.Image,
	}
	if err := s.db.WithContext(ctx).Create(&university).Error; err != nil {
		return nil, translateError(err)
	}
	return &university, nil
}

// Update changes a university. A replaced image is deleted once the row is saved.
func (s *UniversityService) Update(ctx context.Context, id uint, in UniversityInput) (*model.University, error) {
	university, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldImage := university.Image

	updates := map[string]interface{}{
		"name":             in.Name,
		"description":      in.Description,
		"established_year": in.EstablishedYear,
	}
	if in.Image != "" {
		updates["image"] = in.Image
	}

	if err := s.db.WithContext(ctx).Model(university).Updates(updates).Error; err != nil {
		return nil, translateError(err)
	}

	if in.Image != "" && oldImage != "" && oldImage != in.Image {
		s.removeImage(ctx, oldImage)
	}
	return university, nil
}

// Delete removes a university. Its colleges are detached and its course links removed by the database.
func (s *UniversityService) Delete(ctx context.Context, id uint) error {
	university, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := requireRow(s.db.WithContext(ctx).Delete(&model.University{}, id)); err != nil {
		return err
	}
	s.removeImage(ctx, university.Image)
	return nil
}

func (s *UniversityService) removeImage(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.images.Delete(ctx, name); err != nil {
		log.Printf("Warning: failed to delete image %s: %v", name, err)
	}
}

// List returns one page of the public listing
func (s *UniversityService) List(ctx context.Context, f UniversityFilter) (*UniversityPage, error) {
	query := s.db.WithContext(ctx).Model(&model.University{})

	if f.Search != "" {
		pattern := queryHelper.ContainsPattern(f.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if f.Year > 0 {
		query = query.Where("established_year = ?", f.Year)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	sort := UniversitySorts.Resolve(f.Sort)
	pagination := queryHelper.CalculatePagination(f.Page, UniversitiesPerPage, total)

	var cards []UniversityCard
	err := query.
		Select("universities.*, " +
			"(SELECT COUNT(*) FROM colleges c WHERE c.university_id = universities.id) AS college_count, " +
			"(SELECT COUNT(*) FROM university_courses uc WHERE uc.university_id = universities.id) AS course_count").
		Order(sort.Clause).
		Limit(pagination.PerPage).
		Offset(pagination.Offset()).
		Scan(&cards).Error
	if err != nil {
		return nil, err
	}

	return &UniversityPage{Universities: cards, Pagination: pagination, Sort: sort}, nil
}

// Years returns the distinct known establishment years, newest first
func (s *UniversityService) Years(ctx context.Context) ([]int, error) {
	var years []int
	err := s.db.WithContext(ctx).Model(&model.University{}).
		Where("established_year > 0").
		Distinct().
		Order("established_year DESC").
		Pluck("established_year", &years).Error
	return years, err
}

// Detail loads a university with its colleges and offered courses
func (s *UniversityService) Detail(ctx context.Context, id uint) (*UniversityDetail, error) {
	university, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &UniversityDetail{University: *university}
	db := s.db.WithContext(ctx)

	if err := db.Where("university_id = ?", id).Order("name ASC").Find(&detail.Colleges).Error; err != nil {
		return nil, err
	}

	err = db.Joins("JOIN university_courses uc ON uc.course_id = courses.id").
		Where("uc.university_id = ?", id).
		Order("courses.name ASC").
		Find(&detail.Courses).Error
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// Count returns the number of universities
func (s *UniversityService) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.University{}).Count(&n).Error
	return n, err
}
