package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sahilchouksey/edupool/model"
	queryHelper "github.com/sahilchouksey/edupool/utils/query"
	"gorm.io/gorm"
)

// CoursesPerPage is the public listing page size
const CoursesPerPage = 8

var CourseSorts = queryHelper.NewSortOptions(
	queryHelper.SortOption{Key: "name", Label: "Name", Clause: "name ASC"},
	queryHelper.SortOption{Key: "duration", Label: "Duration", Clause: "duration ASC, name ASC"},
	queryHelper.SortOption{Key: "created_at", Label: "Recently Added", Clause: "created_at DESC, id DESC"},
)

// CourseInput carries the editable fields of a course
type CourseInput struct {
	Name              string
	Duration          string
	Syllabus          string
	Eligibility       string
	CareerPaths       string
	RequiredDocuments string
}

// CourseFilter selects a page of the public listing
type CourseFilter struct {
	Search   string
	Duration string
	Sort     string
	Page     int
}

// CourseCard is a listing row with aggregate counts
type CourseCard struct {
	ID              uint
	Name            string
	Duration        string
	Syllabus        string
	CareerPaths     string
	CreatedAt       time.Time
	UniversityCount int64
	CollegeCount    int64
}

// CoursePage is one page of the public listing
type CoursePage struct {
	Courses    []CourseCard
	Pagination queryHelper.Pagination
	Sort       queryHelper.SortOption
}

// CourseOfferingRow is one row of the admin course table: a course and one of its
// offering universities. Courses with no university appear once with empty university fields.
type CourseOfferingRow struct {
	ID             uint
	Name           string
	Duration       string
	UniversityID   *uint
	UniversityName string
	UCID           *uint `gorm:"column:uc_id"`
}

// CollegeOffering is a college teaching a course, with its level and university
type CollegeOffering struct {
	ID             uint
	Name           string
	Location       string
	Image          string
	ProgramLevel   model.ProgramLevel
	UniversityName string
}

// UniversitySyllabus is the syllabus a university publishes for a course
type UniversitySyllabus struct {
	University model.University
	Groups     []model.SyllabusGroup
}

// CourseDetail aggregates a course with its offerings and syllabi
type CourseDetail struct {
	Course       model.Course
	Universities []model.University
	Colleges     []CollegeOffering
	Syllabi      []UniversitySyllabus
}

// CourseService handles course persistence
type CourseService struct {
	db  *gorm.DB
	pdf *PDFExtractor
}

// NewCourseService creates a new course service
func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{db: db, pdf: NewPDFExtractor()}
}

// Get loads one course
func (s *CourseService) Get(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	if err := s.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &course, nil
}

// ListAll returns every course ordered by name
func (s *CourseService) ListAll(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := s.db.WithContext(ctx).Order("name ASC").Find(&courses).Error
	return courses, err
}

// Offerings returns the admin table rows, one per course and offering university
func (s *CourseService) Offerings(ctx context.Context) ([]CourseOfferingRow, error) {
	var rows []CourseOfferingRow
	err := s.db.WithContext(ctx).Table("courses").
		Select("courses.id, courses.name, courses.duration, universities.id AS university_id, " +
			"universities.name AS university_name, uc.id AS uc_id").
		Joins("LEFT JOIN university_courses uc ON uc.course_id = courses.id").
		Joins("LEFT JOIN universities ON universities.id = uc.university_id").
		Order("courses.name ASC, universities.name ASC").
		Scan(&rows).Error
	return rows, err
}

// CreateWithUniversity inserts a course and its first university link in one transaction
func (s *CourseService) CreateWithUniversity(ctx context.Context, in CourseInput, universityID uint) (*model.Course, error) {
	course := model.Course{
		Name:              in.Name,
		Duration:          in.Duration,
		Syllabus:          in.Syllabus,
		Eligibility:       in.Eligibility,
		CareerPaths:       in.CareerPaths,
		RequiredDocuments: in.RequiredDocuments,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&course).Error; err != nil {
			return fmt.Errorf("insert course: %w", err)
		}
		link := model.UniversityCourse{UniversityID: universityID, CourseID: course.ID}
		if err := tx.Create(&link).Error; err != nil {
			return fmt.Errorf("link course to university %d: %w", universityID, err)
		}
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	return &course, nil
}

// Update changes a course's descriptive fields
func (s *CourseService) Update(ctx context.Context, id uint, in CourseInput) (*model.Course, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(course).Updates(map[string]interface{}{
		"name":               in.Name,
		"duration":           in.Duration,
		"syllabus":           in.Syllabus,
		"eligibility":        in.Eligibility,
		"career_paths":       in.CareerPaths,
		"required_documents": in.RequiredDocuments,
	}).Error
	if err != nil {
		return nil, translateError(err)
	}
	return course, nil
}

// Delete removes a course together with its university and college links
func (s *CourseService) Delete(ctx context.Context, id uint) error {
	return requireRow(s.db.WithContext(ctx).Delete(&model.Course{}, id))
}

// ExtractSyllabus reads the text of an uploaded syllabus PDF
func (s *CourseService) ExtractSyllabus(content []byte) (string, error) {
	return s.pdf.ExtractText(content)
}

// List returns one page of the public listing
func (s *CourseService) List(ctx context.Context, f CourseFilter) (*CoursePage, error) {
	query := s.db.WithContext(ctx).Model(&model.Course{})

	if f.Search != "" {
		pattern := queryHelper.ContainsPattern(f.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(syllabus) LIKE ? OR LOWER(career_paths) LIKE ?",
			pattern, pattern, pattern)
	}
	if f.Duration != "" {
		query = query.Where("LOWER(duration) LIKE ?", queryHelper.ContainsPattern(f.Duration))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	sort := CourseSorts.Resolve(f.Sort)
	pagination := queryHelper.CalculatePagination(f.Page, CoursesPerPage, total)

	var cards []CourseCard
	err := query.
		Select("courses.id, courses.name, courses.duration, courses.syllabus, courses.career_paths, courses.created_at, " +
			"(SELECT COUNT(*) FROM university_courses uc WHERE uc.course_id = courses.id) AS university_count, " +
			"(SELECT COUNT(*) FROM college_courses cc WHERE cc.course_id = courses.id) AS college_count").
		Order(sort.Clause).
		Limit(pagination.PerPage).
		Offset(pagination.Offset()).
		Scan(&cards).Error
	if err != nil {
		return nil, err
	}

	return &CoursePage{Courses: cards, Pagination: pagination, Sort: sort}, nil
}

// Durations returns the distinct non-empty durations, alphabetically
func (s *CourseService) Durations(ctx context.Context) ([]string, error) {
	var durations []string
	err := s.db.WithContext(ctx).Model(&model.Course{}).
		Where("duration <> ''").
		Distinct().
		Order("duration ASC").
		Pluck("duration", &durations).Error
	return durations, err
}

// Detail loads a course with the universities and colleges offering it and their syllabi
func (s *CourseService) Detail(ctx context.Context, id uint) (*CourseDetail, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &CourseDetail{Course: *course}
	db := s.db.WithContext(ctx)

	err = db.Joins("JOIN university_courses uc ON uc.university_id = universities.id").
		Where("uc.course_id = ?", id).
		Order("universities.name ASC").
		Find(&detail.Universities).Error
	if err != nil {
		return nil, err
	}

	err = db.Table("colleges").
		Select("colleges.id, colleges.name, colleges.location, colleges.image, cc.program_level, "+
			"universities.name AS university_name").
		Joins("JOIN college_courses cc ON cc.college_id = colleges.id").
		Joins("LEFT JOIN universities ON universities.id = colleges.university_id").
		Where("cc.course_id = ?", id).
		Order("colleges.name ASC").
		Scan(&detail.Colleges).Error
	if err != nil {
		return nil, err
	}

	var links []model.UniversityCourse
	err = db.Where("course_id = ?", id).
		Preload("SyllabusGroups", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("SyllabusGroups.Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	groupsByUniversity := make(map[uint][]model.SyllabusGroup, len(links))
	for _, link := range links {
		groupsByUniversity[link.UniversityID] = link.SyllabusGroups
	}
	for _, u := range detail.Universities {
		if groups := groupsByUniversity[u.ID]; len(groups) > 0 {
			detail.Syllabi = append(detail.Syllabi, UniversitySyllabus{University: u, Groups: groups})
		}
	}

	return detail, nil
}

// Count returns the number of courses
func (s *CourseService) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Course{}).Count(&n).Error
	return n, err
}
