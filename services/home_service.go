package services

import (
	"context"
	"log"
	"time"

	"github.com/sahilchouksey/edupool/model"
	queryHelper "github.com/sahilchouksey/edupool/utils/query"
	"gorm.io/gorm"
)

const (
	statsCacheKey = "edupool:stats"
	statsCacheTTL = 5 * time.Minute

	featuredUniversities = 3
	featuredColleges     = 6
	featuredCourses      = 4
	recentAdditions      = 10
)

// StatsCache is the subset of the Redis cache the home page uses
type StatsCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// SearchType restricts the cross-entity search
type SearchType string

const (
	SearchAll          SearchType = "all"
	SearchUniversities SearchType = "universities"
	SearchColleges     SearchType = "colleges"
	SearchCourses      SearchType = "courses"
)

// ParseSearchType maps unknown values to SearchAll
func ParseSearchType(s string) SearchType {
	switch t := SearchType(s); t {
	case SearchUniversities, SearchColleges, SearchCourses:
		return t
	}
	return SearchAll
}

func (t SearchType) includes(other SearchType) bool {
	return t == SearchAll || t == other
}

// CatalogStats counts the catalog entities
type CatalogStats struct {
	Universities int64 `json:"universities"`
	Colleges     int64 `json:"colleges"`
	Courses      int64 `json:"courses"`
}

// SearchResult is one row of the cross-entity search, tagged with its entity type
type SearchResult struct {
	Type        string
	ID          uint
	Name        string
	Description string
}

// HomeData is everything the homepage renders
type HomeData struct {
	Universities []model.University
	Colleges     []CollegeRow
	Courses      []model.Course
	Stats        CatalogStats
}

// RecentAddition is a catalog row for the dashboard feed
type RecentAddition struct {
	Type      string
	Name      string
	CreatedAt time.Time
}

// DashboardData is everything the admin dashboard renders
type DashboardData struct {
	Stats  CatalogStats
	Users  int64
	Recent []RecentAddition
}

// HomeService aggregates the homepage, search and dashboard reads
type HomeService struct {
	db    *gorm.DB
	cache StatsCache
}

// NewHomeService creates a new home service. cache may be nil.
func NewHomeService(db *gorm.DB, cache StatsCache) *HomeService {
	return &HomeService{db: db, cache: cache}
}

// Home loads the featured rows and counts. Each piece degrades to empty on failure.
func (s *HomeService) Home(ctx context.Context) *HomeData {
	data := &HomeData{}
	db := s.db.WithContext(ctx)

	if err := db.Order("created_at DESC, id DESC").Limit(featuredUniversities).Find(&data.Universities).Error; err != nil {
		log.Printf("Home: failed to load universities: %v", err)
		data.Universities = nil
	}

	err := db.Model(&model.College{}).
		Select("colleges.*, universities.name AS university_name").
		Joins("LEFT JOIN universities ON universities.id = colleges.university_id").
		Order("colleges.created_at DESC, colleges.id DESC").
		Limit(featuredColleges).
		Scan(&data.Colleges).Error
	if err != nil {
		log.Printf("Home: failed to load colleges: %v", err)
		data.Colleges = nil
	}

	if err := db.Order("created_at DESC, id DESC").Limit(featuredCourses).Find(&data.Courses).Error; err != nil {
		log.Printf("Home: failed to load courses: %v", err)
		data.Courses = nil
	}

	data.Stats = s.Stats(ctx)
	return data
}

// Stats returns the catalog counts, from the cache when present
func (s *HomeService) Stats(ctx context.Context) CatalogStats {
	var stats CatalogStats
	if s.cache != nil {
		if err := s.cache.GetJSON(ctx, statsCacheKey, &stats); err == nil {
			return stats
		}
	}

	db := s.db.WithContext(ctx)
	failed := false
	if err := db.Model(&model.University{}).Count(&stats.Universities).Error; err != nil {
		log.Printf("Stats: failed to count universities: %v", err)
		failed = true
	}
	if err := db.Model(&model.College{}).Count(&stats.Colleges).Error; err != nil {
		log.Printf("Stats: failed to count colleges: %v", err)
		failed = true
	}
	if err := db.Model(&model.Course{}).Count(&stats.Courses).Error; err != nil {
		log.Printf("Stats: failed to count courses: %v", err)
		failed = true
	}

	// partial counts are shown once but never cached
	if s.cache != nil && !failed {
		if err := s.cache.SetJSON(ctx, statsCacheKey, stats, statsCacheTTL); err != nil {
			log.Printf("Stats: failed to cache counts: %v", err)
		}
	}
	return stats
}

// Invalidate drops the cached counts after a catalog write
func (s *HomeService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		log.Printf("Stats: failed to invalidate cache: %v", err)
	}
}

// Search matches term case-insensitively across the selected entity types
func (s *HomeService) Search(ctx context.Context, term string, typ SearchType) ([]SearchResult, error) {
	pattern := queryHelper.ContainsPattern(term)
	db := s.db.WithContext(ctx)
	var results []SearchResult

	type source struct {
		typ   SearchType
		tag   string
		query *gorm.DB
	}
	sources := []source{
		{SearchUniversities, "university", db.Model(&model.University{}).
			Select("id, name, description").
			Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)},
		{SearchColleges, "college", db.Model(&model.College{}).
			Select("id, name, description").
			Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)},
		{SearchCourses, "course", db.Model(&model.Course{}).
			Select("id, name, syllabus AS description").
			Where("LOWER(name) LIKE ? OR LOWER(syllabus) LIKE ?", pattern, pattern)},
	}

	for _, src := range sources {
		if !typ.includes(src.typ) {
			continue
		}
		var rows []SearchResult
		if err := src.query.Order("name ASC").Scan(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			rows[i].Type = src.tag
		}
		results = append(results, rows...)
	}
	return results, nil
}

// Dashboard loads the admin counts and the latest catalog additions
func (s *HomeService) Dashboard(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{Stats: s.Stats(ctx)}
	db := s.db.WithContext(ctx)

	if err := db.Model(&model.User{}).Count(&data.Users).Error; err != nil {
		return nil, err
	}

	err := db.Raw(`SELECT 'university' AS type, name, created_at FROM universities
		UNION ALL SELECT 'college' AS type, name, created_at FROM colleges
		UNION ALL SELECT 'course' AS type, name, created_at FROM courses
		ORDER BY created_at DESC LIMIT ?`, recentAdditions).
		Scan(&data.Recent).Error
	if err != nil {
		return nil, err
	}
	return data, nil
}
