package database

import (
	"fmt"
	"log"

	"github.com/sahilchouksey/edupool/model"
	"github.com/sahilchouksey/edupool/utils/auth"
	"gorm.io/gorm"
)

// SeedOptions controls which seeds run
type SeedOptions struct {
	AdminUsername string
	AdminPassword string
	Demo          bool // sample catalog, extra admin and demo student
}

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll(opts SeedOptions) error {
	log.Println("🌱 Starting database seeding...")

	if err := s.SeedAdmin(opts.AdminUsername, opts.AdminPassword); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	if !opts.Demo {
		log.Println("✅ Database seeding completed successfully!")
		return nil
	}

	if err := s.SeedAdmin("superadmin", "supersecret"); err != nil {
		return fmt.Errorf("failed to seed superadmin: %w", err)
	}

	if err := s.SeedCatalog(); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	if err := s.SeedDemoUser(); err != nil {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedAdmin creates an admin account unless one with that username exists
func (s *Seeder) SeedAdmin(username, password string) error {
	if username == "" || password == "" {
		log.Println("⚠️  Admin username or password not set, skipping admin creation")
		return nil
	}

	var count int64
	if err := s.db.Model(&model.Admin{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("⏭️  Admin %s already exists, skipping...\n", username)
		return nil
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(&model.Admin{Username: username, PasswordHash: passwordHash}).Error; err != nil {
		return err
	}

	log.Printf("✅ Created admin: %s\n", username)
	return nil
}

// SeedCatalog creates the sample universities, colleges and courses with their links
func (s *Seeder) SeedCatalog() error {
	var count int64
	if err := s.db.Model(&model.University{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("⏭️  Catalog already exists, skipping...")
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		universities := []model.University{
			{
				Name:            "Tribhuvan University",
				Description:     "The oldest and largest university in Nepal, established in 1959. It offers a wide range of undergraduate and graduate programs.",
				EstablishedYear: 1959,
				Image:           "tu_banner.jpg",
			},
			{
				Name:            "Kathmandu University",
				Description:     "A modern autonomous university established in 1991, known for its quality education and research programs.",
				EstablishedYear: 1991,
				Image:           "ku_banner.jpg",
			},
			{
				Name:            "Pokhara University",
				Description:     "Established in 1997, focusing on science, technology, and management education with practical approach.",
				EstablishedYear: 1997,
				Image:           "pu_banner.jpg",
			},
		}
		if err := tx.Create(&universities).Error; err != nil {
			return err
		}

		colleges := []model.College{
			{
				Name:         "Pulchowk Campus",
				Description:  "Institute of Engineering under Tribhuvan University, premier engineering college in Nepal.",
				Location:     "Lalitpur, Nepal",
				MapLink:      "https://maps.google.com?q=Pulchowk+Campus+Lalitpur",
				Image:        "pulchowk.jpg",
				UniversityID: &universities[0].ID,
				WebsiteURL:   "https://pcampus.edu.np",
			},
			{
				Name:         "Kathmandu University School of Engineering",
				Description:  "Leading engineering school with modern facilities and industry connections.",
				Location:     "Dhulikhel, Nepal",
				MapLink:      "https://maps.google.com?q=KU+School+Engineering+Dhulikhel",
				Image:        "ku_soe.jpg",
				UniversityID: &universities[1].ID,
				WebsiteURL:   "https://soe.ku.edu.np",
			},
			{
				Name:         "Pokhara University School of Business",
				Description:  "Business school offering MBA and BBA programs with practical approach.",
				Location:     "Pokhara, Nepal",
				MapLink:      "https://maps.google.com?q=PU+School+Business+Pokhara",
				Image:        "pu_sob.jpg",
				UniversityID: &universities[2].ID,
				WebsiteURL:   "https://sob.pu.edu.np",
			},
		}
		if err := tx.Create(&colleges).Error; err != nil {
			return err
		}

		courses := []model.Course{
			{
				Name:              "Computer Engineering",
				Duration:          "4 Years",
				Syllabus:          "Programming Fundamentals, Data Structures, Computer Networks, Database Systems, Software Engineering, Web Development, Mobile App Development, Artificial Intelligence, Machine Learning",
				Eligibility:       "+2 Science with Physics and Mathematics, Minimum 60% marks",
				CareerPaths:       "Software Developer, System Administrator, Network Engineer, Data Scientist, AI Engineer, Web Developer, Mobile App Developer",
				RequiredDocuments: "Academic Transcripts, Character Certificate, Citizenship Certificate, Passport Size Photos",
			},
			{
				Name:              "Business Administration (BBA)",
				Duration:          "4 Years",
				Syllabus:          "Principles of Management, Marketing Management, Financial Management, Human Resource Management, Operations Management, Business Communication, Entrepreneurship, Strategic Management",
				Eligibility:       "+2 in any stream with minimum 50% marks",
				CareerPaths:       "Business Manager, Marketing Executive, HR Manager, Financial Analyst, Entrepreneur, Consultant, Project Manager",
				RequiredDocuments: "Academic Transcripts, Character Certificate, Citizenship Certificate, Passport Size Photos",
			},
			{
				Name:              "Master of Business Administration (MBA)",
				Duration:          "2 Years",
				Syllabus:          "Advanced Management, Strategic Planning, Leadership, International Business, Digital Marketing, Financial Analysis, Operations Research, Business Analytics",
				Eligibility:       "Bachelor's degree in any field with minimum 50% marks",
				CareerPaths:       "CEO, General Manager, Business Consultant, Investment Banker, Management Consultant, Director, Senior Manager",
				RequiredDocuments: "Bachelor's Degree Certificate, Academic Transcripts, Work Experience Certificate, Character Certificate",
			},
		}
		if err := tx.Create(&courses).Error; err != nil {
			return err
		}

		// university index, course index
		universityCourses := [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 2}}
		for _, uc := range universityCourses {
			link := model.UniversityCourse{UniversityID: universities[uc[0]].ID, CourseID: courses[uc[1]].ID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		collegeCourses := []struct {
			college, course int
			level           model.ProgramLevel
		}{
			{0, 0, model.ProgramLevelBachelor},
			{1, 0, model.ProgramLevelBachelor},
			{2, 1, model.ProgramLevelBachelor},
			{2, 2, model.ProgramLevelMaster},
		}
		for _, cc := range collegeCourses {
			link := model.CollegeCourse{
				CollegeID:    colleges[cc.college].ID,
				CourseID:     courses[cc.course].ID,
				ProgramLevel: cc.level,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		log.Printf("✅ Created %d universities, %d colleges, %d courses\n", len(universities), len(colleges), len(courses))
		return nil
	})
}

// SeedDemoUser creates the demo student account
func (s *Seeder) SeedDemoUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("email = ?", "demo@edupool.com").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("⏭️  Demo user already exists, skipping...")
		return nil
	}

	passwordHash, err := auth.HashPassword("demo123")
	if err != nil {
		return err
	}

	user := &model.User{Username: "demo", Email: "demo@edupool.com", PasswordHash: passwordHash}
	if err := s.db.Create(user).Error; err != nil {
		return err
	}

	log.Printf("✅ Created demo user: %s\n", user.Email)
	return nil
}

// RunSeeds runs every seed with the given options
func RunSeeds(db *gorm.DB, opts SeedOptions) error {
	seeder := NewSeeder(db)
	return seeder.SeedAll(opts)
}
