package services

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExportService writes the catalog as an XLSX workbook
type ExportService struct {
	universities  *UniversityService
	colleges      *CollegeService
	courses       *CourseService
	collegeCourse *CollegeCourseService
}

// NewExportService creates a new export service
func NewExportService(universities *UniversityService, colleges *CollegeService, courses *CourseService, collegeCourse *CollegeCourseService) *ExportService {
	return &ExportService{
		universities:  universities,
		colleges:      colleges,
		courses:       courses,
		collegeCourse: collegeCourse,
	}
}

type sheet struct {
	name   string
	header []interface{}
	rows   [][]interface{}
}

// WriteWorkbook writes one sheet per catalog entity to w
func (s *ExportService) WriteWorkbook(ctx context.Context, w io.Writer) error {
	sheets, err := s.collect(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return err
		}

		if err := f.SetSheetRow(sh.name, "A1", &sh.header); err != nil {
			return err
		}
		if err := f.SetRowStyle(sh.name, 1, 1, bold); err != nil {
			return err
		}
		for r, row := range sh.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
				return fmt.Errorf("write %s row %d: %w", sh.name, r+2, err)
			}
		}
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func (s *ExportService) collect(ctx context.Context) ([]sheet, error) {
	universities, err := s.universities.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	colleges, err := s.colleges.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.Offerings(ctx)
	if err != nil {
		return nil, err
	}
	links, err := s.collegeCourse.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	uniSheet := sheet{name: "Universities", header: []interface{}{"ID", "Name", "Established", "Description"}}
	for _, u := range universities {
		uniSheet.rows = append(uniSheet.rows, []interface{}{u.ID, u.Name, u.EstablishedYear, u.Description})
	}

	collegeSheet := sheet{name: "Colleges", header: []interface{}{"ID", "Name", "University", "Location", "Website"}}
	for _, c := range colleges {
		collegeSheet.rows = append(collegeSheet.rows, []interface{}{c.ID, c.Name, c.UniversityName, c.Location, c.WebsiteURL})
	}

	courseSheet := sheet{name: "Courses", header: []interface{}{"ID", "Name", "Duration", "University"}}
	for _, c := range courses {
		courseSheet.rows = append(courseSheet.rows, []interface{}{c.ID, c.Name, c.Duration, c.UniversityName})
	}

	linkSheet := sheet{name: "College Courses", header: []interface{}{"College", "Course", "Program Level"}}
	for _, l := range links {
		linkSheet.rows = append(linkSheet.rows, []interface{}{l.CollegeName, l.CourseName, string(l.ProgramLevel)})
	}

	return []sheet{uniSheet, collegeSheet, courseSheet, linkSheet}, nil
}
