package admin

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/model"
	"github.com/sahilchouksey/edupool/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCourses struct {
	rows         []model.Course
	universities map[uint]bool
	extracted    string
	extractErr   error
	extractCalls int
}

func (f *fakeCourses) Offerings(context.Context) ([]services.CourseOfferingRow, error) {
	rows := make([]services.CourseOfferingRow, 0, len(f.rows))
	for _, c := range f.rows {
		rows = append(rows, services.CourseOfferingRow{ID: c.ID, Name: c.Name, Duration: c.Duration})
	}
	return rows, nil
}

func (f *fakeCourses) Get(_ context.Context, id uint) (*model.Course, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			return &f.rows[i], nil
		}
	}
	return nil, services.ErrNotFound
}

func (f *fakeCourses) CreateWithUniversity(_ context.Context, in services.CourseInput, universityID uint) (*model.Course, error) {
	if !f.universities[universityID] {
		return nil, services.ErrInvalidReference
	}
	c := model.Course{
		ID:                uint(len(f.rows) + 1),
		Name:              in.Name,
		Duration:          in.Duration,
		Syllabus:          in.Syllabus,
		Eligibility:       in.Eligibility,
		CareerPaths:       in.CareerPaths,
		RequiredDocuments: in.RequiredDocuments,
	}
	f.rows = append(f.rows, c)
	return &c, nil
}

func (f *fakeCourses) Update(ctx context.Context, id uint, in services.CourseInput) (*model.Course, error) {
	c, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name, c.Duration, c.Syllabus = in.Name, in.Duration, in.Syllabus
	return c, nil
}

func (f *fakeCourses) Delete(_ context.Context, id uint) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return services.ErrNotFound
}

func (f *fakeCourses) ExtractSyllabus([]byte) (string, error) {
	f.extractCalls++
	if f.extractErr != nil {
		return "", f.extractErr
	}
	return f.extracted, nil
}

func newCourseEnv(t *testing.T, courses *fakeCourses) *testEnv {
	t.Helper()
	if courses.universities == nil {
		courses.universities = map[uint]bool{1: true}
	}
	h := NewCourseAdminHandler(courses, &fakeUniversities{rows: []model.University{{ID: 1, Name: "Tribhuvan University"}}})
	return newTestEnv(t, func(app *fiber.App) {
		app.Get("/admin/courses", h.ManageCourses)
		app.Post("/admin/courses", h.PostCourses)
	})
}

// onePagePDF builds a minimal single page PDF with a valid cross-reference table
func onePagePDF(t *testing.T) []byte {
	t.Helper()
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestPostCourses_Add(t *testing.T) {
	courses := &fakeCourses{}
	env := newCourseEnv(t, courses)

	_, body := env.post(t, "/admin/courses", url.Values{
		"csrf_token":    {testToken},
		"action":        {"add"},
		"name":          {"BSc CSIT"},
		"duration":      {"4 Years"},
		"university_id": {"1"},
	})

	assert.Contains(t, body, "success=Course added successfully!")
	require.Len(t, courses.rows, 1)
	assert.Equal(t, "4 Years", courses.rows[0].Duration)
	assert.Zero(t, courses.extractCalls)
	require.Len(t, env.audits.entries, 1)
	assert.Equal(t, "courses", env.audits.entries[0].Resource)
	assert.Contains(t, env.activity.String(), "Course added: BSc CSIT")
}

func TestPostCourses_RequiresUniversity(t *testing.T) {
	for name, universityID := range map[string]string{"missing": "", "unknown": "42"} {
		t.Run(name, func(t *testing.T) {
			courses := &fakeCourses{}
			env := newCourseEnv(t, courses)

			_, body := env.post(t, "/admin/courses", url.Values{
				"csrf_token":    {testToken},
				"action":        {"add"},
				"name":          {"BBS"},
				"university_id": {universityID},
			})

			assert.Contains(t, body, "error=Please select a university for this course.")
			assert.Contains(t, body, "show=true")
			assert.Contains(t, body, "Name:BBS")
			assert.Empty(t, courses.rows)
			assert.Empty(t, env.audits.entries)
		})
	}
}

func TestPostCourses_ImportsSyllabusPDF(t *testing.T) {
	courses := &fakeCourses{extracted: "Unit 1: Programming in C"}
	env := newCourseEnv(t, courses)

	_, body := env.postMultipart(t, "/admin/courses", url.Values{
		"csrf_token":    {testToken},
		"action":        {"add"},
		"name":          {"BIT"},
		"syllabus":      {"typed by hand"},
		"university_id": {"1"},
	}, &filePart{field: "syllabus_pdf", filename: "bit-syllabus.pdf", content: onePagePDF(t)})

	assert.Contains(t, body, "success=Course added successfully!")
	require.Len(t, courses.rows, 1)
	assert.Equal(t, "Unit 1: Programming in C", courses.rows[0].Syllabus)
	assert.Equal(t, 1, courses.extractCalls)
}

func TestPostCourses_RejectsBadSyllabusPDF(t *testing.T) {
	tests := []struct {
		name       string
		file       *filePart
		extractErr error
		want       string
	}{
		{
			name: "not a pdf name",
			file: &filePart{field: "syllabus_pdf", filename: "syllabus.txt", content: []byte("Unit 1")},
			want: "Only PDF files are supported",
		},
		{
			name: "not a pdf body",
			file: &filePart{field: "syllabus_pdf", filename: "syllabus.pdf", content: []byte("Unit 1, Unit 2, Unit 3")},
			want: "Invalid PDF file: missing PDF header",
		},
		{
			name:       "scanned pdf",
			file:       &filePart{field: "syllabus_pdf", filename: "scan.pdf", content: onePagePDF(t)},
			extractErr: fmt.Errorf("%w: only 3 characters", services.ErrUnreadablePDF),
			want:       msgUnreadableSyllabus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses := &fakeCourses{extractErr: tt.extractErr}
			env := newCourseEnv(t, courses)

			_, body := env.postMultipart(t, "/admin/courses", url.Values{
				"csrf_token":    {testToken},
				"action":        {"add"},
				"name":          {"BIT"},
				"university_id": {"1"},
			}, tt.file)

			assert.Contains(t, body, "error="+tt.want)
			assert.Contains(t, body, "Name:BIT")
			assert.Empty(t, courses.rows)
			assert.Empty(t, env.audits.entries)
		})
	}
}

func TestPostCourses_EditAndDelete(t *testing.T) {
	courses := &fakeCourses{
		rows:      []model.Course{{ID: 2, Name: "BBA", Duration: "4 Years", Syllabus: "typed by hand"}},
		extracted: "Unit 1: Principles of Management",
	}
	env := newCourseEnv(t, courses)

	_, body := env.post(t, "/admin/courses", url.Values{
		"csrf_token": {testToken},
		"action":     {"edit"},
		"id":         {"9"},
		"name":       {"Ghost"},
	})
	assert.Contains(t, body, "error=Invalid data provided.")
	assert.Contains(t, body, "Name:Ghost")

	_, body = env.postMultipart(t, "/admin/courses", url.Values{
		"csrf_token": {testToken},
		"action":     {"edit"},
		"id":         {"2"},
		"name":       {"BBA"},
		"duration":   {"4 Years"},
	}, &filePart{field: "syllabus_pdf", filename: "bba.pdf", content: onePagePDF(t)})
	assert.Contains(t, body, "success=Course updated successfully!")
	assert.Equal(t, "Unit 1: Principles of Management", courses.rows[0].Syllabus)

	_, body = env.post(t, "/admin/courses", url.Values{"csrf_token": {testToken}, "action": {"delete"}, "id": {"2"}})
	assert.Contains(t, body, "success=Course deleted successfully!")
	assert.Empty(t, courses.rows)

	_, body = env.post(t, "/admin/courses", url.Values{"csrf_token": {testToken}, "action": {"delete"}, "id": {"2"}})
	assert.Contains(t, body, "error=Invalid course ID.")
	assert.Len(t, env.audits.entries, 2)
	assert.Contains(t, env.activity.String(), "Course deleted: ID 2")
}
