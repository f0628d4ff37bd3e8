package course

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/model"
	"github.com/sahilchouksey/edupool/services"
	queryHelper "github.com/sahilchouksey/edupool/utils/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keyViews struct{}

func (keyViews) Load() error { return nil }

func (keyViews) Render(w io.Writer, name string, binding interface{}, _ ...string) error {
	data, _ := binding.(fiber.Map)
	_, err := fmt.Fprintf(w, "view=%s\ntitle=%v\nsort=%v\nsearch=%v\nduration=%v\ndurations=%v\n",
		name, data["Title"], data["Sort"], data["Search"], data["Duration"], data["Durations"])
	return err
}

type fakeCourses struct {
	filters      []services.CourseFilter
	listErr      error
	durationsErr error
}

func (f *fakeCourses) List(_ context.Context, filter services.CourseFilter) (*services.CoursePage, error) {
	f.filters = append(f.filters, filter)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &services.CoursePage{
		Pagination: queryHelper.CalculatePagination(filter.Page, services.CoursesPerPage, 1),
		Sort:       services.CourseSorts.Resolve(filter.Sort),
	}, nil
}

func (f *fakeCourses) Durations(context.Context) ([]string, error) {
	if f.durationsErr != nil {
		return nil, f.durationsErr
	}
	return []string{"3 Years", "4 Years"}, nil
}

func (f *fakeCourses) Detail(_ context.Context, id uint) (*services.CourseDetail, error) {
	if id != 1 {
		return nil, services.ErrNotFound
	}
	return &services.CourseDetail{Course: model.Course{ID: 1, Name: "BSc CSIT"}}, nil
}

func newApp(courses *fakeCourses) *fiber.App {
	h := NewCourseHandler(courses)
	app := fiber.New(fiber.Config{Views: keyViews{}})
	app.Get("/courses", h.ListCourses)
	app.Get("/courses/:id", h.GetCourse)
	return app
}

func get(t *testing.T, app *fiber.App, target string) (int, string, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", target, nil), -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header.Get("Location"), string(raw)
}

func TestListCourses_Filters(t *testing.T) {
	courses := &fakeCourses{}
	app := newApp(courses)

	status, _, body := get(t, app, "/courses?search=csit&duration=4%20Years&sort=duration&page=2")

	assert.Equal(t, fiber.StatusOK, status)
	require.Len(t, courses.filters, 1)
	assert.Equal(t, services.CourseFilter{Search: "csit", Duration: "4 Years", Sort: "duration", Page: 2}, courses.filters[0])
	assert.Contains(t, body, "view=courses/index")
	assert.Contains(t, body, "sort=duration")
	assert.Contains(t, body, "duration=4 Years")
	assert.Contains(t, body, "durations=[3 Years 4 Years]")
}

func TestListCourses_DefaultsAndDurationFailure(t *testing.T) {
	courses := &fakeCourses{durationsErr: errors.New("timeout")}
	app := newApp(courses)

	status, _, body := get(t, app, "/courses?sort=price&page=0")

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, services.CourseFilter{Sort: "price", Page: 1}, courses.filters[0])
	assert.Contains(t, body, "sort=name")
	assert.Contains(t, body, "durations=[]")
}

func TestListCourses_ServiceError(t *testing.T) {
	app := newApp(&fakeCourses{listErr: errors.New("connection reset")})

	status, _, _ := get(t, app, "/courses")

	assert.Equal(t, fiber.StatusInternalServerError, status)
}

func TestGetCourse(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		status   int
		location string
	}{
		{name: "found", target: "/courses/1", status: fiber.StatusOK},
		{name: "unknown id", target: "/courses/42", status: fiber.StatusSeeOther, location: "/courses"},
		{name: "non numeric", target: "/courses/abc", status: fiber.StatusSeeOther, location: "/courses"},
		{name: "zero", target: "/courses/0", status: fiber.StatusSeeOther, location: "/courses"},
		{name: "too large", target: "/courses/99999999999", status: fiber.StatusSeeOther, location: "/courses"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, location, body := get(t, newApp(&fakeCourses{}), tt.target)

			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.location, location)
			if tt.status == fiber.StatusOK {
				assert.Contains(t, body, "view=courses/detail")
				assert.Contains(t, body, "title=BSc CSIT - EduPool")
			}
		})
	}
}
