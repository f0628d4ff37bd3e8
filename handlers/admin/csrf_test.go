package admin

import (
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/model"
	"github.com/sahilchouksey/edupool/services"
	"github.com/sahilchouksey/edupool/utils/upload"
	"github.com/stretchr/testify/assert"
)

func TestPost_ForgedCSRFNeverMutates(t *testing.T) {
	type resource struct {
		path    string
		fields  url.Values
		setup   func(app *fiber.App)
		mutated func() bool
	}

	resources := map[string]func() resource{
		"colleges": func() resource {
			colleges := &fakeColleges{universities: map[uint]bool{1: true}}
			h := NewCollegeAdminHandler(colleges, &fakeUniversities{}, upload.NewUploader(&memoryStore{files: map[string][]byte{}}))
			return resource{
				path:    "/admin/colleges",
				fields:  url.Values{"action": {"add"}, "name": {"Amrit Campus"}, "university_id": {"1"}},
				setup:   func(app *fiber.App) { app.Post("/admin/colleges", h.PostColleges) },
				mutated: func() bool { return len(colleges.rows) > 0 },
			}
		},
		"courses": func() resource {
			courses := &fakeCourses{universities: map[uint]bool{1: true}}
			h := NewCourseAdminHandler(courses, &fakeUniversities{})
			return resource{
				path:    "/admin/courses",
				fields:  url.Values{"action": {"add"}, "name": {"BSc CSIT"}, "university_id": {"1"}},
				setup:   func(app *fiber.App) { app.Post("/admin/courses", h.PostCourses) },
				mutated: func() bool { return len(courses.rows) > 0 },
			}
		},
		"college courses": func() resource {
			links := &fakeLinks{links: map[[2]uint]model.ProgramLevel{}}
			h := NewCollegeCourseAdminHandler(links, noColleges{}, noCourses{})
			return resource{
				path:    "/admin/college-courses",
				fields:  url.Values{"action": {"add"}, "college_id": {"1"}, "course_id": {"2"}, "program_level": {"Bachelor"}},
				setup:   func(app *fiber.App) { app.Post("/admin/college-courses", h.PostCollegeCourses) },
				mutated: func() bool { return links.calls > 0 },
			}
		},
		"syllabus": func() resource {
			syllabus := &fakeSyllabus{info: &services.UniversityCourseInfo{ID: 3}}
			h := NewSyllabusAdminHandler(syllabus)
			return resource{
				path:    "/admin/syllabus?uc_id=3",
				fields:  url.Values{"action": {"add_group"}, "label": {"First Semester"}},
				setup:   func(app *fiber.App) { app.Post("/admin/syllabus", h.PostSyllabus) },
				mutated: func() bool { return len(syllabus.groups) > 0 },
			}
		},
		"users": func() resource {
			users := &fakeUsers{rows: []model.User{{ID: 5, Username: "ram"}}}
			h := NewUserAdminHandler(users)
			return resource{
				path:    "/admin/users",
				fields:  url.Values{"action": {"delete"}, "id": {"5"}},
				setup:   func(app *fiber.App) { app.Post("/admin/users", h.PostUsers) },
				mutated: func() bool { return len(users.rows) != 1 },
			}
		},
	}

	for name, build := range resources {
		for kind, token := range map[string]string{"missing": "", "wrong": "forged"} {
			t.Run(name+"/"+kind, func(t *testing.T) {
				r := build()
				env := newTestEnv(t, r.setup)
				r.fields.Set("csrf_token", token)

				_, body := env.post(t, r.path, r.fields)

				assert.Contains(t, body, "error=Invalid request. Please try again.")
				assert.False(t, r.mutated())
				assert.Empty(t, env.audits.entries)
				assert.Zero(t, env.activity.Len())
				assert.Zero(t, env.writes)
			})
		}
	}
}
