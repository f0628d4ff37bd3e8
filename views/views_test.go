package views

import (
	"bytes"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/model"
	"github.com/sahilchouksey/edupool/utils/middleware"
	"github.com/sahilchouksey/edupool/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"  padded  ", 10, "padded"},
		{"exactly ten", 11, "exactly ten"},
		{"Tribhuvan University", 9, "Tribhuvan..."},
		{"Tribhuvan University", 10, "Tribhuvan..."},
		{"काठमाडौं विश्वविद्यालय", 3, "काठ..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.n), tt.in)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "", FormatDate(time.Time{}))
	assert.Equal(t, "Mar 5, 2024", FormatDate(time.Date(2024, 3, 5, 18, 30, 0, 0, time.UTC)))
}

func newEngine(t *testing.T) fiber.Views {
	t.Helper()
	engine := New(func(name string) string { return "/uploads/" + name })
	require.NoError(t, engine.Load())
	return engine
}

func TestRender_AdminLogin(t *testing.T) {
	engine := newEngine(t)

	var out bytes.Buffer
	err := engine.Render(&out, "admin/login", fiber.Map{
		"Title":     "Admin Login - EduPool",
		"Flash":     response.Flash{Error: "Invalid username or password."},
		"Username":  "admin<script>",
		"csrfToken": "tok123",
		"principal": middleware.Principal{},
	}, "layouts/main")
	require.NoError(t, err)

	html := out.String()
	assert.Contains(t, html, "<title>Admin Login - EduPool</title>")
	assert.Contains(t, html, "Invalid username or password.")
	assert.Contains(t, html, `name="csrf_token" value="tok123"`)
	assert.Contains(t, html, `href="/register"`)
	assert.NotContains(t, html, "admin<script>")
}

type editForm struct {
	ID              uint
	Name            string
	Description     string
	EstablishedYear int
	Image           string
}

func TestRender_AdminUniversities(t *testing.T) {
	engine := newEngine(t)

	var out bytes.Buffer
	err := engine.Render(&out, "admin/universities", fiber.Map{
		"Title": "Manage Universities - EduPool Admin",
		"Flash": response.Flash{Success: "University added successfully!"},
		"Universities": []model.University{
			{ID: 1, Name: "Tribhuvan University", EstablishedYear: 1959, CreatedAt: time.Now()},
			{ID: 2, Name: "Pokhara University"},
		},
		"Form":      &editForm{ID: 1, Name: "Tribhuvan University", Image: "tu.png"},
		"ShowForm":  true,
		"csrfToken": "tok123",
		"principal": middleware.Principal{AdminID: 1, AdminUsername: "admin"},
	}, "layouts/admin")
	require.NoError(t, err)

	html := out.String()
	assert.Contains(t, html, "University added successfully!")
	assert.Contains(t, html, "Signed in as admin")
	assert.Contains(t, html, `name="action" value="edit"`)
	assert.Contains(t, html, `src="/uploads/tu.png"`)
	assert.Contains(t, html, "Pokhara University")
	assert.Contains(t, html, `href="/admin/universities?edit=2"`)
}
