package admin

import (
	"context"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/model"
	"github.com/sahilchouksey/edupool/services"
	"github.com/sahilchouksey/edupool/utils/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeColleges struct {
	rows         []model.College
	universities map[uint]bool
	nextID       uint
}

func (f *fakeColleges) ListAll(context.Context) ([]services.CollegeRow, error) {
	rows := make([]services.CollegeRow, 0, len(f.rows))
	for _, c := range f.rows {
		rows = append(rows, services.CollegeRow{ID: c.ID, Name: c.Name, UniversityID: c.UniversityID, Image: c.Image})
	}
	return rows, nil
}

func (f *fakeColleges) Get(_ context.Context, id uint) (*model.College, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			return &f.rows[i], nil
		}
	}
	return nil, services.ErrNotFound
}

func (f *fakeColleges) Create(_ context.Context, in services.CollegeInput) (*model.College, error) {
	if !f.universities[in.UniversityID] {
		return nil, services.ErrInvalidReference
	}
	f.nextID++
	universityID := in.UniversityID
	c := model.College{ID: f.nextID, Name: in.Name, Location: in.Location, WebsiteURL: in.WebsiteURL, UniversityID: &universityID, Image: in.Image}
	f.rows = append(f.rows, c)
	return &c, nil
}

func (f *fakeColleges) Update(ctx context.Context, id uint, in services.CollegeInput) (*model.College, error) {
	c, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !f.universities[in.UniversityID] {
		return nil, services.ErrInvalidReference
	}
	universityID := in.UniversityID
	c.Name, c.Location, c.UniversityID = in.Name, in.Location, &universityID
	if in.Image != "" {
		c.Image = in.Image
	}
	return c, nil
}

func (f *fakeColleges) Delete(_ context.Context, id uint) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return services.ErrNotFound
}

func newCollegeEnv(t *testing.T) (*testEnv, *fakeColleges, *memoryStore) {
	t.Helper()
	colleges := &fakeColleges{universities: map[uint]bool{1: true}}
	universities := &fakeUniversities{rows: []model.University{{ID: 1, Name: "Tribhuvan University"}}}
	store := &memoryStore{files: map[string][]byte{}}
	h := NewCollegeAdminHandler(colleges, universities, upload.NewUploader(store))
	env := newTestEnv(t, func(app *fiber.App) {
		app.Get("/admin/colleges", h.ManageColleges)
		app.Post("/admin/colleges", h.PostColleges)
	})
	return env, colleges, store
}

func TestPostColleges_AddWithImage(t *testing.T) {
	env, colleges, store := newCollegeEnv(t)

	_, body := env.postMultipart(t, "/admin/colleges", url.Values{
		"csrf_token":    {testToken},
		"action":        {"add"},
		"name":          {"Amrit Campus"},
		"location":      {"Lainchaur, Kathmandu"},
		"website_url":   {"https://amritcampus.edu.np"},
		"university_id": {"1"},
	}, &filePart{field: "image", filename: "amrit.png", content: pngBytes(t)})

	assert.Contains(t, body, "success=College added successfully!")
	require.Len(t, colleges.rows, 1)
	college := colleges.rows[0]
	assert.Equal(t, "Amrit Campus", college.Name)
	require.NotNil(t, college.UniversityID)
	assert.Equal(t, uint(1), *college.UniversityID)
	assert.Contains(t, store.files, college.Image)

	require.Len(t, env.audits.entries, 1)
	assert.Equal(t, "colleges", env.audits.entries[0].Resource)
	assert.Contains(t, env.activity.String(), "College added: Amrit Campus")
	assert.Equal(t, 1, env.writes)
}

func TestPostColleges_UnknownUniversityDiscardsUpload(t *testing.T) {
	env, colleges, store := newCollegeEnv(t)

	_, body := env.postMultipart(t, "/admin/colleges", url.Values{
		"csrf_token":    {testToken},
		"action":        {"add"},
		"name":          {"Orphan College"},
		"university_id": {"42"},
	}, &filePart{field: "image", filename: "orphan.png", content: pngBytes(t)})

	assert.Contains(t, body, "error=Please select an affiliated university.")
	assert.Contains(t, body, "Name:Orphan College")
	assert.Empty(t, colleges.rows)
	assert.Empty(t, store.files)
	assert.Empty(t, env.audits.entries)
}

func TestPostColleges_Validation(t *testing.T) {
	tests := []struct {
		name   string
		fields url.Values
		want   string
	}{
		{
			name:   "blank name",
			fields: url.Values{"action": {"add"}, "name": {" "}, "university_id": {"1"}},
			want:   "College name is required.",
		},
		{
			name:   "no university",
			fields: url.Values{"action": {"add"}, "name": {"Patan Campus"}},
			want:   "Please select an affiliated university.",
		},
		{
			name:   "bad website",
			fields: url.Values{"action": {"add"}, "name": {"Patan Campus"}, "university_id": {"1"}, "website_url": {"not a url"}},
			want:   "Please enter a valid website URL.",
		},
		{
			name:   "edit without id",
			fields: url.Values{"action": {"edit"}, "name": {"Patan Campus"}, "university_id": {"1"}},
			want:   "Invalid data provided.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, colleges, _ := newCollegeEnv(t)
			tt.fields.Set("csrf_token", testToken)

			_, body := env.post(t, "/admin/colleges", tt.fields)

			assert.Contains(t, body, "error="+tt.want)
			assert.Contains(t, body, "show=true")
			assert.Empty(t, colleges.rows)
			assert.Empty(t, env.audits.entries)
		})
	}
}

func TestPostColleges_EditAndDelete(t *testing.T) {
	env, colleges, _ := newCollegeEnv(t)
	universityID := uint(1)
	colleges.rows = []model.College{{ID: 3, Name: "Patan Campus", UniversityID: &universityID, Image: "patan.png"}}
	colleges.nextID = 3

	_, body := env.post(t, "/admin/colleges", url.Values{
		"csrf_token":    {testToken},
		"action":        {"edit"},
		"id":            {"3"},
		"name":          {"Patan Multiple Campus"},
		"university_id": {"1"},
	})
	assert.Contains(t, body, "success=College updated successfully!")
	assert.Equal(t, "Patan Multiple Campus", colleges.rows[0].Name)
	assert.Equal(t, "patan.png", colleges.rows[0].Image, "an edit without a file keeps the image")

	_, body = env.post(t, "/admin/colleges", url.Values{"csrf_token": {testToken}, "action": {"delete"}, "id": {"3"}})
	assert.Contains(t, body, "success=College deleted successfully!")
	assert.Empty(t, colleges.rows)

	_, body = env.post(t, "/admin/colleges", url.Values{"csrf_token": {testToken}, "action": {"delete"}, "id": {"3"}})
	assert.Contains(t, body, "error=Invalid college ID.")
	assert.Len(t, env.audits.entries, 2)
}
