package home

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keyViews struct{}

func (keyViews) Load() error { return nil }

func (keyViews) Render(w io.Writer, name string, binding interface{}, _ ...string) error {
	data, _ := binding.(fiber.Map)
	results, _ := data["Results"].([]services.SearchResult)
	home, _ := data["Home"].(*services.HomeData)
	_, err := fmt.Fprintf(w, "view=%s\nsearch=%v\ntype=%v\nsearched=%v\nresults=%d\nstats=%+v\n",
		name, data["Search"], data["Type"], data["Searched"], len(results), home.Stats)
	return err
}

type search struct {
	term string
	typ  services.SearchType
}

type fakeHome struct {
	searches  []search
	searchErr error
}

func (f *fakeHome) Home(context.Context) *services.HomeData {
	return &services.HomeData{Stats: services.CatalogStats{Universities: 12, Colleges: 40, Courses: 85}}
}

func (f *fakeHome) Search(_ context.Context, term string, typ services.SearchType) ([]services.SearchResult, error) {
	f.searches = append(f.searches, search{term: term, typ: typ})
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return []services.SearchResult{{Type: "college", ID: 1, Name: "Amrit Campus"}}, nil
}

func get(t *testing.T, home *fakeHome, target string) (int, string) {
	t.Helper()
	app := fiber.New(fiber.Config{Views: keyViews{}})
	app.Get("/", NewHomeHandler(home).Home)
	resp, err := app.Test(httptest.NewRequest("GET", target, nil), -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestHome_WithoutSearch(t *testing.T) {
	home := &fakeHome{}

	status, body := get(t, home, "/?search=%20%20&type=colleges")

	assert.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, home.searches)
	assert.Contains(t, body, "view=home")
	assert.Contains(t, body, "searched=<nil>")
	assert.Contains(t, body, "type=colleges")
	assert.Contains(t, body, "stats={Universities:12 Colleges:40 Courses:85}")
}

func TestHome_Search(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   search
	}{
		{name: "typed", target: "/?search=amrit&type=colleges", want: search{term: "amrit", typ: services.SearchColleges}},
		{name: "unknown type", target: "/?search=amrit&type=hostels", want: search{term: "amrit", typ: services.SearchAll}},
		{name: "no type", target: "/?search=csit", want: search{term: "csit", typ: services.SearchAll}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := &fakeHome{}

			status, body := get(t, home, tt.target)

			assert.Equal(t, fiber.StatusOK, status)
			require.Len(t, home.searches, 1)
			assert.Equal(t, tt.want, home.searches[0])
			assert.Contains(t, body, "type="+string(tt.want.typ))
			assert.Contains(t, body, "searched=true")
			assert.Contains(t, body, "results=1")
		})
	}
}

func TestHome_SearchErrorStillRenders(t *testing.T) {
	home := &fakeHome{searchErr: errors.New("timeout")}

	status, body := get(t, home, "/?search=amrit")

	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "searched=true")
	assert.Contains(t, body, "results=0")
}
