package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct{ err error }

func (s stubStore) HealthCheck() error { return s.err }

func TestHandleCheckHealth(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		success bool
	}{
		{name: "healthy", status: fiber.StatusOK, success: true},
		{name: "database down", err: errors.New("connection refused"), status: fiber.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/ping", HandleCheckHealth(stubStore{err: tt.err}))

			resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body response.Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.success, body.Success)
		})
	}
}
