package handlers

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return assert.AnError }

	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		wantStatus int
		wantState  string
	}{
		{name: "all up", checks: map[string]HealthCheck{"store": up, "cache": up}, wantStatus: 200, wantState: "ok"},
		{name: "no dependencies", checks: nil, wantStatus: 200, wantState: "ok"},
		{name: "cache down", checks: map[string]HealthCheck{"store": up, "cache": down}, wantStatus: 503, wantState: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/health", NewHealthHandler("test", tt.checks).HealthCheck)

			status, body := doRequest(t, app, "GET", "/health", "")
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantState, body["status"])
			assert.Equal(t, "test", body["version"])
		})
	}
}
