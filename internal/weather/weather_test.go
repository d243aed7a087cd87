package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/levain/internal/logger"
)

func serve(t *testing.T, status int, body string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "32.08", r.URL.Query().Get("latitude"))
		assert.Equal(t, "34.78", r.URL.Query().Get("longitude"))
		assert.Equal(t, "true", r.URL.Query().Get("current_weather"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return New(logger.New(logger.LevelOff, nil), WithEndpoint(server.URL))
}

func TestCurrentTemperature(t *testing.T) {
	c := serve(t, http.StatusOK, `{"current_weather":{"temperature":26.6,"windspeed":9.1}}`)

	got, err := c.CurrentTemperature(context.Background(), 32.08, 34.78)
	require.NoError(t, err)
	assert.Equal(t, 26.6, got)

	rounded, err := RoomTemp(context.Background(), c, 32.08, 34.78)
	require.NoError(t, err)
	assert.Equal(t, 27.0, rounded)
}

func TestCurrentTemperatureErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{}`},
		{"missing block", http.StatusOK, `{"latitude":32}`},
		{"missing temperature", http.StatusOK, `{"current_weather":{}}`},
		{"string temperature", http.StatusOK, `{"current_weather":{"temperature":"warm"}}`},
		{"null temperature", http.StatusOK, `{"current_weather":{"temperature":null}}`},
		{"not json", http.StatusOK, `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := serve(t, tt.status, tt.body).CurrentTemperature(context.Background(), 32.08, 34.78)
			assert.Error(t, err)
		})
	}
}
