// Package weather reads the current outdoor temperature from open-meteo.
// The kitchen is assumed to follow it closely enough to tune fermentation.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
)

// DefaultEndpoint is the open-meteo forecast API.
const DefaultEndpoint = "https://api.open-meteo.com/v1/forecast"

// Compile-time interface check.
var _ domain.TemperatureProvider = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithEndpoint overrides the forecast URL.
func WithEndpoint(u string) Option {
	return func(c *Client) { c.endpoint = u }
}

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// Client fetches the current temperature for a coordinate pair.
type Client struct {
	endpoint string
	http     *http.Client
	log      *logger.Logger
}

// New creates a weather client.
func New(log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type forecast struct {
	CurrentWeather *struct {
		Temperature json.RawMessage `json:"temperature"`
	} `json:"current_weather"`
}

// CurrentTemperature returns the temperature in °C. A non-200 status or
// a reply without a numeric current_weather.temperature is an error.
func (c *Client) CurrentTemperature(ctx context.Context, latitude, longitude float64) (float64, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	q.Set("current_weather", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("weather: create request: %w", err)
	}

	c.log.Debug("weather: GET %s", req.URL)
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("weather: request failed: %w: %w", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("weather: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("weather: API %s: %w", resp.Status, domain.ErrUnavailable)
	}

	var f forecast
	if err := json.Unmarshal(body, &f); err != nil {
		return 0, fmt.Errorf("weather: unmarshal response: %w", err)
	}
	if f.CurrentWeather == nil || len(f.CurrentWeather.Temperature) == 0 || string(f.CurrentWeather.Temperature) == "null" {
		return 0, fmt.Errorf("weather: no current temperature")
	}

	var temp float64
	if err := json.Unmarshal(f.CurrentWeather.Temperature, &temp); err != nil {
		return 0, fmt.Errorf("weather: temperature %s is not a number", f.CurrentWeather.Temperature)
	}
	c.log.Debug("weather: %.1f°C at %g,%g", temp, latitude, longitude)
	return temp, nil
}

// RoomTemp fetches the temperature and rounds it to a whole degree, the
// precision the temperature setting is edited at.
func RoomTemp(ctx context.Context, p domain.TemperatureProvider, latitude, longitude float64) (float64, error) {
	t, err := p.CurrentTemperature(ctx, latitude, longitude)
	if err != nil {
		return 0, err
	}
	return math.Round(t), nil
}
