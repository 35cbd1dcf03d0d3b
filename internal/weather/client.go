package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	appLog "shoresquad/internal/log"
	"shoresquad/internal/model"
)

// ForecastDays is the maximum number of future days kept from the daily series.
const ForecastDays = 4

var (
	currentFields = []string{"temperature_2m", "weather_code", "wind_speed_10m", "relative_humidity_2m"}
	dailyFields   = []string{"temperature_2m_max", "temperature_2m_min", "weather_code"}
)

// NetworkError reports a failed forecast request: transport failure,
// non-success status, or a body that could not be decoded.
type NetworkError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("weather: request failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("weather: request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ClientConfig holds the fixed request parameters.
type ClientConfig struct {
	BaseURL   string
	Latitude  float64
	Longitude float64
	Timezone  string
	Timeout   time.Duration
}

// Client issues forecast requests against an Open-Meteo compatible endpoint.
type Client struct {
	http *http.Client
	cfg  ClientConfig
	loc  *time.Location
}

// NewClient creates a forecast client. Daily dates are interpreted in
// cfg.Timezone, falling back to UTC if the zone cannot be loaded.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	loc := time.UTC
	if cfg.Timezone != "" {
		if l, err := time.LoadLocation(cfg.Timezone); err == nil {
			loc = l
		} else {
			appLog.Error("weather: failed to load timezone; using UTC", err, "timezone", cfg.Timezone)
		}
	}
	return &Client{
		http: &http.Client{Timeout: cfg.Timeout},
		cfg:  cfg,
		loc:  loc,
	}
}

// RequestURL builds the forecast URL with the fixed parameter set.
func (c *Client) RequestURL() string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(c.cfg.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(c.cfg.Longitude, 'f', -1, 64))
	q.Set("current", strings.Join(currentFields, ","))
	q.Set("daily", strings.Join(dailyFields, ","))
	q.Set("timezone", c.cfg.Timezone)
	return c.cfg.BaseURL + "?" + q.Encode()
}

type forecastResponse struct {
	Current *struct {
		Temperature *float64 `json:"temperature_2m"`
		WeatherCode *int     `json:"weather_code"`
		WindSpeed   *float64 `json:"wind_speed_10m"`
		Humidity    *float64 `json:"relative_humidity_2m"`
	} `json:"current"`
	Daily *struct {
		Time        []string  `json:"time"`
		MaxTemp     []float64 `json:"temperature_2m_max"`
		MinTemp     []float64 `json:"temperature_2m_min"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"daily"`
}

// FetchForecast performs a single GET and parses current conditions and up
// to ForecastDays future days. It never retries. Any failure is returned as
// a *NetworkError. A response without a daily object yields a nil forecast.
func (c *Client) FetchForecast(ctx context.Context) (model.WeatherSnapshot, []model.ForecastDay, error) {
	u := c.RequestURL()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return model.WeatherSnapshot{}, nil, &NetworkError{URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	appLog.Debug("weather fetch start", "url", u)

	resp, err := c.http.Do(req)
	if err != nil {
		return model.WeatherSnapshot{}, nil, &NetworkError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return model.WeatherSnapshot{}, nil, &NetworkError{URL: u, StatusCode: resp.StatusCode, Err: errors.New(resp.Status)}
	}

	snap, days, err := decodeForecast(resp.Body, c.loc)
	if err != nil {
		// The status was fine; only the body was bad.
		return model.WeatherSnapshot{}, nil, &NetworkError{URL: u, Err: err}
	}

	appLog.Debug("weather fetch success", "status", resp.StatusCode, "forecast_days", len(days))
	return snap, days, nil
}

func decodeForecast(r io.Reader, loc *time.Location) (model.WeatherSnapshot, []model.ForecastDay, error) {
	var body forecastResponse
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return model.WeatherSnapshot{}, nil, fmt.Errorf("decode forecast: %w", err)
	}

	cur := body.Current
	if cur == nil {
		return model.WeatherSnapshot{}, nil, errors.New("response has no current object")
	}
	if cur.Temperature == nil || cur.WeatherCode == nil || cur.WindSpeed == nil || cur.Humidity == nil {
		return model.WeatherSnapshot{}, nil, errors.New("current object is missing requested fields")
	}

	snap := model.WeatherSnapshot{
		TemperatureC:  *cur.Temperature,
		WindKmh:       *cur.WindSpeed,
		HumidityPct:   *cur.Humidity,
		ConditionCode: *cur.WeatherCode,
		FetchedAt:     time.Now(),
	}

	if body.Daily == nil {
		return snap, nil, nil
	}

	d := body.Daily
	n := min(len(d.Time), len(d.MaxTemp), len(d.MinTemp), len(d.WeatherCode))
	days := make([]model.ForecastDay, 0, ForecastDays)
	// Index 0 is today.
	for i := 1; i <= ForecastDays && i < n; i++ {
		date, err := time.ParseInLocation("2006-01-02", d.Time[i], loc)
		if err != nil {
			appLog.Warn("weather: skipping forecast day", "index", i, "time", d.Time[i])
			continue
		}
		days = append(days, model.ForecastDay{
			Date:          date,
			MaxTempC:      d.MaxTemp[i],
			MinTempC:      d.MinTemp[i],
			ConditionCode: d.WeatherCode[i],
		})
	}
	return snap, days, nil
}
