package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"takemeto75/config"
	"takemeto75/logger"
	"takemeto75/metrics"
	"takemeto75/trip"
)

// WeatherClient reads multi-day forecasts from WeatherAPI.com.
type WeatherClient struct {
	upstream
	apiKey  string
	baseURL string
	days    int
}

func NewWeatherClient(cfg config.Weather, log logger.Logger, m *metrics.Metrics) *WeatherClient {
	return &WeatherClient{
		upstream: newUpstream("weatherapi", 0, log, m),
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		days:     cfg.Days,
	}
}

func (c *WeatherClient) Configured() bool { return c.apiKey != "" }

type weatherCondition struct {
	Text string `json:"text"`
	Code int    `json:"code"`
}

type forecastResponse struct {
	Current struct {
		Condition weatherCondition `json:"condition"`
		Humidity  int              `json:"humidity"`
	} `json:"current"`
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempF  float64          `json:"maxtemp_f"`
				MinTempF  float64          `json:"mintemp_f"`
				AvgTempF  float64          `json:"avgtemp_f"`
				Condition weatherCondition `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// Forecast fetches the configured number of days for c.
func (c *WeatherClient) Forecast(ctx context.Context, coords trip.Coordinates) (trip.WeatherSnapshot, error) {
	if !c.Configured() {
		return trip.WeatherSnapshot{}, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", strconv.FormatFloat(coords.Lat, 'f', 4, 64)+","+strconv.FormatFloat(coords.Lon, 'f', 4, 64))
	params.Set("days", strconv.Itoa(c.days))
	params.Set("aqi", "no")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/forecast.json?"+params.Encode(), nil)
	if err != nil {
		return trip.WeatherSnapshot{}, err
	}
	body, err := c.do(ctx, req)
	if err != nil {
		return trip.WeatherSnapshot{}, err
	}

	var resp forecastResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return trip.WeatherSnapshot{}, fmt.Errorf("failed to parse forecast: %w", err)
	}
	if len(resp.Forecast.ForecastDay) == 0 {
		return trip.WeatherSnapshot{}, errors.New("forecast has no days")
	}

	days := make([]trip.DayForecast, 0, len(resp.Forecast.ForecastDay))
	for _, fd := range resp.Forecast.ForecastDay {
		days = append(days, trip.DayForecast{
			Date:      fd.Date,
			High:      fd.Day.MaxTempF,
			Low:       fd.Day.MinTempF,
			Avg:       fd.Day.AvgTempF,
			Condition: fd.Day.Condition.Text,
			Code:      fd.Day.Condition.Code,
		})
	}
	return trip.NewWeatherSnapshot(days, resp.Current.Condition.Text, resp.Current.Humidity), nil
}

// WeatherFeed always answers: live forecast when available, otherwise a
// generated one flagged Degraded.
type WeatherFeed struct {
	client  *WeatherClient
	days    int
	log     logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewWeatherFeed(client *WeatherClient, log logger.Logger, m *metrics.Metrics) *WeatherFeed {
	days := 7
	if client != nil && client.days > 0 {
		days = client.days
	}
	return &WeatherFeed{client: client, days: days, log: log, metrics: m, now: time.Now}
}

func (f *WeatherFeed) Snapshot(ctx context.Context, coords trip.Coordinates) trip.WeatherSnapshot {
	if f.client != nil && f.client.Configured() {
		snap, err := f.client.Forecast(ctx, coords)
		if err == nil {
			return snap
		}
		f.log.Warn("weather forecast failed, using generated forecast",
			"lat", coords.Lat, "lon", coords.Lon, "error", err)
	}
	f.metrics.Upstream("weatherapi", metrics.OutcomeMock)
	return MockWeather(coords, f.now(), f.days)
}
