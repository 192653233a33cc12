package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/config"
	"github.com/floodwatch-service/internal/domain/repository"
)

// Client fetches hourly rainfall from the OpenWeather One Call API. Forecast
// lookups hit the onecall endpoint; lookups anchored to a past timestamp go
// through the timemachine endpoint instead.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	timemachineURL string
	apiKey         string
	logger         *zap.Logger
}

func NewClient(cfg *config.WeatherConfig, logger *zap.Logger) repository.RainfallProvider {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:        cfg.BaseURL,
		timemachineURL: cfg.TimemachineURL,
		apiKey:         cfg.APIKey,
		logger:         logger,
	}
}

type hourlyRecord struct {
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
}

type onecallResponse struct {
	Hourly []hourlyRecord `json:"hourly"`
	Data   []hourlyRecord `json:"data"`
}

// HourlyRain returns hours rainfall values in millimetres starting at the
// requested reference time. When referenceTime is zero the current forecast
// is used. The result is always exactly hours long, zero padded when the
// provider returns fewer records.
func (c *Client) HourlyRain(ctx context.Context, lat, lng float64, hours int, referenceTime int64) ([]float64, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	endpoint := c.baseURL
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', 6, 64))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	if referenceTime > 0 {
		endpoint = c.timemachineURL
		params.Set("dt", strconv.FormatInt(referenceTime, 10))
	} else {
		params.Set("exclude", "current,minutely,daily,alerts")
	}

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("openweather request failed",
			zap.Float64("lat", lat),
			zap.Float64("lng", lng),
			zap.Error(err))
		return nil, fmt.Errorf("failed to call openweather api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("openweather returned non-200 status",
			zap.Int("status", resp.StatusCode),
			zap.Float64("lat", lat),
			zap.Float64("lng", lng))
		return nil, fmt.Errorf("openweather api returned status %d", resp.StatusCode)
	}

	var payload onecallResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode openweather response: %w", err)
	}

	records := payload.Hourly
	if len(records) == 0 {
		records = payload.Data
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("openweather response contained no hourly records")
	}

	values := make([]float64, 0, hours)
	for i := 0; i < len(records) && i < hours; i++ {
		values = append(values, records[i].Rain.OneHour)
	}
	for len(values) < hours {
		values = append(values, 0)
	}

	return values, nil
}
