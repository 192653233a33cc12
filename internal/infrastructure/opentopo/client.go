package opentopo

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

// Client queries the Open Topo Data API for terrain elevation at a point.
type Client struct {
	httpClient *http.Client
	baseURL    string
	dataset    string
	logger     *zap.Logger
}

func NewClient(cfg *config.ElevationConfig, logger *zap.Logger) repository.ElevationProvider {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: cfg.BaseURL,
		dataset: cfg.Dataset,
		logger:  logger,
	}
}

type elevationResponse struct {
	Results []struct {
		Elevation *float64 `json:"elevation"`
	} `json:"results"`
}

func (c *Client) Elevation(ctx context.Context, lat, lng float64) (float64, error) {
	params := url.Values{}
	params.Set("locations", strconv.FormatFloat(lat, 'f', 6, 64)+","+strconv.FormatFloat(lng, 'f', 6, 64))

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, c.dataset, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("elevation request failed",
			zap.Float64("lat", lat),
			zap.Float64("lng", lng),
			zap.Error(err))
		return 0, fmt.Errorf("failed to call elevation api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("elevation api returned status %d", resp.StatusCode)
	}

	var payload elevationResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("failed to decode elevation response: %w", err)
	}

	if len(payload.Results) == 0 || payload.Results[0].Elevation == nil {
		return 0, fmt.Errorf("elevation response contained no result")
	}

	return *payload.Results[0].Elevation, nil
}
