package fred

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/absrisk/internal/metrics"
	"github.com/Alias1177/absrisk/internal/model"
	httpClient "github.com/Alias1177/absrisk/internal/platform/http"
)

// DefaultBaseURL is the public FRED API root
const DefaultBaseURL = "https://api.stlouisfed.org/fred"

const dateLayout = "2006-01-02"

var (
	// ErrEmptySeriesID is returned when no series identifier is given
	ErrEmptySeriesID = errors.New("series id is empty")
	// ErrMissingObservations is returned when a 200 response carries no observations array
	ErrMissingObservations = errors.New("parsing JSON: missing observations")
)

const maxLoggedBody = 512

// Client is the FRED API client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new FRED client
type ClientOptions struct {
	APIKey          string
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetries      int
	MaxRetryTimeout time.Duration
}

// NewClient creates a new FRED API client
func NewClient(options ClientOptions) *Client {
	logger := log.With().Str("component", "fred_client").Logger()

	httpOpts := httpClient.ClientOptions{
		Timeout:         options.RequestTimeout,
		RequestsPerSec:  options.RequestsPerSec,
		MaxRetries:      options.MaxRetries,
		MaxRetryTimeout: options.MaxRetryTimeout,
		OnRetry: func(err error, wait time.Duration) {
			metrics.HTTPRetries.Inc()
			logger.Warn().Err(err).Dur("wait", wait).Msg("Retrying FRED request")
		},
	}

	baseURL := strings.TrimRight(options.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		apiKey:     options.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient.NewClient(httpOpts),
		logger:     logger,
	}
}

// GetObservations fetches all observations of a series, oldest first.
// Values FRED reports as missing (".") or that fail to parse are kept with Valid=false.
func (c *Client) GetObservations(ctx context.Context, seriesID string) ([]model.Observation, error) {
	if strings.TrimSpace(seriesID) == "" {
		return nil, ErrEmptySeriesID
	}

	query := url.Values{}
	query.Set("series_id", seriesID)
	query.Set("api_key", c.apiKey)
	query.Set("file_type", "json")
	endpoint := c.baseURL + "/series/observations?" + query.Encode()

	c.logger.Debug().Str("series_id", seriesID).Msg("Fetching observations")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var data model.FREDResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Str("series_id", seriesID).Msg("Error parsing JSON")
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if data.ErrorMessage != "" {
		c.logger.Error().Str("series_id", seriesID).Int("error_code", data.ErrorCode).Str("error_message", data.ErrorMessage).Msg("FRED API error")
		return nil, fmt.Errorf("FRED API error %d: %s", data.ErrorCode, data.ErrorMessage)
	}
	if data.Observations == nil {
		c.logger.Error().Str("series_id", seriesID).Str("response", snippet(body)).Msg("No observations field in response")
		return nil, ErrMissingObservations
	}

	observations := make([]model.Observation, 0, len(*data.Observations))
	for _, raw := range *data.Observations {
		date, err := time.Parse(dateLayout, raw.Date)
		if err != nil {
			c.logger.Warn().Str("series_id", seriesID).Str("date", raw.Date).Msg("Skipping observation with malformed date")
			continue
		}
		value, ok := parseValue(raw.Value)
		observations = append(observations, model.Observation{
			Date:  date,
			Value: value,
			Valid: ok,
		})
	}

	sort.SliceStable(observations, func(i, j int) bool {
		return observations[i].Date.Before(observations[j].Date)
	})

	c.logger.Debug().Str("series_id", seriesID).Int("count", len(observations)).Msg("Fetched observations")
	return observations, nil
}

func parseValue(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func snippet(body []byte) string {
	if len(body) > maxLoggedBody {
		return string(body[:maxLoggedBody]) + "..."
	}
	return string(body)
}
