package aeroapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/internal/domain/repository"
	"flighttrack-service/pkg/logger"
)

// Client is a typed HTTP client for the aviation-data provider. It implements
// the AviationRepository interface.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a new provider client
func NewClient(baseURL, apiKey string, timeout time.Duration, log logger.Logger) repository.AviationRepository {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// doRequest performs an authenticated request and decodes the JSON response.
// Non-2xx responses map to *entity.UpstreamError; bodies are logged, never
// propagated.
func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, body, dest any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("aeroapi: marshaling request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("aeroapi: creating request: %w", err)
	}
	req.Header.Set("x-apikey", c.apiKey)
	req.Header.Set("Accept", "application/json; charset=UTF-8")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("aeroapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.Warn("Provider request failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"body", string(respBody))
		return &entity.UpstreamError{StatusCode: resp.StatusCode}
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("aeroapi: decoding response: %w", err)
	}
	return nil
}

// isNotFound reports whether err is a provider 404
func isNotFound(err error) bool {
	upstream, ok := err.(*entity.UpstreamError)
	return ok && upstream.StatusCode == http.StatusNotFound
}

// SearchLiveFlights queries live flights by exact identifier over a window. A
// provider 404 means the identifier is unknown and yields an empty result.
func (c *Client) SearchLiveFlights(ctx context.Context, ident string, start, end time.Time) ([]entity.FlightLeg, error) {
	params := url.Values{
		"start": {start.UTC().Format(time.RFC3339)},
		"end":   {end.UTC().Format(time.RFC3339)},
	}
	var resp liveFlightsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/flights/"+url.PathEscape(ident), params, nil, &resp); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	legs := make([]entity.FlightLeg, 0, len(resp.Flights))
	for i := range resp.Flights {
		legs = append(legs, resp.Flights[i].toEntity())
	}
	return legs, nil
}

// SearchScheduledFlights queries published schedules by airline and flight
// number over a day-granularity date range.
func (c *Client) SearchScheduledFlights(ctx context.Context, airline, number, dateFrom, dateTo string) ([]entity.FlightLeg, error) {
	params := url.Values{
		"airline":       {airline},
		"flight_number": {number},
	}
	path := fmt.Sprintf("/schedules/%s/%s", url.PathEscape(dateFrom), url.PathEscape(dateTo))
	var resp scheduledFlightsResponse
	if err := c.doRequest(ctx, http.MethodGet, path, params, nil, &resp); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	legs := make([]entity.FlightLeg, 0, len(resp.Scheduled))
	for i := range resp.Scheduled {
		legs = append(legs, resp.Scheduled[i].toEntity())
	}
	return legs, nil
}

// GetAirport fetches airport metadata by code
func (c *Client) GetAirport(ctx context.Context, code string) (*entity.AirportRef, error) {
	var resp airportResponse
	if err := c.doRequest(ctx, http.MethodGet, "/airports/"+url.PathEscape(code), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &entity.AirportRef{
		Code:     resp.AirportCode,
		CodeIATA: deref(resp.CodeIATA),
		Name:     resp.Name,
		City:     resp.City,
	}, nil
}

// CreateAlert provisions a tracking subscription for one flight
func (c *Client) CreateAlert(ctx context.Context, params entity.AlertParams) (string, error) {
	events := params.Events
	if len(events) == 0 {
		events = []string{"departure", "arrival", "cancelled", "diverted"}
	}
	reqBody := createAlertRequest{
		Ident:       params.FlightNumber,
		Start:       params.Date,
		Destination: params.Destination,
		Events:      events,
	}

	var resp createAlertResponse
	if err := c.doRequest(ctx, http.MethodPost, "/alerts", nil, reqBody, &resp); err != nil {
		return "", err
	}
	if resp.AlertID == "" {
		return "", fmt.Errorf("aeroapi: create alert returned no id")
	}

	c.logger.Info("Provider alert created",
		"alertId", string(resp.AlertID),
		"ident", params.FlightNumber,
		"date", params.Date)
	return string(resp.AlertID), nil
}

// DeleteAlert tears down a subscription. Callers decide how to treat a 404.
func (c *Client) DeleteAlert(ctx context.Context, alertID string) error {
	return c.doRequest(ctx, http.MethodDelete, "/alerts/"+url.PathEscape(alertID), nil, nil, nil)
}
