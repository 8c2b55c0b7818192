package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/trendlab/trendfollow/internal/types"
)

// statusPayload mirrors the control server's /status response.
type statusPayload struct {
	Config        types.Config        `json:"config"`
	StrategyState *types.RuntimeState `json:"strategy_state"`
	Version       string              `json:"version"`
}

type spotPayload struct {
	Instrument string  `json:"instrument"`
	SpotPrice  float64 `json:"spot_price"`
}

// apiClient is a thin HTTP client for the strategy control server.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *apiClient) getJSON(path string, target any) error {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(target)
}

// FetchStatus retrieves the full status document.
func (c *apiClient) FetchStatus() (statusPayload, error) {
	var status statusPayload

	err := c.getJSON("/status", &status)

	return status, err
}

// FetchSpot retrieves the latest spot price for the configured instrument.
func (c *apiClient) FetchSpot() (spotPayload, error) {
	var spot spotPayload

	err := c.getJSON("/spot_price", &spot)

	return spot, err
}

// SetRunning starts or stops the strategy through the control endpoints.
func (c *apiClient) SetRunning(running bool) error {
	path := "/control/stop"
	if running {
		path = "/control/start"
	}

	resp, err := c.http.Post(c.baseURL+path, "application/json", nil)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("POST %s: unexpected status %d", path, resp.StatusCode)
	}

	return nil
}
