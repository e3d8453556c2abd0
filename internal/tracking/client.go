// Package tracking queries an external tracking API (Track123) for the
// delivery status of a shipped order. The client covers the single query
// endpoint the service needs; registration of tracking numbers happens on
// the carrier side when labels are purchased.
package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultAPIURL is the Track123 status query endpoint.
const DefaultAPIURL = "https://api.track123.com/gateway/open-api/tk/v2/track/query"

// StatusUnavailable is returned when the API answers but carries no usable
// transit status for the tracking number.
const StatusUnavailable = "Status not available"

// Config configures the tracking client.
type Config struct {
	// APIURL overrides the query endpoint; empty uses DefaultAPIURL.
	APIURL string
	// APIKey is the Track123 API secret. Required.
	APIKey string
	// RequestTimeout bounds each status query. Zero means 30 seconds.
	RequestTimeout time.Duration
}

// Client fetches delivery statuses over HTTP.
type Client struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a tracking client.
func NewClient(cfg Config) *Client {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiURL:     apiURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// transit status codes mapped to readable statuses, checked in order by
// prefix. Codes outside the table pass through verbatim.
var statusMapping = []struct {
	code     string
	readable string
}{
	{"DELIVERED", "Delivered"},
	{"IN_TRANSIT", "In Transit"},
	{"INFO_RECEIVED", "Info Received"},
	{"WAITING_DELIVERY", "Out for Delivery"},
	{"DELIVERY_FAILED", "Delivery Failed"},
	{"EXCEPTION", "Exception"},
}

type queryRequest struct {
	TrackNos []string `json:"trackNos"`
}

type queryResponse struct {
	Data struct {
		Accepted struct {
			Content []struct {
				TransitStatus      string `json:"transitStatus"`
				TransitSubStatus   string `json:"transitSubStatus"`
				LocalLogisticsInfo struct {
					TrackingDetails []struct {
						EventDetail string `json:"eventDetail"`
					} `json:"trackingDetails"`
				} `json:"localLogisticsInfo"`
			} `json:"content"`
		} `json:"accepted"`
	} `json:"data"`
}

type apiError struct {
	Msg     string `json:"msg"`
	Message string `json:"message"`
	Err     string `json:"error"`
}

// Status queries the delivery status for one tracking number. The returned
// status is a readable phrase ("Delivered", "In Transit - arrived at
// facility", ...) or StatusUnavailable when the API has nothing for the
// number yet.
func (c *Client) Status(ctx context.Context, trackingNumber string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("tracking API key is not configured")
	}
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return "", fmt.Errorf("tracking number is required")
	}

	body, err := json.Marshal(queryRequest{TrackNos: []string{trackingNumber}})
	if err != nil {
		return "", fmt.Errorf("failed to encode tracking query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build tracking request: %w", err)
	}
	req.Header.Set("Track123-Api-Secret", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tracking API request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read tracking response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tracking API returned status %d: %s", resp.StatusCode, apiErrorMessage(payload))
	}

	var parsed queryResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode tracking response: %w", err)
	}

	return extractStatus(&parsed), nil
}

// extractStatus maps the API's transit status to a readable phrase and
// appends the latest event detail when one exists.
func extractStatus(resp *queryResponse) string {
	content := resp.Data.Accepted.Content
	if len(content) == 0 {
		return StatusUnavailable
	}
	first := content[0]

	status := ""
	if first.TransitStatus != "" {
		status = first.TransitStatus
		for _, m := range statusMapping {
			if strings.HasPrefix(first.TransitStatus, m.code) {
				status = m.readable
				break
			}
		}
		if details := first.LocalLogisticsInfo.TrackingDetails; len(details) > 0 && details[0].EventDetail != "" {
			status = status + " - " + details[0].EventDetail
		}
	}

	if status == "" {
		if first.TransitSubStatus != "" {
			return first.TransitSubStatus
		}
		return StatusUnavailable
	}
	return status
}

// IsDelivered reports whether a fetched status means the parcel arrived.
// A status with trailing event detail ("Delivered - left at door") does not
// count; only the bare terminal status advances the order.
func IsDelivered(status string) bool {
	return strings.EqualFold(status, "Delivered")
}

func apiErrorMessage(payload []byte) string {
	var e apiError
	if err := json.Unmarshal(payload, &e); err == nil {
		switch {
		case e.Msg != "":
			return e.Msg
		case e.Message != "":
			return e.Message
		case e.Err != "":
			return e.Err
		}
	}
	return string(payload)
}
