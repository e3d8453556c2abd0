package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"label-matcher/internal/database"
	"label-matcher/internal/match"
)

// Client represents an HTTP client for the label matcher API
type Client struct {
	baseURL    string
	httpClient *http.Client
	attempts   uint
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return NewClientWithTimeout(baseURL, 60*time.Second)
}

// NewClientWithTimeout creates a new API client with a custom timeout
func NewClientWithTimeout(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		attempts: 3,
	}
}

// APIError represents an error from the API
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	OrderID string `json:"order_id"`
	ShipTo  string `json:"ship_to"`
}

// UpdateOrderRequest represents a request to update an order
type UpdateOrderRequest struct {
	OrderID string `json:"order_id"`
	ShipTo  string `json:"ship_to"`
	Status  string `json:"status"`
}

// MatchRequest mirrors the server's inline match body
type MatchRequest struct {
	SourceFile string          `json:"source_file"`
	Pages      []match.OCRPage `json:"pages"`
}

// MatchResponse mirrors the server's match response
type MatchResponse struct {
	SourceFile string              `json:"source_file"`
	Results    []match.MatchResult `json:"results"`
	Stats      match.BatchStats    `json:"stats"`
}

// doRequest performs an HTTP request, retrying transient failures. Client
// errors (4xx) never retry; connection errors and 5xx do.
func (c *Client) doRequest(method, path string, body []byte, contentType string) (*http.Response, error) {
	url := c.baseURL + path

	var resp *http.Response
	err := retry.Do(
		func() error {
			var reqBody io.Reader
			if body != nil {
				reqBody = bytes.NewReader(body)
			}

			req, err := http.NewRequest(method, url, reqBody)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			if contentType != "" {
				req.Header.Set("Content-Type", contentType)
			}

			r, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}

			if r.StatusCode >= 500 {
				r.Body.Close()
				return fmt.Errorf("server error: %s", r.Status)
			}
			if r.StatusCode >= 400 {
				defer r.Body.Close()
				msg, _ := io.ReadAll(r.Body)
				return retry.Unrecoverable(&APIError{
					Code:    r.StatusCode,
					Message: strings.TrimSpace(string(msg)),
				})
			}

			resp = r
			return nil
		},
		retry.Attempts(c.attempts),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) getJSON(path string, out interface{}) error {
	resp, err := c.doRequest("GET", path, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) sendJSON(method, path string, body, out interface{}) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	resp, err := c.doRequest(method, path, jsonData, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// HealthCheck checks if the API server is healthy
func (c *Client) HealthCheck() error {
	resp, err := c.doRequest("GET", "/api/health", nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

// CreateOrder creates a new order
func (c *Client) CreateOrder(req *CreateOrderRequest) (*database.Order, error) {
	var order database.Order
	if err := c.sendJSON("POST", "/api/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrders returns all orders
func (c *Client) GetOrders() ([]database.Order, error) {
	var orders []database.Order
	if err := c.getJSON("/api/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder returns a specific order by row id
func (c *Client) GetOrder(id int64) (*database.Order, error) {
	var order database.Order
	if err := c.getJSON("/api/orders/"+strconv.FormatInt(id, 10), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrder updates an order
func (c *Client) UpdateOrder(id int64, req *UpdateOrderRequest) (*database.Order, error) {
	var order database.Order
	if err := c.sendJSON("PUT", "/api/orders/"+strconv.FormatInt(id, 10), req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder deletes an order
func (c *Client) DeleteOrder(id int64) error {
	resp, err := c.doRequest("DELETE", "/api/orders/"+strconv.FormatInt(id, 10), nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

// RefreshOrderStatus asks the server to fetch the latest delivery status
// for an order. force bypasses the refresh cooldown.
func (c *Client) RefreshOrderStatus(id int64, force bool) (*database.Order, error) {
	path := fmt.Sprintf("/api/orders/%d/refresh-status", id)
	if force {
		path += "?force=true"
	}
	var order database.Order
	if err := c.sendJSON("POST", path, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderLabels returns the label pages assigned to an order
func (c *Client) GetOrderLabels(id int64) ([]database.LabelMatch, error) {
	var labels []database.LabelMatch
	if err := c.getJSON(fmt.Sprintf("/api/orders/%d/labels", id), &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// MatchLabels submits OCR page text for matching
func (c *Client) MatchLabels(req *MatchRequest) (*MatchResponse, error) {
	var response MatchResponse
	if err := c.sendJSON("POST", "/api/labels/match", req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// UploadLabels uploads a label PDF for server-side processing
func (c *Client) UploadLabels(pdfPath string) (*MatchResponse, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(pdfPath))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	writer.Close()

	resp, err := c.doRequest("POST", "/api/labels/upload", buf.Bytes(), writer.FormDataContentType())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var response MatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &response, nil
}

// GetUnmatched returns label pages awaiting manual review
func (c *Client) GetUnmatched() ([]database.LabelMatch, error) {
	var labels []database.LabelMatch
	if err := c.getJSON("/api/labels/unmatched", &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// AssignLabel manually assigns a label page to an order
func (c *Client) AssignLabel(labelID, orderID int64) error {
	resp, err := c.doRequest("POST", fmt.Sprintf("/api/labels/%d/assign/%d", labelID, orderID), nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}
