// Package discount implements the HTTP client for the discount-calculation
// engine. The engine is a stateless pricing oracle; callers wrap this client
// with fallback policy, so every failure here is surfaced as a plain error.
package discount

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// discountEndpoint is the calculation path appended to the configured base URL.
const discountEndpoint = "/api/v1/discount"

// Config holds the connection settings for the discount engine.
type Config struct {
	BaseURL        string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// Request is the wire request body.
type Request struct {
	Items []Item `json:"items"`
}

// Item is one transaction line as the engine expects it.
type Item struct {
	Product  ProductRef `json:"product"`
	Quantity int64      `json:"quantity"`
}

// ProductRef identifies a product on the wire. Price is a JSON number.
type ProductRef struct {
	UPC   string  `json:"upc"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Response is the wire response body of a successful calculation.
type Response struct {
	OriginalTotal    float64  `json:"originalTotal"`
	DiscountAmount   float64  `json:"discountAmount"`
	FinalTotal       float64  `json:"finalTotal"`
	AppliedDiscounts []string `json:"appliedDiscounts"`
}

// Client calls the discount engine over HTTP with bounded connect and read
// timeouts. One request per Calculate call; no internal retries.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient builds a client whose dialer enforces the connect timeout and
// whose overall request deadline enforces the read timeout.
func NewClient(cfg Config) *Client {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.ReadTimeout,
			Transport: &http.Transport{
				DialContext: dialer.DialContext,
			},
		},
	}
}

// Calculate posts the items and decodes the engine's result. Any non-200
// status, transport failure, or malformed body is returned as an error.
func (c *Client) Calculate(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode discount request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+discountEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build discount request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call discount engine: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(httpResp.Body, 1024))
		return nil, fmt.Errorf("discount engine returned status %d: %s", httpResp.StatusCode, string(payload))
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to parse discount response: %w", err)
	}

	return &resp, nil
}
