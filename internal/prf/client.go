// Package prf integrates with the external procurement (PRF) HTTP API.
package prf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/facilityhub/helpdesk/internal/config"
	"github.com/facilityhub/helpdesk/internal/domain"
)

// Client talks to the procurement service. All calls are synchronous
// JSON-over-HTTP with an API key header.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient constructs a PRF API client from configuration.
func NewClient(cfg config.PRFConfig, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Enabled reports whether the integration is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// CreateRequestInput is the payload for raising a PRF.
type CreateRequestInput struct {
	TicketSequence string        `json:"ticket_sequence"`
	RequestedBy    string        `json:"requested_by"`
	Items          []RequestItem `json:"items"`
}

// RequestItem is one procurement line.
type RequestItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// CreateRequestResult is the procurement service's acknowledgement.
type CreateRequestResult struct {
	PrfNumber string `json:"prf_number"`
	Status    string `json:"status"`
}

// CreateRequest raises a purchase request form for a material request.
func (c *Client) CreateRequest(ctx context.Context, input CreateRequestInput) (*CreateRequestResult, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("prf integration not configured")
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/prf", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prf request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("prf request rejected: status %d", resp.StatusCode)
	}

	var result CreateRequestResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("prf response decode: %w", err)
	}
	c.logger.Info("prf created",
		zap.String("ticket_sequence", input.TicketSequence),
		zap.String("prf_number", result.PrfNumber))
	return &result, nil
}

// ItemsFromRequest maps material request lines to the wire format.
func ItemsFromRequest(request *domain.MaterialRequest) []RequestItem {
	items := make([]RequestItem, 0, len(request.Items))
	for _, item := range request.Items {
		items = append(items, RequestItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     item.Unit,
		})
	}
	return items
}
