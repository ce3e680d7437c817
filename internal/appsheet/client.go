// Package appsheet is the adapter for the remote table service. It owns the
// raw Find/Action calls and the projection of job and team rows into
// calendar events.
package appsheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Monticola-data/backend-kalendar/internal/apperrors"
	"github.com/Monticola-data/backend-kalendar/internal/config"
)

// Row actions accepted by the remote table service.
const (
	ActionAdd  = "Add"
	ActionEdit = "Edit"
)

type Client struct {
	cfg        *config.AppSheetConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a remote table client with a per-request timeout
func NewClient(cfg *config.AppSheetConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) tableURL(table, operation string) string {
	return fmt.Sprintf("%s/apps/%s/tables/%s/%s",
		c.cfg.BaseURL, c.cfg.AppID, url.PathEscape(table), operation)
}

// post sends one JSON request to the remote table service. Any failure,
// transport or non-2xx alike, surfaces as an UpstreamError carrying the
// upstream response body verbatim.
func (c *Client) post(ctx context.Context, requestURL string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &apperrors.UpstreamError{Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return nil, &apperrors.UpstreamError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("ApplicationAccessKey", c.cfg.AccessKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apperrors.UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.UpstreamError{Status: resp.StatusCode, Err: err}
	}

	c.logger.Debug("Remote table call finished",
		zap.String("url", requestURL),
		zap.Int("status", resp.StatusCode),
		zap.Int64("latency_ms", time.Since(start).Milliseconds()),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apperrors.UpstreamError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}

// FindRows queries one table for the given columns and returns the raw rows.
func (c *Client) FindRows(ctx context.Context, table string, selectCols []string) ([]map[string]any, error) {
	body, err := c.post(ctx, c.tableURL(table, "Find"), map[string]any{
		"Select": selectCols,
	})
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &apperrors.UpstreamError{Err: fmt.Errorf("failed to decode rows: %w", err)}
	}
	return rows, nil
}

// PushRow sends an Add or Edit action for one row and returns the upstream
// response body.
func (c *Client) PushRow(ctx context.Context, table, action string, row map[string]any) (json.RawMessage, error) {
	body, err := c.post(ctx, c.tableURL(table, "Action"), map[string]any{
		"Action":     action,
		"Properties": map[string]any{"Locale": "en-US"},
		"Rows":       []map[string]any{row},
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("Row pushed to remote table",
		zap.String("table", table),
		zap.String("action", action),
	)
	return json.RawMessage(body), nil
}
