package adminapi

import (
	"context"
	"fmt"
	"net/http"
)

// ListQueryLogs returns logs matching the given filters, newest first,
// capped at the filter limit.
func (c *Client) ListQueryLogs(ctx context.Context, filters QueryLogFilters) (*QueryLogList, error) {
	var list QueryLogList
	if err := c.do(ctx, http.MethodGet, "/api/query-logs/", filters.Values(), nil, &list); err != nil {
		return nil, fmt.Errorf("listing query logs: %w", err)
	}
	return &list, nil
}

// QueryLogStats returns the aggregate summary across all logs, independent
// of any list filters.
func (c *Client) QueryLogStats(ctx context.Context) (*QueryLogStats, error) {
	var stats QueryLogStats
	if err := c.do(ctx, http.MethodGet, "/api/query-logs/stats/summary", nil, nil, &stats); err != nil {
		return nil, fmt.Errorf("fetching query log stats: %w", err)
	}
	return &stats, nil
}

// ConvertToFewShot promotes a query log into a few-shot example. The backend
// refuses logs that are already converted (400), which surfaces as an
// *APIError with its message.
func (c *Client) ConvertToFewShot(ctx context.Context, req ConvertRequest) (*ConvertResult, error) {
	var result ConvertResult
	if err := c.do(ctx, http.MethodPost, "/api/query-logs/convert-to-fewshot", nil, req, &result); err != nil {
		return nil, fmt.Errorf("converting query log %d: %w", req.QueryLogID, err)
	}
	return &result, nil
}

// DeleteQueryLog removes a query log. Converted logs are protected by the
// backend until their few-shot is deleted first.
func (c *Client) DeleteQueryLog(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/query-logs/%d", id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("deleting query log %d: %w", id, err)
	}
	return nil
}
