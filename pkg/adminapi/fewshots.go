package adminapi

import (
	"context"
	"fmt"
	"net/http"
)

// ListFewShots returns examples matching the given filters, newest first.
func (c *Client) ListFewShots(ctx context.Context, filters FewShotFilters) ([]FewShot, error) {
	var fewShots []FewShot
	if err := c.do(ctx, http.MethodGet, "/api/fewshot/", filters.Values(), nil, &fewShots); err != nil {
		return nil, fmt.Errorf("listing few-shots: %w", err)
	}
	return fewShots, nil
}

// UpdateFewShot applies a partial update. Callers toggling the active flag
// pass only IsActive so the request body is exactly the inverted boolean.
func (c *Client) UpdateFewShot(ctx context.Context, id int64, update FewShotUpdate) (*FewShot, error) {
	var fewShot FewShot
	path := fmt.Sprintf("/api/fewshot/%d", id)
	if err := c.do(ctx, http.MethodPut, path, nil, update, &fewShot); err != nil {
		return nil, fmt.Errorf("updating few-shot %d: %w", id, err)
	}
	return &fewShot, nil
}

// DeleteFewShot removes an example. The backend also clears the conversion
// flag on the originating query log, so callers must refetch both lists.
func (c *Client) DeleteFewShot(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/fewshot/%d", id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("deleting few-shot %d: %w", id, err)
	}
	return nil
}

// ListFewShotAudits returns the append-only audit trail, optionally scoped
// to a single few-shot id.
func (c *Client) ListFewShotAudits(ctx context.Context, fewShotID *int64) ([]FewShotAudit, error) {
	path := "/api/fewshot/audit/"
	if fewShotID != nil {
		path = fmt.Sprintf("/api/fewshot/audit/%d", *fewShotID)
	}

	var audits []FewShotAudit
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &audits); err != nil {
		return nil, fmt.Errorf("listing few-shot audits: %w", err)
	}
	return audits, nil
}
