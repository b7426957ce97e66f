package adminapi

import (
	"context"
	"fmt"
	"net/http"
)

// ListIntents returns every intent mapping. The backend returns the full set
// unpaginated.
func (c *Client) ListIntents(ctx context.Context) ([]Intent, error) {
	var intents []Intent
	if err := c.do(ctx, http.MethodGet, "/api/intent/", nil, nil, &intents); err != nil {
		return nil, fmt.Errorf("listing intents: %w", err)
	}
	return intents, nil
}

// CreateIntent creates a new intent mapping and returns the stored record
// with its server-assigned id.
func (c *Client) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	var intent Intent
	if err := c.do(ctx, http.MethodPost, "/api/intent/", nil, req, &intent); err != nil {
		return nil, fmt.Errorf("creating intent: %w", err)
	}
	return &intent, nil
}

// UpdateIntent replaces the mapping fields of an existing intent.
func (c *Client) UpdateIntent(ctx context.Context, id int64, req IntentRequest) (*Intent, error) {
	var intent Intent
	path := fmt.Sprintf("/api/intent/%d", id)
	if err := c.do(ctx, http.MethodPut, path, nil, req, &intent); err != nil {
		return nil, fmt.Errorf("updating intent %d: %w", id, err)
	}
	return &intent, nil
}

// DeleteIntent removes an intent mapping.
func (c *Client) DeleteIntent(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/intent/%d", id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("deleting intent %d: %w", id, err)
	}
	return nil
}
