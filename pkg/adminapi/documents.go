package adminapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// CollectionStats returns metadata about the backing vector collection.
func (c *Client) CollectionStats(ctx context.Context) (*CollectionInfo, error) {
	var info CollectionInfo
	if err := c.do(ctx, http.MethodGet, "/api/upload/stats", nil, nil, &info); err != nil {
		return nil, fmt.Errorf("fetching collection stats: %w", err)
	}
	return &info, nil
}

// ListDocuments returns up to limit documents from the vector store. A
// non-positive limit falls back to the backend default page size.
func (c *Client) ListDocuments(ctx context.Context, limit uint) (*DocumentList, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.FormatUint(uint64(limit), 10))
	}

	var list DocumentList
	if err := c.do(ctx, http.MethodGet, "/api/upload/documents", query, nil, &list); err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return &list, nil
}

// GetDocument returns one document, payload included.
func (c *Client) GetDocument(ctx context.Context, id string) (*Document, error) {
	var doc Document
	path := "/api/upload/documents/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &doc); err != nil {
		return nil, fmt.Errorf("fetching document %s: %w", id, err)
	}
	return &doc, nil
}

// DeleteDocument removes a document point from the collection.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	path := "/api/upload/documents/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	return nil
}
