package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jgraziolaVU/Yeonni1MB/pkg/types/analysis"
)

// GetReport fetches a previously persisted analysis result by ID.
func (c *Client) GetReport(ctx context.Context, id string) (*analysis.Result, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/reports/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var result analysis.Result
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteReport removes a persisted report. Deleting a missing report is not
// an error.
func (c *Client) DeleteReport(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/v1/reports/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
