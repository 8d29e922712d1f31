package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/jgraziolaVU/Yeonni1MB/pkg/types/analysis"
)

// ParamOverride adjusts one fit parameter's initial value and bounds.
type ParamOverride struct {
	Value *float64 `json:"value,omitempty"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
}

// AnalyzeOptions tunes one analysis request. The zero value uses the
// server-side defaults.
type AnalyzeOptions struct {
	// Model selects the line-shape family: "lorentzian", "voigt" or
	// "pseudo_voigt".
	Model string

	// NSites fixes the site count; 0 lets the server estimate it.
	NSites int

	// Overrides adjusts individual fit parameters by name, e.g.
	// "peak1_center".
	Overrides map[string]ParamOverride
}

// Analyze uploads a spectrum file and returns the full analysis result.
// filename determines format detection on the server (.xlsx, .txt, .csv).
func (c *Client) Analyze(ctx context.Context, filename string, spectrum io.Reader, opts AnalyzeOptions) (*analysis.Result, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("client: build upload: %w", err)
	}
	if _, err := io.Copy(fw, spectrum); err != nil {
		return nil, fmt.Errorf("client: build upload: %w", err)
	}

	if opts.Model != "" {
		if err := w.WriteField("model_type", opts.Model); err != nil {
			return nil, fmt.Errorf("client: build upload: %w", err)
		}
	}
	if opts.NSites > 0 {
		if err := w.WriteField("n_sites", strconv.Itoa(opts.NSites)); err != nil {
			return nil, fmt.Errorf("client: build upload: %w", err)
		}
	}
	if len(opts.Overrides) > 0 {
		params, err := json.Marshal(opts.Overrides)
		if err != nil {
			return nil, fmt.Errorf("client: encode custom params: %w", err)
		}
		if err := w.WriteField("custom_params", string(params)); err != nil {
			return nil, fmt.Errorf("client: build upload: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("client: build upload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/analyze", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var result analysis.Result
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
