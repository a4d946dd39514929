package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/phrazzld/bmi-api/internal/api/shared"
)

var errNoToken = errors.New("a bearer token is required: pass --token or set BMI_TOKEN")

// apiClient performs authenticated GETs against the BMI API.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(opts *rootOptions) (*apiClient, error) {
	if opts.token == "" {
		return nil, errNoToken
	}
	return &apiClient{
		baseURL: strings.TrimRight(opts.server, "/"),
		token:   opts.token,
		http:    &http.Client{Timeout: requestTimeout},
	}, nil
}

func (c *apiClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr shared.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			return fmt.Errorf("GET %s: %s", path, resp.Status)
		}
		return fmt.Errorf("GET %s: %s: %s", path, resp.Status, apiErr.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
