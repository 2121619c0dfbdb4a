package pdf

import (
	"context"
	"fmt"
	"strings"

	commonhttp "site-functions/internal/common/http"
)

// StatusError is returned when the rendering API answers with a non-2xx
// status. Its message is "<status text> - <response body>".
type StatusError struct {
	StatusCode int
	StatusText string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s - %s", e.StatusText, e.Body)
}

// CloudflareRenderer calls the Cloudflare Browser Rendering PDF endpoint.
// Requests are not retried.
type CloudflareRenderer struct {
	endpoint   string
	apiToken   string
	httpClient *commonhttp.Client
}

func NewCloudflareRenderer(baseURL, accountID, apiToken string, httpClient *commonhttp.Client) *CloudflareRenderer {
	return &CloudflareRenderer{
		endpoint:   fmt.Sprintf("%s/accounts/%s/browser-rendering/pdf", strings.TrimRight(baseURL, "/"), accountID),
		apiToken:   apiToken,
		httpClient: httpClient,
	}
}

type renderRequest struct {
	HTML string `json:"html"`
}

func (r *CloudflareRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	if html == "" {
		return nil, ErrEmptyDocument
	}

	resp, err := r.httpClient.PostJSON(ctx, r.endpoint, map[string]string{
		"Authorization": "Bearer " + r.apiToken,
	}, renderRequest{HTML: html})
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			StatusText: resp.StatusText(),
			Body:       string(resp.Body),
		}
	}
	if len(resp.Body) == 0 {
		return nil, ErrEmptyPDF
	}

	return resp.Body, nil
}
