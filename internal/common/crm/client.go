package crm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	commonhttp "site-functions/internal/common/http"
)

// leadResource is the Frappe DocType for CRM leads.
const leadResource = "CRM Lead"

// Client talks to the Frappe CRM REST API.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *commonhttp.Client
}

// Lead is the subset of CRM Lead fields set from the website.
type Lead struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Source    string `json:"source"`
	Status    string `json:"status"`
}

type createLeadResponse struct {
	Data struct {
		Name string `json:"name"`
	} `json:"data"`
	ExcType   string `json:"exc_type"`
	Exception string `json:"exception"`
}

func NewClient(baseURL, apiKey, apiSecret string, httpClient *commonhttp.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		httpClient: httpClient,
	}
}

// NewWebsiteLead returns a new lead attributed to the website form.
func NewWebsiteLead(name, email string) *Lead {
	return &Lead{
		FirstName: name,
		Email:     email,
		Source:    "Website",
		Status:    "New",
	}
}

// CreateLead inserts lead and returns the document name assigned by the CRM.
// A response carrying exc_type is a failure whatever its status.
func (c *Client) CreateLead(ctx context.Context, lead *Lead) (string, error) {
	endpoint := fmt.Sprintf("%s/api/resource/%s", c.baseURL, url.PathEscape(leadResource))

	resp, err := c.httpClient.PostJSON(ctx, endpoint, map[string]string{
		"Authorization": fmt.Sprintf("token %s:%s", c.apiKey, c.apiSecret),
		"Accept":        "application/json",
	}, lead)
	if err != nil {
		return "", fmt.Errorf("failed to create lead: %w", err)
	}

	var created createLeadResponse
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		if !resp.OK() {
			return "", fmt.Errorf("failed to create lead (status %d): %s", resp.StatusCode, string(resp.Body))
		}
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if created.ExcType != "" {
		if created.Exception != "" {
			return "", errors.New(created.Exception)
		}
		return "", errors.New(created.ExcType)
	}

	if !resp.OK() {
		return "", fmt.Errorf("failed to create lead (status %d): %s", resp.StatusCode, string(resp.Body))
	}

	return created.Data.Name, nil
}
