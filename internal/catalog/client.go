package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"shopwidget/internal/logger"
	"shopwidget/internal/models"
)

// Source is what the widget store consumes: the remote dealer and product
// catalog. Implemented by Client; tests substitute their own.
type Source interface {
	FetchDealers(ctx context.Context) ([]models.Dealer, error)
	FetchProducts(ctx context.Context, dealerScope []string) ([]models.Product, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient builds a catalog client for the given API base URL. The HTTP
// client carries no timeout: a hung request keeps the widget's loading flag
// up, and callers bound requests through the context if they need to.
func NewClient(baseURL string, logger *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// FetchDealers fetches the dealer list. The response is decoded as-is, with
// no validation of individual records.
func (c *Client) FetchDealers(ctx context.Context) ([]models.Dealer, error) {
	url := c.baseURL + "/dealers/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))
	}

	var dealers []models.Dealer
	if err := json.NewDecoder(resp.Body).Decode(&dealers); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return dealers, nil
}

// FetchProducts fetches the product list. A non-empty dealerScope restricts
// results server-side via a comma-joined dealers query parameter.
func (c *Client) FetchProducts(ctx context.Context, dealerScope []string) ([]models.Product, error) {
	url := c.baseURL + "/goods/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if len(dealerScope) > 0 {
		q := req.URL.Query()
		q.Set("dealers", strings.Join(dealerScope, ","))
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))
	}

	var products []models.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return products, nil
}
