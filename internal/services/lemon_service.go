package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/lemonpay/internal/config"
)

// Product is one entry of the Lemon Squeezy product catalog, reduced to the
// fields the backend cares about.
type Product struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Price     string `json:"price"`
	BuyNowURL string `json:"by_now_url"`
}

// ProductCatalog fetches the current product list from the payment provider.
type ProductCatalog interface {
	Products(ctx context.Context) ([]Product, error)
}

// LemonClient talks to the Lemon Squeezy API.
type LemonClient struct {
	baseURL string
	apiKey  string
	storeID string
	client  *http.Client
}

// NewLemonClient constructs a LemonClient from configuration.
func NewLemonClient(cfg *config.Config) *LemonClient {
	timeout := cfg.LemonTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &LemonClient{
		baseURL: strings.TrimRight(cfg.LemonAPIBaseURL, "/"),
		apiKey:  cfg.LemonAPIKey,
		storeID: cfg.LemonStoreID,
		client:  &http.Client{Timeout: timeout},
	}
}

type lemonProductsResponse struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			Name           string `json:"name"`
			Slug           string `json:"slug"`
			PriceFormatted string `json:"price_formatted"`
			BuyNowURL      string `json:"buy_now_url"`
		} `json:"attributes"`
	} `json:"data"`
}

// Products fetches the store's product list.
func (c *LemonClient) Products(ctx context.Context) ([]Product, error) {
	endpoint := c.baseURL + "/products"
	if c.storeID != "" {
		values := url.Values{}
		values.Set("filter[store_id]", c.storeID)
		endpoint += "?" + values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create products request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.api+json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute products request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read products response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("products request failed: status %d", resp.StatusCode)
	}

	var parsed lemonProductsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal products response: %w", err)
	}

	products := make([]Product, 0, len(parsed.Data))
	for _, item := range parsed.Data {
		products = append(products, Product{
			ID:        item.ID,
			Name:      item.Attributes.Name,
			Slug:      item.Attributes.Slug,
			Price:     item.Attributes.PriceFormatted,
			BuyNowURL: item.Attributes.BuyNowURL,
		})
	}

	return products, nil
}
