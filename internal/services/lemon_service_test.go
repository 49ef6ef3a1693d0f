package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lemonpay/internal/config"
	"github.com/example/lemonpay/internal/services"
)

const lemonProductsBody = `{
	"data": [
		{
			"id": "abc123",
			"attributes": {
				"name": "Pro Plan",
				"slug": "pro-plan",
				"price_formatted": "$19.99",
				"buy_now_url": "https://pay.example/abc123"
			}
		},
		{
			"id": "def456",
			"attributes": {
				"name": "Team Plan",
				"slug": "team-plan",
				"price_formatted": "$49.00",
				"buy_now_url": "https://pay.example/def456"
			}
		}
	]
}`

func newLemonTestClient(baseURL string) *services.LemonClient {
	return services.NewLemonClient(&config.Config{
		LemonAPIBaseURL: baseURL,
		LemonAPIKey:     "test-api-key",
		LemonStoreID:    "42",
		LemonTimeout:    time.Second,
	})
}

func TestLemonClient_Products(t *testing.T) {
	var gotAuth, gotStore string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotStore = r.URL.Query().Get("filter[store_id]")
		w.Header().Set("Content-Type", "application/vnd.api+json")
		_, _ = w.Write([]byte(lemonProductsBody))
	}))
	defer server.Close()

	products, err := newLemonTestClient(server.URL).Products(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-api-key", gotAuth)
	assert.Equal(t, "42", gotStore)

	require.Len(t, products, 2)
	assert.Equal(t, services.Product{
		ID:        "abc123",
		Name:      "Pro Plan",
		Slug:      "pro-plan",
		Price:     "$19.99",
		BuyNowURL: "https://pay.example/abc123",
	}, products[0])
	assert.Equal(t, "def456", products[1].ID)
}

func TestLemonClient_ProductsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newLemonTestClient(server.URL).Products(context.Background())
	assert.Error(t, err)
}

func TestLemonClient_ProductsMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := newLemonTestClient(server.URL).Products(context.Background())
	assert.Error(t, err)
}
