package discount

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:        baseURL,
		ConnectTimeout: 2 * time.Second,
		ReadTimeout:    2 * time.Second,
	}
}

func sampleRequest() Request {
	return Request{
		Items: []Item{
			{
				Product:  ProductRef{UPC: "SKU1", Name: "Widget", Price: 10.00},
				Quantity: 2,
			},
		},
	}
}

func TestCalculate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/discount", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Items, 1)
		assert.Equal(t, "SKU1", req.Items[0].Product.UPC)
		assert.Equal(t, int64(2), req.Items[0].Quantity)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Response{
			OriginalTotal:    20.00,
			DiscountAmount:   2.00,
			FinalTotal:       18.00,
			AppliedDiscounts: []string{"10% off widgets"},
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	resp, err := client.Calculate(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, 2.00, resp.DiscountAmount)
	assert.Equal(t, 18.00, resp.FinalTotal)
	assert.Equal(t, []string{"10% off widgets"}, resp.AppliedDiscounts)
}

func TestCalculate_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	resp, err := client.Calculate(context.Background(), sampleRequest())
	assert.Nil(t, resp)
	assert.ErrorContains(t, err, "status 500")
}

func TestCalculate_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{not json"))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	resp, err := client.Calculate(context.Background(), sampleRequest())
	assert.Nil(t, resp)
	assert.ErrorContains(t, err, "failed to parse discount response")
}

func TestCalculate_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	client := NewClient(testConfig(server.URL))
	resp, err := client.Calculate(context.Background(), sampleRequest())
	assert.Nil(t, resp)
	assert.ErrorContains(t, err, "failed to call discount engine")
}
