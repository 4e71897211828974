package recalc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/carboncart/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	client := NewClient(ClientConfig{BaseURL: baseURL, RequestsPerSec: 1000, Burst: 100})
	client.backoff = func(int) time.Duration { return time.Millisecond }
	return client
}

func TestNewClient(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "http://localhost:5000/"})

	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:5000", client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.NotNil(t, client.rateLimiter)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
		})
	}
}

func TestRecalculate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/recalculate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req domain.RecalcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "560001", req.Pincode)
		require.Len(t, req.Items, 1)
		assert.Equal(t, "Organic Tomatoes", req.Items[0].Name)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(domain.RecalcResponse{
			Success:     true,
			UserPincode: req.Pincode,
			Results: []domain.RecalcResult{
				{Name: "Organic Tomatoes", DistanceKm: domain.Float(12.4), CarbonFootprint: domain.Float(1.74)},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Recalculate(context.Background(), "560001", []domain.CartItem{{Name: "Organic Tomatoes"}})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "560001", resp.UserPincode)
	require.Len(t, resp.Results, 1)
	assert.InDelta(t, 12.4, *resp.Results[0].DistanceKm, 1e-9)
	assert.InDelta(t, 1.74, *resp.Results[0].CarbonFootprint, 1e-9)
}

func TestRecalculate_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(domain.RecalcResponse{Success: true, Results: []domain.RecalcResult{}})
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Recalculate(context.Background(), "560001", nil)

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRecalculate_Errors(t *testing.T) {
	tests := []struct {
		name          string
		handler       http.HandlerFunc
		expectedCalls int32
	}{
		{
			name: "server error exhausts retries",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectedCalls: 3,
		},
		{
			name: "client error is not retried",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			},
			expectedCalls: 1,
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
			expectedCalls: 1,
		},
		{
			name: "success flag false",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"success":false,"results":[]}`))
			},
			expectedCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				tt.handler(w, r)
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Recalculate(context.Background(), "560001", nil)

			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrRecalcUnavailable))
			assert.Equal(t, tt.expectedCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestRecalculate_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).Recalculate(ctx, "560001", nil)
	assert.Error(t, err)
}
