package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *GoogleGeocoder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g := NewGoogleGeocoder("test-key", nil, 0, zap.NewNop())
	g.BaseURL = srv.URL
	return g
}

func TestGeocodeReturnsFirstResult(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "12 MG Road, Bengaluru", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":12.97,"lng":77.59}}}]}`))
	})

	p, ok := g.Geocode(context.Background(), "12 MG Road, Bengaluru")
	require.True(t, ok)
	assert.Equal(t, []float64{77.59, 12.97}, p.Coordinates)
	assert.Equal(t, "Point", p.Type)
}

func TestGeocodeFailuresAreNoMatch(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"zero results", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}},
		{"out of range", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":120,"lng":0}}}]}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGeocoder(t, tt.handler)
			p, ok := g.Geocode(context.Background(), "somewhere")
			assert.False(t, ok)
			assert.Nil(t, p)
		})
	}
}

func TestGeocodeWithoutKeyOrAddress(t *testing.T) {
	called := false
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, ok := g.Geocode(context.Background(), "   ")
	assert.False(t, ok)

	g.APIKey = ""
	_, ok = g.Geocode(context.Background(), "somewhere")
	assert.False(t, ok)
	assert.False(t, called)
}

func TestCacheKeyNormalizesAddress(t *testing.T) {
	assert.Equal(t, cacheKey("12  MG Road "), cacheKey("12 mg road"))
}

func TestGeocodeTransportErrorDoesNotLogKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closedURL := srv.URL
	srv.Close()

	core, logs := observer.New(zap.DebugLevel)
	g := NewGoogleGeocoder("SECRET-API-KEY", nil, 0, zap.New(core))
	g.BaseURL = closedURL

	_, ok := g.Geocode(context.Background(), "12 MG Road")
	require.False(t, ok)
	require.Equal(t, 1, logs.Len())

	entry := logs.All()[0]
	assert.Equal(t, "Geocoding failed", entry.Message)
	for _, v := range entry.ContextMap() {
		assert.NotContains(t, fmt.Sprint(v), "SECRET-API-KEY")
	}
}
