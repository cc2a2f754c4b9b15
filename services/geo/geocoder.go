package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"servicehub/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Geocoder resolves a free-form address to a point. Failures of any kind
// are reported as no match.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.GeoPoint, bool)
}

// GoogleGeocoder calls the Google Geocoding API and caches hits in Redis.
type GoogleGeocoder struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Cache      *redis.Client
	CacheTTL   time.Duration
	Logger     *zap.Logger
}

func NewGoogleGeocoder(apiKey string, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *GoogleGeocoder {
	return &GoogleGeocoder{
		APIKey:     apiKey,
		BaseURL:    defaultGeocodeURL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
		Cache:      cache,
		CacheTTL:   ttl,
		Logger:     logger,
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func cacheKey(address string) string {
	return "geocode:" + strings.ToLower(strings.Join(strings.Fields(address), " "))
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (*models.GeoPoint, bool) {
	address = strings.TrimSpace(address)
	if address == "" || g.APIKey == "" {
		return nil, false
	}
	if p, ok := g.cached(ctx, address); ok {
		return p, true
	}

	p, err := g.lookup(ctx, address)
	if err != nil {
		g.Logger.Warn("Geocoding failed", zap.String("address", address), zap.Error(err))
		return nil, false
	}
	g.store(ctx, address, p)
	return p, true
}

func (g *GoogleGeocoder) lookup(ctx context.Context, address string) (*models.GeoPoint, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", g.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, stripURL(err)
	}
	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return nil, stripURL(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding returned HTTP %d", resp.StatusCode)
	}

	var data geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	if data.Status != "OK" || len(data.Results) == 0 {
		return nil, fmt.Errorf("no geocoding result (status %s)", data.Status)
	}
	loc := data.Results[0].Geometry.Location
	p := models.NewGeoPoint(loc.Lng, loc.Lat)
	if !p.Valid() {
		return nil, fmt.Errorf("geocoding returned invalid coordinates %v", p.Coordinates)
	}
	return p, nil
}

func (g *GoogleGeocoder) cached(ctx context.Context, address string) (*models.GeoPoint, bool) {
	if g.Cache == nil {
		return nil, false
	}
	raw, err := g.Cache.Get(ctx, cacheKey(address)).Bytes()
	if err != nil {
		if err != redis.Nil {
			g.Logger.Debug("Geocode cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var p models.GeoPoint
	if err := json.Unmarshal(raw, &p); err != nil || !p.Valid() {
		return nil, false
	}
	return &p, true
}

func (g *GoogleGeocoder) store(ctx context.Context, address string, p *models.GeoPoint) {
	if g.Cache == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := g.Cache.Set(ctx, cacheKey(address), raw, g.CacheTTL).Err(); err != nil {
		g.Logger.Debug("Geocode cache write failed", zap.Error(err))
	}
}

// stripURL drops the request URL, which carries the API key, from transport
// errors before they reach the logs.
func stripURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("geocoding request %s: %w", strings.ToLower(uerr.Op), uerr.Err)
	}
	return err
}
