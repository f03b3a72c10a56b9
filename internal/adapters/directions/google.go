// Package directions plans routes through the Google Directions API.
package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/ports"
	"github.com/samirrijal/saferoute/internal/pkg/geospatial"
	"github.com/samirrijal/saferoute/internal/pkg/metrics"
)

// DefaultBaseURL is the public Directions API JSON endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/directions/json"

const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// Google implements ports.DirectionsProvider.
type Google struct {
	apiKey     string
	baseURL    string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
	cache      ports.CacheService
	cacheTTL   int
}

// Option configures a Google client.
type Option func(*Google)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Google) { g.client = c }
}

// WithBaseURL points the client at another endpoint (tests, proxies).
func WithBaseURL(u string) Option {
	return func(g *Google) { g.baseURL = u }
}

// WithRateLimit caps outgoing requests per second. Zero or less disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(g *Google) {
		if perSecond <= 0 {
			g.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithRetries sets how many times a 429 or 5xx response is retried.
func WithRetries(n int) Option {
	return func(g *Google) { g.maxRetries = n }
}

// WithCache caches decoded responses for ttlSeconds.
func WithCache(c ports.CacheService, ttlSeconds int) Option {
	return func(g *Google) {
		g.cache = c
		g.cacheTTL = ttlSeconds
	}
}

// NewGoogle creates a directions client for the given API key.
func NewGoogle(apiKey string, opts ...Option) *Google {
	g := &Google{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(10, 10),
		maxRetries: 2,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		Summary          string `json:"summary"`
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
	} `json:"routes"`
}

// Routes returns every alternative the API offers, in the API's order.
func (g *Google) Routes(ctx context.Context, req domain.TripRequest) ([]domain.Route, error) {
	mode, ok := domain.ParseTravelMode(string(req.Mode))
	if !ok {
		return nil, fmt.Errorf("%w: unsupported travel mode %q", domain.ErrInvalidInput, req.Mode)
	}
	req.Mode = mode

	key := cacheKey(req)
	if polylines, ok := g.fromCache(ctx, key); ok {
		return decodeAll(polylines)
	}

	polylines, err := g.fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	g.toCache(ctx, key, polylines)
	return decodeAll(polylines)
}

func (g *Google) fetch(ctx context.Context, req domain.TripRequest) ([]string, error) {
	q := url.Values{}
	q.Set("origin", formatPoint(req.Origin))
	q.Set("destination", formatPoint(req.Destination))
	q.Set("mode", string(req.Mode))
	q.Set("alternatives", "true")
	q.Set("key", g.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build directions request: %w", err)
	}

	start := time.Now()
	body, err := g.doWithRetry(ctx, httpReq)
	metrics.DirectionsLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DirectionsRequests.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrDirectionsUnavailable, err)
	}

	var resp directionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		metrics.DirectionsRequests.WithLabelValues("decode_error").Inc()
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrDirectionsUnavailable, err)
	}
	metrics.DirectionsRequests.WithLabelValues(resp.Status).Inc()

	switch resp.Status {
	case statusOK:
		out := make([]string, 0, len(resp.Routes))
		for _, r := range resp.Routes {
			out = append(out, r.OverviewPolyline.Points)
		}
		return out, nil
	case statusZeroResults:
		return []string{}, nil
	default:
		return nil, fmt.Errorf("%w: status %s: %s", domain.ErrDirectionsUnavailable, resp.Status, resp.ErrorMessage)
	}
}

func (g *Google) doWithRetry(ctx context.Context, req *http.Request) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}

		resp, err := g.client.Do(req.Clone(ctx))
		if err != nil {
			lastErr = err
		} else {
			body, readErr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = readErr
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
				lastErr = fmt.Errorf("http %d", resp.StatusCode)
			case resp.StatusCode != http.StatusOK:
				return nil, fmt.Errorf("http %d", resp.StatusCode)
			default:
				return body, nil
			}
		}

		if attempt < g.maxRetries {
			slog.Warn("directions request failed, retrying", "attempt", attempt+1, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt+1) * 200 * time.Millisecond):
			}
		}
	}
	return nil, lastErr
}

func (g *Google) fromCache(ctx context.Context, key string) ([]string, bool) {
	if g.cache == nil {
		return nil, false
	}
	data, err := g.cache.Get(ctx, key)
	if err != nil || data == nil {
		metrics.CacheMisses.WithLabelValues("directions").Inc()
		return nil, false
	}
	var polylines []string
	if err := json.Unmarshal(data, &polylines); err != nil {
		metrics.CacheMisses.WithLabelValues("directions").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("directions").Inc()
	return polylines, true
}

func (g *Google) toCache(ctx context.Context, key string, polylines []string) {
	if g.cache == nil || g.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(polylines)
	if err != nil {
		return
	}
	if err := g.cache.Set(ctx, key, data, g.cacheTTL); err != nil {
		slog.Warn("directions cache write failed", "key", key, "error", err)
	}
}

func decodeAll(polylines []string) ([]domain.Route, error) {
	routes := make([]domain.Route, 0, len(polylines))
	for i, p := range polylines {
		r, err := geospatial.DecodePolyline(p)
		if err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}
		if len(r) > 0 {
			routes = append(routes, r)
		}
	}
	return routes, nil
}

func formatPoint(p domain.GeoPoint) string {
	return strconv.FormatFloat(p.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lon, 'f', 6, 64)
}

func cacheKey(req domain.TripRequest) string {
	return "directions:" + string(req.Mode) + ":" + formatPoint(req.Origin) + ":" + formatPoint(req.Destination)
}
