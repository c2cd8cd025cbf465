package eta

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/piresc/busfleet/internal/pkg/logger"
	"github.com/piresc/busfleet/internal/pkg/models"
	"googlemaps.github.io/maps"
)

// directionsClient is the part of maps.Client the estimator calls
type directionsClient interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

const defaultDirectionsTimeout = 2 * time.Second

// GoogleMaps asks the Directions API for a driving route and falls back to
// another estimator when the API fails or does not answer within timeout
type GoogleMaps struct {
	client   directionsClient
	fallback Estimator
	timeout  time.Duration
}

// NewGoogleMaps creates an estimator backed by the Google Maps Directions API.
// Every lookup is bounded by timeout.
func NewGoogleMaps(apiKey string, timeout time.Duration, fallback Estimator) (*GoogleMaps, error) {
	if timeout <= 0 {
		timeout = defaultDirectionsTimeout
	}
	client, err := maps.NewClient(
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleMaps{client: client, fallback: fallback, timeout: timeout}, nil
}

func (g *GoogleMaps) Estimate(ctx context.Context, from, to models.Position, speedKph float64) (Estimate, error) {
	est, err := g.directions(ctx, from, to)
	if err == nil {
		return est, nil
	}
	if g.fallback == nil {
		return Estimate{}, err
	}
	logger.WarnCtx(ctx, "Directions lookup failed, using fallback estimator", logger.Err(err))
	return g.fallback.Estimate(ctx, from, to, speedKph)
}

func (g *GoogleMaps) directions(ctx context.Context, from, to models.Position) (Estimate, error) {
	timeout := g.timeout
	if timeout <= 0 {
		timeout = defaultDirectionsTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	routes, _, err := g.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      latLng(from),
		Destination: latLng(to),
		Mode:        maps.TravelModeDriving,
	})
	if err != nil {
		return Estimate{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Estimate{}, fmt.Errorf("no route found")
	}

	leg := routes[0].Legs[0]
	return Estimate{
		DistanceKm: float64(leg.Distance.Meters) / 1000,
		ETA:        leg.Duration,
	}, nil
}

func latLng(p models.Position) string {
	return fmt.Sprintf("%f,%f", p.Latitude, p.Longitude)
}
