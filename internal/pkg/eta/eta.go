// Package eta estimates distance and travel time between a vehicle and a stop.
package eta

import (
	"context"
	"time"

	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/internal/utils"
)

// maxETA stands for "never arrives"; crawling speeds saturate to it
const maxETA = time.Duration(1<<63 - 1)

// Estimate is a distance and travel time pair
type Estimate struct {
	DistanceKm float64
	ETA        time.Duration
}

// Minutes returns the ETA in fractional minutes
func (e Estimate) Minutes() float64 {
	return e.ETA.Minutes()
}

// Estimator computes an Estimate for a vehicle moving at speedKph
type Estimator interface {
	Estimate(ctx context.Context, from, to models.Position, speedKph float64) (Estimate, error)
}

// StraightLine uses great-circle distance at the vehicle's current speed
type StraightLine struct {
	// MinSpeedKph is used when the vehicle reports a lower speed
	MinSpeedKph float64
}

// NewStraightLine creates the default estimator
func NewStraightLine(minSpeedKph float64) *StraightLine {
	return &StraightLine{MinSpeedKph: minSpeedKph}
}

func (s *StraightLine) Estimate(ctx context.Context, from, to models.Position, speedKph float64) (Estimate, error) {
	distance := utils.DistanceKm(from, to)
	if speedKph < s.MinSpeedKph {
		speedKph = s.MinSpeedKph
	}
	if speedKph <= 0 {
		return Estimate{DistanceKm: distance, ETA: maxETA}, nil
	}
	nanos := distance / speedKph * float64(time.Hour)
	if nanos >= float64(maxETA) {
		return Estimate{DistanceKm: distance, ETA: maxETA}, nil
	}
	return Estimate{
		DistanceKm: distance,
		ETA:        time.Duration(nanos),
	}, nil
}
