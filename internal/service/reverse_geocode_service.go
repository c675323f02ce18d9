package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"offline-geocoder/internal/metrics"
	"offline-geocoder/internal/models"
)

// DefaultAccuracy is used when a request does not state its accuracy.
const DefaultAccuracy = 1

var (
	ErrInvalidCoordinates = errors.New("service: invalid coordinates")
	ErrInvalidAccuracy    = errors.New("service: invalid accuracy")
)

// ReverseGeoCodeService validates reverse geocoding requests and runs them against the address table
type ReverseGeoCodeService struct {
	finder  NearestFinder
	metrics *metrics.Metrics
}

// NearestFinder interface for dependency injection
type NearestFinder interface {
	Reverse(loc models.UserLocation) (models.Address, bool)
}

// NewReverseGeoCodeService creates a new reverse geo code service. m may be nil.
func NewReverseGeoCodeService(finder NearestFinder, m *metrics.Metrics) *ReverseGeoCodeService {
	return &ReverseGeoCodeService{finder: finder, metrics: m}
}

// ReverseGeocode finds the nearest address to the given coordinates. It returns nil when no address is within range.
func (s *ReverseGeoCodeService) ReverseGeocode(ctx context.Context, lat, lon, accuracy float64) (*models.Address, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}

	if !finite(lat) || lat < -90 || lat > 90 {
		s.observe(metrics.ResultInvalid, start)
		return nil, fmt.Errorf("%w: latitude %f", ErrInvalidCoordinates, lat)
	}
	if !finite(lon) || lon < -180 || lon > 180 {
		s.observe(metrics.ResultInvalid, start)
		return nil, fmt.Errorf("%w: longitude %f", ErrInvalidCoordinates, lon)
	}
	if !finite(accuracy) || accuracy < 0 {
		s.observe(metrics.ResultInvalid, start)
		return nil, fmt.Errorf("%w: %f", ErrInvalidAccuracy, accuracy)
	}

	addr, found := s.finder.Reverse(models.UserLocation{
		Location: models.Location{
			Latitude:  float32(lat),
			Longitude: float32(lon),
		},
		Accuracy: float32(accuracy),
	})
	if !found {
		s.observe(metrics.ResultNotFound, start)
		return nil, nil
	}

	s.observe(metrics.ResultFound, start)
	return &addr, nil
}

func (s *ReverseGeoCodeService) observe(result string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveReverse(result, start)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
