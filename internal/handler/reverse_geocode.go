package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"offline-geocoder/internal/feature"
	"offline-geocoder/internal/models"
	"offline-geocoder/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ReverseGeocodeHandler handles reverse geocoding requests
type ReverseGeocodeHandler struct {
	service GeoCodingService
}

// Service interface for dependency injection
type GeoCodingService interface {
	ReverseGeocode(ctx context.Context, lat, lon, accuracy float64) (*models.Address, error)
}

// NewReverseGeocodeHandler creates a new reverse geocode handler
func NewReverseGeocodeHandler(svc GeoCodingService) *ReverseGeocodeHandler {
	return &ReverseGeocodeHandler{service: svc}
}

// ReverseGeocode handles GET /reverse-geocode requests
func (h *ReverseGeocodeHandler) ReverseGeocode(c *gin.Context) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'lat' and 'lon'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
		return
	}

	accuracy := float64(service.DefaultAccuracy)
	if accStr := c.Query("accuracy"); accStr != "" {
		accuracy, err = strconv.ParseFloat(accStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid accuracy format"})
			return
		}
	}

	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "geojson" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format, expected 'json' or 'geojson'"})
		return
	}

	addr, err := h.service.ReverseGeocode(c.Request.Context(), lat, lon, accuracy)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCoordinates) || errors.Is(err, service.ErrInvalidAccuracy) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("reverse geocode failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if addr == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no address found near the specified coordinates"})
		return
	}

	if format == "geojson" {
		f, err := feature.New(*addr)
		if err != nil {
			log.Error().Err(err).Msg("failed to render feature")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.Data(http.StatusOK, "application/geo+json", []byte(f.JSON()))
		return
	}

	c.JSON(http.StatusOK, addr)
}

// Health handles GET /health requests
func Health(addresses int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"addresses": addresses,
		})
	}
}
