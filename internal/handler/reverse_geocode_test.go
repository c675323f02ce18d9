package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"offline-geocoder/internal/models"
	"offline-geocoder/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/tidwall/gjson"
)

// MockReverseGeoCodeService is a mock implementation of the GeoCodingService interface
type MockReverseGeoCodeService struct {
	mock.Mock
}

func (m *MockReverseGeoCodeService) ReverseGeocode(ctx context.Context, lat, lon, accuracy float64) (*models.Address, error) {
	args := m.Called(ctx, lat, lon, accuracy)
	return args.Get(0).(*models.Address), args.Error(1)
}

var marunouchi = &models.Address{
	Location:     models.Location{Latitude: 35.5, Longitude: 139.75},
	Prefecture:   "東京都",
	Municipality: "千代田区",
	Town:         "丸の内一丁目",
}

func TestReverseGeoCodeHandler_ReverseGeocode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		query          string
		callsService   bool
		lat            float64
		lon            float64
		accuracy       float64
		mockAddress    *models.Address
		mockError      error
		expectedStatus int
		expectedBody   interface{}
	}{
		{
			name:           "missing query parameter",
			query:          "lat=35.5",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "missing required query parameters 'lat' and 'lon'"},
		},
		{
			name:           "invalid latitude",
			query:          "lat=north&lon=139.75",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "invalid latitude format"},
		},
		{
			name:           "invalid longitude",
			query:          "lat=35.5&lon=east",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "invalid longitude format"},
		},
		{
			name:           "invalid accuracy",
			query:          "lat=35.5&lon=139.75&accuracy=good",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "invalid accuracy format"},
		},
		{
			name:           "unsupported format",
			query:          "lat=35.5&lon=139.75&format=xml",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "unsupported format, expected 'json' or 'geojson'"},
		},
		{
			name:           "successful geocoding with results",
			query:          "lat=35.5&lon=139.75&accuracy=25",
			callsService:   true,
			lat:            35.5,
			lon:            139.75,
			accuracy:       25,
			mockAddress:    marunouchi,
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"prefecture":   "東京都",
				"municipality": "千代田区",
				"town":         "丸の内一丁目",
				"latitude":     35.5,
				"longitude":    139.75,
			},
		},
		{
			name:           "accuracy defaults to one meter",
			query:          "lat=35.5&lon=139.75",
			callsService:   true,
			lat:            35.5,
			lon:            139.75,
			accuracy:       1,
			mockAddress:    nil,
			expectedStatus: http.StatusNotFound,
			expectedBody:   map[string]interface{}{"error": "no address found near the specified coordinates"},
		},
		{
			name:           "out of range coordinates",
			query:          "lat=95&lon=139.75",
			callsService:   true,
			lat:            95,
			lon:            139.75,
			accuracy:       1,
			mockError:      fmt.Errorf("%w: latitude 95", service.ErrInvalidCoordinates),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "service: invalid coordinates: latitude 95"},
		},
		{
			name:           "service error",
			query:          "lat=35.5&lon=139.75",
			callsService:   true,
			lat:            35.5,
			lon:            139.75,
			accuracy:       1,
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   map[string]interface{}{"error": "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockReverseGeoCodeService)
			handler := NewReverseGeocodeHandler(mockSvc)

			if tt.callsService {
				mockSvc.On("ReverseGeocode", mock.Anything, tt.lat, tt.lon, tt.accuracy).Return(tt.mockAddress, tt.mockError)
			}

			// Create request
			req := httptest.NewRequest(http.MethodGet, "/reverse-geocode?"+tt.query, nil)
			w := httptest.NewRecorder()

			// Create Gin context
			c, _ := gin.CreateTestContext(w)
			c.Request = req

			// Execute
			handler.ReverseGeocode(c)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)

			var actualBody interface{}
			err := json.Unmarshal(w.Body.Bytes(), &actualBody)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, actualBody)

			mockSvc.AssertExpectations(t)
		})
	}
}

func TestReverseGeoCodeHandler_GeoJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockSvc := new(MockReverseGeoCodeService)
	mockSvc.On("ReverseGeocode", mock.Anything, 35.5, 139.75, 1.0).Return(marunouchi, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/reverse-geocode?lat=35.5&lon=139.75&format=geojson", nil)

	NewReverseGeocodeHandler(mockSvc).ReverseGeocode(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/geo+json", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Equal(t, "Feature", gjson.Get(body, "type").String())
	assert.Equal(t, "[139.75,35.5]", gjson.Get(body, "geometry.coordinates").Raw)
	assert.Equal(t, "丸の内一丁目", gjson.Get(body, "properties.town").String())
	mockSvc.AssertExpectations(t)
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/health", Health(3))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","addresses":3}`, w.Body.String())
}
