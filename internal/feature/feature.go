// Package feature renders addresses as GeoJSON.
package feature

import (
	"fmt"
	"strconv"

	"offline-geocoder/internal/models"

	"github.com/tidwall/geojson"
	"github.com/tidwall/geojson/geometry"
	"github.com/tidwall/sjson"
)

// New returns addr as a GeoJSON Point feature. The administrative names are
// stored under "properties". Extra key/value pairs, such as a distance, are
// added to the properties as given.
func New(addr models.Address, extra ...any) (*geojson.Feature, error) {
	if len(extra)%2 != 0 {
		return nil, fmt.Errorf("feature: odd number of extra properties")
	}

	members := `{"properties":{}}`
	props := []any{
		"prefecture", addr.Prefecture,
		"municipality", addr.Municipality,
		"town", addr.Town,
	}
	props = append(props, extra...)

	var err error
	for i := 0; i < len(props); i += 2 {
		key, ok := props[i].(string)
		if !ok {
			return nil, fmt.Errorf("feature: property key %v is not a string", props[i])
		}
		members, err = sjson.Set(members, "properties."+key, props[i+1])
		if err != nil {
			return nil, fmt.Errorf("feature: failed to set property %s: %w", key, err)
		}
	}

	point := geojson.NewPoint(geometry.Point{
		X: decimal(addr.Longitude),
		Y: decimal(addr.Latitude),
	})
	return geojson.NewFeature(point, members), nil
}

// Render returns addr as GeoJSON text.
func Render(addr models.Address) (string, error) {
	f, err := New(addr)
	if err != nil {
		return "", err
	}
	return f.JSON(), nil
}

// decimal widens v keeping its shortest decimal form, so 43.04223 does not
// print as 43.04222869873047.
func decimal(v float32) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(float64(v), 'f', -1, 32), 64)
	return f
}
