package models

import (
	"math"

	"github.com/golang/geo/s1"
)

// EarthRadius is the sphere radius, in meters, used for great-circle distances.
const EarthRadius = 6371.01e3

// Location is a point in decimal degrees.
type Location struct {
	Latitude  float32 `json:"latitude"`
	Longitude float32 `json:"longitude"`
}

// Distance returns the haversine distance to other in meters. Coordinates
// outside the valid ranges are not rejected and may yield NaN.
func (l Location) Distance(other Location) float32 {
	lat1 := radians(l.Latitude)
	lon1 := radians(l.Longitude)
	lat2 := radians(other.Latitude)
	lon2 := radians(other.Longitude)

	sinDLat := math.Sin((lat2 - lat1) / 2)
	sinDLon := math.Sin((lon2 - lon1) / 2)

	a := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return float32(EarthRadius * c)
}

func radians(deg float32) float64 {
	return (s1.Angle(deg) * s1.Degree).Radians()
}

// UserLocation is a measured position with its accuracy radius in meters.
type UserLocation struct {
	Location
	Accuracy float32 `json:"accuracy"`
}

// Address represents a single addressable point in the Japanese address table: its prefecture, municipality and town names and its representative coordinates.
type Address struct {
	Location
	Prefecture   string `json:"prefecture"`
	Municipality string `json:"municipality"`
	Town         string `json:"town"`
}

// FullName joins the administrative names the way they are written in Japanese.
func (a Address) FullName() string {
	return a.Prefecture + a.Municipality + a.Town
}
