// Package geolonia reads the Geolonia Japanese address table
// (https://geolonia.github.io/japanese-addresses/).
package geolonia

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"offline-geocoder/internal/csvfield"
	"offline-geocoder/internal/models"
)

// Record-shape failures returned by ParseAddress.
var (
	ErrLackingField       = errors.New("geolonia: missing field")
	ErrTooManyFields      = errors.New("geolonia: too many fields")
	ErrInvalidFieldFormat = errors.New("geolonia: invalid field format")
	ErrInvalidFloat       = errors.New("geolonia: invalid coordinate")
)

// Column order of a record.
const (
	colPrefCode = iota
	colPrefName
	colPrefKana
	colPrefRoma
	colMuniCode
	colMuniName
	colMuniKana
	colMuniRoma
	colTownCode
	colTownName
	colLatitude
	colLongitude

	numColumns
)

var columnNames = [numColumns]string{
	"prefecture code",
	"prefecture name",
	"prefecture kana",
	"prefecture romaji",
	"municipality code",
	"municipality name",
	"municipality kana",
	"municipality romaji",
	"town code",
	"town name",
	"latitude",
	"longitude",
}

// ParseAddress converts one data line of the table into an Address. The
// first failing column decides the error.
func ParseAddress(line string) (models.Address, error) {
	var (
		addr   models.Address
		parser = csvfield.NewParser(line)
	)

	for col := 0; col < numColumns; col++ {
		field, err := parser.Next()
		if err == io.EOF {
			return models.Address{}, fmt.Errorf("%w: %s", ErrLackingField, columnNames[col])
		}
		if err != nil {
			return models.Address{}, fmt.Errorf("%w: %s: %w", ErrInvalidFieldFormat, columnNames[col], err)
		}

		switch col {
		case colPrefName:
			addr.Prefecture = field
		case colMuniName:
			addr.Municipality = field
		case colTownName:
			addr.Town = field
		case colLatitude:
			if addr.Latitude, err = parseCoordinate(field); err != nil {
				return models.Address{}, fmt.Errorf("%w: %s %q", ErrInvalidFloat, columnNames[col], field)
			}
		case colLongitude:
			if addr.Longitude, err = parseCoordinate(field); err != nil {
				return models.Address{}, fmt.Errorf("%w: %s %q", ErrInvalidFloat, columnNames[col], field)
			}
		}
	}

	if _, err := parser.Next(); err != io.EOF {
		return models.Address{}, ErrTooManyFields
	}

	return addr, nil
}

func parseCoordinate(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}

// Reason returns a short label for the kind of failure in err.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrLackingField):
		return "lacking_field"
	case errors.Is(err, ErrTooManyFields):
		return "too_many_fields"
	case errors.Is(err, ErrInvalidFieldFormat):
		return "invalid_field_format"
	case errors.Is(err, ErrInvalidFloat):
		return "invalid_float"
	default:
		return "unknown"
	}
}
