// Package geo converts transfer route geometries between the GeoJSON the API
// speaks and the WKB stored in the database.
package geo

import (
	"encoding/binary"
	"fmt"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// LineStringToWKB parses a GeoJSON LineString and returns little-endian WKB.
// An empty string yields nil.
func LineStringToWKB(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	if err := gjson.Unmarshal([]byte(raw), &g); err != nil {
		return nil, err
	}
	ls, ok := g.(*geom.LineString)
	if !ok {
		return nil, fmt.Errorf("expected a LineString, got %T", g)
	}
	if ls.NumCoords() < 2 {
		return nil, fmt.Errorf("a route needs at least two points")
	}
	return wkb.Marshal(ls, binary.LittleEndian)
}

// WKBToGeoJSON converts stored WKB back into a GeoJSON string.
func WKBToGeoJSON(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return "", err
	}
	out, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// LengthKm returns the great-circle length of a stored route in kilometres.
func LengthKm(b []byte) (float64, error) {
	if len(b) == 0 {
		return 0, nil
	}
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return 0, err
	}
	ls, ok := g.(*geom.LineString)
	if !ok {
		return 0, fmt.Errorf("expected a LineString, got %T", g)
	}
	var total float64
	for i := 1; i < ls.NumCoords(); i++ {
		a, c := ls.Coord(i-1), ls.Coord(i)
		total += haversineKm(a.Y(), a.X(), c.Y(), c.X())
	}
	return total, nil
}
