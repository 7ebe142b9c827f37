package weather

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var coordsPattern = regexp.MustCompile(`^(-?\d+(\.\d+)?)\s*,\s*(-?\d+(\.\d+)?)$`)

// ParseCoordinates recognises a literal "lat,lon" string with both values in range.
func ParseCoordinates(q string) (lat, lon float64, ok bool) {
	m := coordsPattern.FindStringSubmatch(strings.TrimSpace(q))
	if m == nil {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(m[1], 64)
	lon, err2 := strconv.ParseFloat(m[3], 64)
	if err1 != nil || err2 != nil || math.Abs(lat) > 90 || math.Abs(lon) > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}

// Geocoder turns user input into a Place. Coordinates never touch the network.
type Geocoder struct {
	searcher PlaceSearcher
}

func NewGeocoder(searcher PlaceSearcher) *Geocoder {
	return &Geocoder{searcher: searcher}
}

func (g *Geocoder) Geocode(ctx context.Context, query string) (Place, error) {
	if lat, lon, ok := ParseCoordinates(query); ok {
		return Place{
			Name: fmt.Sprintf("%.3f, %.3f", lat, lon),
			Lat:  lat,
			Lon:  lon,
		}, nil
	}
	return g.searcher.SearchPlace(ctx, query)
}
