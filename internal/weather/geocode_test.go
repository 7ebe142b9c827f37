package weather

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSearcher struct {
	calls int
	place Place
	err   error
}

func (c *countingSearcher) SearchPlace(_ context.Context, _ string) (Place, error) {
	c.calls++
	return c.place, c.err
}

func TestGeocodeCoordinatesSkipNetwork(t *testing.T) {
	searcher := &countingSearcher{}
	g := NewGeocoder(searcher)

	tests := []struct {
		in       string
		wantName string
		lat, lon float64
	}{
		{"48.85,2.35", "48.850, 2.350", 48.85, 2.35},
		{" -33.8688 , 151.2093 ", "-33.869, 151.209", -33.8688, 151.2093},
		{"90,-180", "90.000, -180.000", 90, -180},
		{"0,0", "0.000, 0.000", 0, 0},
	}
	for _, tt := range tests {
		p, err := g.Geocode(context.Background(), tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.wantName, p.Name)
		assert.InDelta(t, tt.lat, p.Lat, 1e-9)
		assert.InDelta(t, tt.lon, p.Lon, 1e-9)
	}
	assert.Equal(t, 0, searcher.calls)
}

func TestGeocodeFallsBackToSearch(t *testing.T) {
	searcher := &countingSearcher{place: Place{Name: "Paris, Ile-de-France, FR", Lat: 48.85, Lon: 2.35}}
	g := NewGeocoder(searcher)

	for _, q := range []string{"Paris", "91,10", "10,181", "1.,2", "48.85;2.35"} {
		_, err := g.Geocode(context.Background(), q)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, searcher.calls)
}

func TestGeocodePropagatesNotFound(t *testing.T) {
	g := NewGeocoder(&countingSearcher{err: ErrPlaceNotFound})
	_, err := g.Geocode(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrPlaceNotFound)
}
