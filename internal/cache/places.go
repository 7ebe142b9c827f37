package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/i474232898/weather-journal/internal/weather"
)

// PlaceCache remembers successful place searches for a fixed TTL.
// Failures are never cached.
type PlaceCache struct {
	next  weather.PlaceSearcher
	items *gocache.Cache
}

func NewPlaceCache(next weather.PlaceSearcher, ttl time.Duration) *PlaceCache {
	return &PlaceCache{
		next:  next,
		items: gocache.New(ttl, 2*ttl),
	}
}

func (c *PlaceCache) SearchPlace(ctx context.Context, name string) (weather.Place, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if v, ok := c.items.Get(key); ok {
		return v.(weather.Place), nil
	}

	place, err := c.next.SearchPlace(ctx, name)
	if err != nil {
		return weather.Place{}, err
	}
	c.items.Set(key, place, gocache.DefaultExpiration)
	return place, nil
}

// Len is the number of cached places, expired ones included until cleanup.
func (c *PlaceCache) Len() int {
	return c.items.ItemCount()
}
