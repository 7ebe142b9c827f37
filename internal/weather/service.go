package weather

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Service answers current-weather lookups: geocode, then current+forecast, then daily cards.
type Service struct {
	geocoder *Geocoder
	forecast ForecastProvider
	log      *zap.Logger
}

// NewService creates a new Service.
func NewService(geocoder *Geocoder, forecast ForecastProvider, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		geocoder: geocoder,
		forecast: forecast,
		log:      log,
	}
}

// Geocode resolves a query to a place.
func (s *Service) Geocode(ctx context.Context, query string) (Place, error) {
	return s.geocoder.Geocode(ctx, query)
}

// Lookup resolves the query and fetches current conditions and the forecast for it.
func (s *Service) Lookup(ctx context.Context, query, units string) (Lookup, error) {
	if strings.TrimSpace(query) == "" {
		return Lookup{}, Invalid("Missing ?query")
	}
	u, ok := ParseUnits(units)
	if !ok {
		return Lookup{}, Invalid("units must be metric or imperial")
	}

	place, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		s.log.Info("geocoding failed", zap.String("query", query), zap.Error(err))
		return Lookup{}, err
	}

	current, forecast, err := s.forecast.CurrentAndForecast(ctx, place.Lat, place.Lon, u)
	if err != nil {
		s.log.Warn("current/forecast fetch failed",
			zap.String("place", place.Name),
			zap.Float64("lat", place.Lat),
			zap.Float64("lon", place.Lon),
			zap.Error(err))
		return Lookup{}, err
	}

	s.log.Debug("lookup complete",
		zap.String("place", place.Name),
		zap.Int("samples", len(forecast.Samples)))

	return Lookup{
		Place:    place,
		Units:    u,
		Current:  current,
		Forecast: forecast,
		Daily:    SummarizeDaily(forecast.Samples, forecast.TimezoneOffset),
	}, nil
}
