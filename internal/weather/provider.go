package weather

import (
	"context"
)

// PlaceSearcher resolves free text to a place through a geocoding service.
type PlaceSearcher interface {
	SearchPlace(ctx context.Context, name string) (Place, error)
}

// ArchiveProvider returns daily temperature ranges for an inclusive date range.
type ArchiveProvider interface {
	DailyTemperatures(ctx context.Context, lat, lon float64, start, end Date, units Units) ([]DailyTemperature, error)
}

// ForecastProvider returns current conditions together with the multi-point forecast feed.
type ForecastProvider interface {
	CurrentAndForecast(ctx context.Context, lat, lon float64, units Units) (CurrentConditions, Forecast, error)
}
