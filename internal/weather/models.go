package weather

import (
	"time"
)

// Units selects the unit system requested from providers.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// ParseUnits maps user input to Units; empty input means metric.
func ParseUnits(s string) (Units, bool) {
	switch Units(s) {
	case "", UnitsMetric:
		return UnitsMetric, true
	case UnitsImperial:
		return UnitsImperial, true
	default:
		return "", false
	}
}

// TemperatureUnit is the Open-Meteo temperature_unit value for u.
func (u Units) TemperatureUnit() string {
	if u == UnitsImperial {
		return "fahrenheit"
	}
	return "celsius"
}

// Place is a resolved location. Latitude is in [-90,90], longitude in [-180,180].
type Place struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// DailyTemperature is one day of an archive range.
// A nil reading is a day the archive has no value for yet; it is kept as JSON null.
type DailyTemperature struct {
	Date  string   `json:"date"`
	TMin  *float64 `json:"tmin"`
	TMax  *float64 `json:"tmax"`
	TMean *float64 `json:"tmean"`
}

// Reading returns a pointer to v, for building DailyTemperature values.
func Reading(v float64) *float64 {
	return &v
}

// ForecastSample is a single point of the 3-hourly forecast feed.
type ForecastSample struct {
	Timestamp   int64   `json:"dt"`
	Temperature float64 `json:"temp"`
	Icon        string  `json:"icon"`
	Description string  `json:"description"`
}

// Forecast is the raw forecast feed plus the location's UTC offset.
type Forecast struct {
	TimezoneOffset int              `json:"timezoneOffset"` // seconds east of UTC
	Samples        []ForecastSample `json:"samples"`
}

// DailySummary is one forecast card. Derived on request, never stored.
type DailySummary struct {
	DateKey     string  `json:"dateKey"`
	Label       string  `json:"label"`
	TMin        float64 `json:"tmin"`
	TMax        float64 `json:"tmax"`
	Icon        string  `json:"icon"`
	Description string  `json:"description"`
}

// CurrentConditions is the normalized current-weather payload.
type CurrentConditions struct {
	Name           string  `json:"name"`
	Country        string  `json:"country"`
	Timestamp      int64   `json:"dt"`
	TimezoneOffset int     `json:"timezoneOffset"`
	Temperature    float64 `json:"temp"`
	FeelsLike      float64 `json:"feelsLike"`
	Humidity       float64 `json:"humidity"`
	Pressure       float64 `json:"pressure"`
	WindSpeed      float64 `json:"windSpeed"`
	Sunrise        int64   `json:"sunrise"`
	Sunset         int64   `json:"sunset"`
	Icon           string  `json:"icon"`
	Description    string  `json:"description"`
}

// Lookup is the answer to a current-weather query.
type Lookup struct {
	Place    Place             `json:"place"`
	Units    Units             `json:"units"`
	Current  CurrentConditions `json:"current"`
	Forecast Forecast          `json:"forecast"`
	Daily    []DailySummary    `json:"daily"`
}

// Record is a saved date-range lookup.
// The place is copied in at save time; there is no reference to a place table.
type Record struct {
	ID                uint               `json:"id"`
	Query             string             `json:"query"`
	Name              string             `json:"name"`
	Lat               float64            `json:"lat"`
	Lon               float64            `json:"lon"`
	StartDate         string             `json:"start_date"`
	EndDate           string             `json:"end_date"`
	Units             Units              `json:"units"`
	DailyTemperatures []DailyTemperature `json:"temps_json"`
	Source            string             `json:"source"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}
