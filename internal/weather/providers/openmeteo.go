package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/i474232898/weather-journal/internal/common"
	"github.com/i474232898/weather-journal/internal/metrics"
	"github.com/i474232898/weather-journal/internal/weather"
)

// SourceOpenMeteo is stored on every record built from the archive.
const SourceOpenMeteo = "open-meteo"

// OpenMeteoGeocoder implements weather.PlaceSearcher with the Open-Meteo geocoding API.
type OpenMeteoGeocoder struct {
	baseURL  string
	upstream *upstream
}

func NewOpenMeteoGeocoder(client *http.Client, policy Policy, m *metrics.Metrics) *OpenMeteoGeocoder {
	return &OpenMeteoGeocoder{
		baseURL:  "https://geocoding-api.open-meteo.com/v1/search",
		upstream: newUpstream("Geocoding", client, policy, m),
	}
}

// SearchPlace returns the first match for name, named "<name>, <admin1>, <country code>".
func (p *OpenMeteoGeocoder) SearchPlace(ctx context.Context, name string) (weather.Place, error) {
	values := url.Values{}
	values.Set("name", name)
	values.Set("count", "1")
	values.Set("language", "en")

	var payload struct {
		Results []struct {
			Name        string  `json:"name"`
			Latitude    float64 `json:"latitude"`
			Longitude   float64 `json:"longitude"`
			Admin1      string  `json:"admin1"`
			CountryCode string  `json:"country_code"`
		} `json:"results"`
	}
	if err := p.upstream.getJSON(ctx, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), &payload); err != nil {
		return weather.Place{}, err
	}
	if len(payload.Results) == 0 {
		return weather.Place{}, weather.ErrPlaceNotFound
	}

	r := payload.Results[0]
	return weather.Place{
		Name: common.JoinNonEmpty(", ", r.Name, r.Admin1, r.CountryCode),
		Lat:  r.Latitude,
		Lon:  r.Longitude,
	}, nil
}

// OpenMeteoArchive implements weather.ArchiveProvider with the Open-Meteo historical archive.
type OpenMeteoArchive struct {
	baseURL  string
	upstream *upstream
}

func NewOpenMeteoArchive(client *http.Client, policy Policy, m *metrics.Metrics) *OpenMeteoArchive {
	return &OpenMeteoArchive{
		baseURL:  "https://archive-api.open-meteo.com/v1/archive",
		upstream: newUpstream("Open-Meteo archive", client, policy, m),
	}
}

// DailyTemperatures returns one entry per day in the order the archive lists them.
// Readings the archive reports as null stay nil.
func (p *OpenMeteoArchive) DailyTemperatures(ctx context.Context, lat, lon float64, start, end weather.Date, units weather.Units) ([]weather.DailyTemperature, error) {
	values := url.Values{}
	values.Set("latitude", formatCoord(lat))
	values.Set("longitude", formatCoord(lon))
	values.Set("start_date", start.String())
	values.Set("end_date", end.String())
	values.Set("daily", "temperature_2m_min,temperature_2m_max,temperature_2m_mean")
	values.Set("timezone", "auto")
	values.Set("temperature_unit", units.TemperatureUnit())

	var payload struct {
		Daily *struct {
			Time []string   `json:"time"`
			Min  []*float64 `json:"temperature_2m_min"`
			Max  []*float64 `json:"temperature_2m_max"`
			Mean []*float64 `json:"temperature_2m_mean"`
		} `json:"daily"`
	}
	if err := p.upstream.getJSON(ctx, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), &payload); err != nil {
		return nil, err
	}
	if payload.Daily == nil || payload.Daily.Time == nil {
		return nil, weather.ErrNoData
	}

	d := payload.Daily
	out := make([]weather.DailyTemperature, 0, len(d.Time))
	for i, date := range d.Time {
		out = append(out, weather.DailyTemperature{
			Date:  date,
			TMin:  valueAt(d.Min, i),
			TMax:  valueAt(d.Max, i),
			TMean: valueAt(d.Mean, i),
		})
	}
	return out, nil
}

func valueAt(series []*float64, i int) *float64 {
	if i >= len(series) {
		return nil
	}
	return series[i]
}
