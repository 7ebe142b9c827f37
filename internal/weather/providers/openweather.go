package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/i474232898/weather-journal/internal/metrics"
	"github.com/i474232898/weather-journal/internal/weather"
)

// OpenWeatherProvider implements weather.ForecastProvider for OpenWeatherMap.
type OpenWeatherProvider struct {
	apiKey   string
	baseURL  string
	current  *upstream
	forecast *upstream
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, policy Policy, m *metrics.Metrics) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		apiKey:   apiKey,
		baseURL:  "https://api.openweathermap.org/data/2.5",
		current:  newUpstream("OpenWeather current", client, policy, m),
		forecast: newUpstream("OpenWeather forecast", client, policy, m),
	}
}

type owmWeather struct {
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type owmCurrent struct {
	Name     string `json:"name"`
	Dt       int64  `json:"dt"`
	Timezone int    `json:"timezone"`
	Sys      struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []owmWeather `json:"weather"`
}

type owmForecast struct {
	City struct {
		Timezone int `json:"timezone"`
	} `json:"city"`
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []owmWeather `json:"weather"`
	} `json:"list"`
}

// CurrentAndForecast issues the current and forecast calls concurrently.
// Both must succeed; the first failure is returned and no partial result is kept.
func (p *OpenWeatherProvider) CurrentAndForecast(ctx context.Context, lat, lon float64, units weather.Units) (weather.CurrentConditions, weather.Forecast, error) {
	if p.apiKey == "" {
		return weather.CurrentConditions{}, weather.Forecast{}, fmt.Errorf("openweather api key is not configured: %w", weather.ErrNotConfigured)
	}

	values := url.Values{}
	values.Set("lat", formatCoord(lat))
	values.Set("lon", formatCoord(lon))
	values.Set("units", string(units))
	values.Set("appid", p.apiKey)
	query := values.Encode()

	var (
		cur owmCurrent
		fc  owmForecast
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.current.getJSON(gctx, fmt.Sprintf("%s/weather?%s", p.baseURL, query), &cur)
	})
	g.Go(func() error {
		return p.forecast.getJSON(gctx, fmt.Sprintf("%s/forecast?%s", p.baseURL, query), &fc)
	})
	if err := g.Wait(); err != nil {
		return weather.CurrentConditions{}, weather.Forecast{}, err
	}

	return toCurrent(cur), toForecast(fc), nil
}

func firstWeather(items []owmWeather) owmWeather {
	if len(items) == 0 {
		return owmWeather{}
	}
	return items[0]
}

func toCurrent(c owmCurrent) weather.CurrentConditions {
	w := firstWeather(c.Weather)
	return weather.CurrentConditions{
		Name:           c.Name,
		Country:        c.Sys.Country,
		Timestamp:      c.Dt,
		TimezoneOffset: c.Timezone,
		Temperature:    c.Main.Temp,
		FeelsLike:      c.Main.FeelsLike,
		Humidity:       c.Main.Humidity,
		Pressure:       c.Main.Pressure,
		WindSpeed:      c.Wind.Speed,
		Sunrise:        c.Sys.Sunrise,
		Sunset:         c.Sys.Sunset,
		Icon:           w.Icon,
		Description:    w.Description,
	}
}

func toForecast(f owmForecast) weather.Forecast {
	samples := make([]weather.ForecastSample, 0, len(f.List))
	for _, item := range f.List {
		w := firstWeather(item.Weather)
		samples = append(samples, weather.ForecastSample{
			Timestamp:   item.Dt,
			Temperature: item.Main.Temp,
			Icon:        w.Icon,
			Description: w.Description,
		})
	}
	return weather.Forecast{
		TimezoneOffset: f.City.Timezone,
		Samples:        samples,
	}
}
