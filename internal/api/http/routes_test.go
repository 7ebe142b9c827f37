package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-journal/internal/metrics"
	"github.com/i474232898/weather-journal/internal/records"
	"github.com/i474232898/weather-journal/internal/store"
	"github.com/i474232898/weather-journal/internal/weather"
)

type stubWeather struct {
	lookup weather.Lookup
	err    error
	calls  []string
}

func (s *stubWeather) Lookup(_ context.Context, query, units string) (weather.Lookup, error) {
	s.calls = append(s.calls, query+"|"+units)
	if query == "" {
		return weather.Lookup{}, weather.Invalid("Missing ?query")
	}
	if s.err != nil {
		return weather.Lookup{}, s.err
	}
	l := s.lookup
	l.Units, _ = weather.ParseUnits(units)
	return l, nil
}

type stubArchive struct{}

func (stubArchive) DailyTemperatures(_ context.Context, _, _ float64, start, end weather.Date, _ weather.Units) ([]weather.DailyTemperature, error) {
	var out []weather.DailyTemperature
	for i := 0; i <= start.DaysUntil(end); i++ {
		out = append(out, weather.DailyTemperature{Date: start.AddDays(i).String(), TMin: weather.Reading(1), TMax: weather.Reading(9), TMean: weather.Reading(5)})
	}
	return out, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type testEnv struct {
	app     *fiber.App
	weather *stubWeather
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dsn := "file:api_" + strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "?mode=memory&cache=shared"
	db, err := store.Open("sqlite", dsn)
	require.NoError(t, err)
	repo, err := store.New(db)
	require.NoError(t, err)

	m := metrics.New()
	ws := &stubWeather{lookup: weather.Lookup{
		Place: weather.Place{Name: "Paris, Ile-de-France, FR", Lat: 48.85, Lon: 2.35},
		Current: weather.CurrentConditions{
			Name: "Paris", Country: "FR", Temperature: 7.5, Icon: "04d", Description: "broken clouds",
		},
		Daily: []weather.DailySummary{{DateKey: "2024-01-01", Label: "Mon, Jan 1", TMin: 2, TMax: 9, Icon: "10d", Description: "light rain"}},
	}}
	svc := records.NewService(weather.NewGeocoder(nil), stubArchive{}, repo, "open-meteo", m, nil)

	app := NewApp(Deps{
		Weather: ws,
		Records: svc,
		DB:      repo,
		Metrics: m.Handler(),
	}, "*")
	return testEnv{app: app, weather: ws}
}

func (e testEnv) do(t *testing.T, method, target, body string) (*http.Response, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func errorMessage(t *testing.T, body string) string {
	t.Helper()
	var payload struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	return payload.Error
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/health", "/api/health"} {
		resp, body := env.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.JSONEq(t, `{"status":"ok","service":"weather-journal"}`, body)
	}
}

func TestHealthDatabaseDown(t *testing.T) {
	app := NewApp(Deps{DB: stubPinger{err: errors.New("connection refused")}}, "*")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestWeatherLookup(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/weather?query=Paris&units=imperial", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got weather.Lookup
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, "Paris, Ile-de-France, FR", got.Place.Name)
	assert.Equal(t, weather.UnitsImperial, got.Units)
	require.Len(t, got.Daily, 1)
	assert.Equal(t, []string{"Paris|imperial"}, env.weather.calls)
}

func TestWeatherLookupErrors(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/weather", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing ?query", errorMessage(t, body))

	env.weather.err = &weather.UpstreamError{Service: "OpenWeather forecast", StatusCode: 502}
	resp, body = env.do(t, http.MethodGet, "/api/weather?query=Paris", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "OpenWeather forecast error (502)", errorMessage(t, body))

	env.weather.err = weather.ErrPlaceNotFound
	_, body = env.do(t, http.MethodGet, "/api/weather?query=Atlantis", "")
	assert.Equal(t, "No matching place found.", errorMessage(t, body))
}

func TestRecordLifecycle(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/records",
		`{"query":"48.85,2.35","startDate":"2024-01-01","endDate":"2024-01-03","units":"metric"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	var created weather.Record
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, "48.850, 2.350", created.Name)
	assert.Len(t, created.DailyTemperatures, 3)
	assert.Contains(t, body, `"temps_json":[`)

	resp, body = env.do(t, http.MethodGet, "/api/records", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []weather.Record
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list, 1)

	resp, body = env.do(t, http.MethodPut, "/api/records/1", `{"units":"imperial"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	var updated weather.Record
	require.NoError(t, json.Unmarshal([]byte(body), &updated))
	assert.Equal(t, weather.UnitsImperial, updated.Units)
	assert.Equal(t, "2024-01-03", updated.EndDate)

	resp, body = env.do(t, http.MethodDelete, "/api/records/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, body)

	resp, body = env.do(t, http.MethodDelete, "/api/records/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", errorMessage(t, body))
}

func TestRecordNotFound(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/api/records/42", ""},
		{http.MethodGet, "/api/records/abc", ""},
		{http.MethodPut, "/api/records/42", `{"query":"Paris"}`},
		{http.MethodDelete, "/api/records/42", ""},
	}
	for _, tt := range tests {
		resp, body := env.do(t, tt.method, tt.path, tt.body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, tt.method+" "+tt.path)
		assert.Equal(t, "Not found", errorMessage(t, body))
	}
}

func TestCreateRecordValidation(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/records",
		`{"query":"Paris","startDate":"2024-02-10","endDate":"2024-02-01"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "startDate must be before endDate", errorMessage(t, body))

	resp, body = env.do(t, http.MethodPost, "/api/records", `{"query":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request body", errorMessage(t, body))
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/export.csv", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="records.csv"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "id,query,name,lat,lon,start_date,end_date,units,created_at,updated_at\n", body)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/records", `{"query":"1,2","startDate":"2024-01-01","endDate":"2024-01-01"}`)

	resp, body := env.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `weather_journal_record_operations_total{op="create",result="ok"} 1`)
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/records", "")
	assert.Len(t, resp.Header.Get(fiber.HeaderXRequestID), 36)
}

func TestIndexPage(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "No saved records yet.")
	assert.Empty(t, env.weather.calls)
}

func TestIndexRemembersLastSearch(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/?query=Paris%2C+FR&units=imperial", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Broken Clouds")
	assert.Contains(t, body, "8°F")

	cookies := map[string]string{}
	for _, ck := range resp.Cookies() {
		cookies[ck.Name] = ck.Value
	}
	require.Contains(t, cookies, "last_location")
	loc, err := url.QueryUnescape(cookies["last_location"])
	require.NoError(t, err)
	assert.Equal(t, "Paris, FR", loc)
	assert.Equal(t, "imperial", cookies["last_units"])

	// A bare visit replays the remembered search.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "last_location", Value: cookies["last_location"]})
	req.AddCookie(&http.Cookie{Name: "last_units", Value: "imperial"})
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Paris, FR|imperial", "Paris, FR|imperial"}, env.weather.calls)
}

func TestIndexShowsLookupErrorInline(t *testing.T) {
	env := newTestEnv(t)
	env.weather.err = &weather.UpstreamError{Service: "Geocoding", StatusCode: 503}

	resp, body := env.do(t, http.MethodGet, "/?query=Paris", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Geocoding error (503)")
	assert.Empty(t, resp.Cookies())
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestFormActions(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(formRequest("/records/form", url.Values{
		"query":     {"48.85,2.35"},
		"startDate": {"2024-01-01"},
		"endDate":   {"2024-01-02"},
		"units":     {"metric"},
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "Saved ✓", loc.Query().Get("status"))
	assert.Equal(t, "1", loc.Query().Get("record"))

	_, body := env.do(t, http.MethodGet, loc.String(), "")
	assert.Contains(t, body, "Record #1: 48.850, 2.350")
	assert.Contains(t, body, "2 day(s): 2024-01-01 → 2024-01-02")

	resp, err = env.app.Test(formRequest("/records/1/form", url.Values{"endDate": {"2023-12-01"}}), -1)
	require.NoError(t, err)
	loc, err = url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "startDate must be before endDate", loc.Query().Get("status"))

	resp, err = env.app.Test(formRequest("/records/1/delete", url.Values{}), -1)
	require.NoError(t, err)
	loc, err = url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "Deleted #1", loc.Query().Get("status"))

	resp, err = env.app.Test(formRequest("/records/1/delete", url.Values{}), -1)
	require.NoError(t, err)
	loc, err = url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "Not found", loc.Query().Get("status"))
}

func TestUnprefixedRoutes(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/records",
		`{"query":"48.85,2.35","startDate":"2024-01-01","endDate":"2024-01-02"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, body = env.do(t, http.MethodGet, "/records", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []weather.Record
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list, 1)

	resp, _ = env.do(t, http.MethodGet, "/records/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.do(t, http.MethodPut, "/records/1", `{"units":"imperial"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"units":"imperial"`)

	resp, body = env.do(t, http.MethodGet, "/export.csv", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="records.csv"`, resp.Header.Get("Content-Disposition"))
	assert.Contains(t, body, `1,"48.85,2.35","48.850, 2.350",48.85,2.35,2024-01-01,2024-01-02,imperial`)

	resp, _ = env.do(t, http.MethodGet, "/weather?query=1,2", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.do(t, http.MethodDelete, "/records/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, body)

	resp, _ = env.do(t, http.MethodGet, "/records/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateWithoutBody(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPut, "/api/records/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", errorMessage(t, body))

	resp, body = env.do(t, http.MethodPost, "/api/records",
		`{"query":"48.85,2.35","startDate":"2024-01-01","endDate":"2024-01-03","units":"metric"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, body = env.do(t, http.MethodPut, "/api/records/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	var got weather.Record
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, "48.850, 2.350", got.Name)
	assert.Equal(t, "2024-01-03", got.EndDate)
	assert.Equal(t, weather.UnitsMetric, got.Units)
	assert.Len(t, got.DailyTemperatures, 3)
}
