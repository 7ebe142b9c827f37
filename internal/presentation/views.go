package presentation

import (
	"fmt"
	"strconv"

	"github.com/i474232898/weather-journal/internal/weather"
)

type Metric struct {
	Label string
	Value string
}

// CurrentPanel is the "right now" block of a lookup.
type CurrentPanel struct {
	Title       string
	LocalTime   string
	Description string
	IconURL     string
	IconAlt     string
	Temperature string
	Details     []Metric
}

func NewCurrentPanel(c weather.CurrentConditions, units weather.Units) CurrentPanel {
	title := c.Name
	if c.Country != "" {
		title = c.Name + ", " + c.Country
	}
	return CurrentPanel{
		Title:       title,
		LocalTime:   LocalClock(c.Timestamp, c.TimezoneOffset),
		Description: TitleCase(c.Description),
		IconURL:     IconURL(c.Icon),
		IconAlt:     c.Description,
		Temperature: FormatTemp(c.Temperature, units),
		Details: []Metric{
			{Label: "Feels like", Value: FormatTemp(c.FeelsLike, units)},
			{Label: "Humidity", Value: strconv.FormatFloat(c.Humidity, 'f', -1, 64) + "%"},
			{Label: "Pressure", Value: strconv.FormatFloat(c.Pressure, 'f', -1, 64) + " hPa"},
			{Label: "Wind", Value: FormatSpeed(c.WindSpeed, units)},
			{Label: "Sunrise", Value: LocalClock(c.Sunrise, c.TimezoneOffset)},
			{Label: "Sunset", Value: LocalClock(c.Sunset, c.TimezoneOffset)},
		},
	}
}

// ForecastCard is one day of the forecast strip.
type ForecastCard struct {
	Label       string
	IconURL     string
	IconAlt     string
	Range       string
	Description string
}

func ForecastCards(days []weather.DailySummary, units weather.Units) []ForecastCard {
	cards := make([]ForecastCard, 0, len(days))
	for _, d := range days {
		cards = append(cards, ForecastCard{
			Label:       d.Label,
			IconURL:     IconURL(d.Icon),
			IconAlt:     d.Description,
			Range:       FormatTemp(d.TMax, units) + " / " + FormatTemp(d.TMin, units),
			Description: TitleCase(d.Description),
		})
	}
	return cards
}

// RecordRow is a line of the saved-records table.
type RecordRow struct {
	ID        uint
	Name      string
	Query     string
	StartDate string
	EndDate   string
	Units     string
	Summary   string
}

func RecordRows(records []weather.Record) []RecordRow {
	rows := make([]RecordRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, RecordRow{
			ID:        r.ID,
			Name:      r.Name,
			Query:     r.Query,
			StartDate: r.StartDate,
			EndDate:   r.EndDate,
			Units:     string(r.Units),
			Summary:   seriesSummary(r.DailyTemperatures),
		})
	}
	return rows
}

func seriesSummary(temps []weather.DailyTemperature) string {
	if len(temps) == 0 {
		return "no data"
	}
	return fmt.Sprintf("%d day(s): %s → %s", len(temps), temps[0].Date, temps[len(temps)-1].Date)
}

type TemperatureRow struct {
	Date string
	Min  string
	Max  string
	Mean string
}

// RecordDetail is the expanded view of one record, including its series.
type RecordDetail struct {
	RecordRow
	Temperatures []TemperatureRow
}

func NewRecordDetail(r weather.Record) RecordDetail {
	temps := make([]TemperatureRow, 0, len(r.DailyTemperatures))
	for _, d := range r.DailyTemperatures {
		temps = append(temps, TemperatureRow{
			Date: d.Date,
			Min:  FormatReading(d.TMin),
			Max:  FormatReading(d.TMax),
			Mean: FormatReading(d.TMean),
		})
	}
	return RecordDetail{
		RecordRow:    RecordRows([]weather.Record{r})[0],
		Temperatures: temps,
	}
}
