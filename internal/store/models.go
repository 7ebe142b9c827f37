package store

import (
	"time"

	"gorm.io/datatypes"

	"github.com/i474232898/weather-journal/internal/weather"
)

// recordRow is the persisted form of weather.Record.
type recordRow struct {
	ID        uint                                          `gorm:"primaryKey;autoIncrement"`
	Query     string                                        `gorm:"not null"`
	Name      string                                        `gorm:"not null"`
	Lat       float64                                       `gorm:"not null"`
	Lon       float64                                       `gorm:"not null"`
	StartDate string                                        `gorm:"not null"` // YYYY-MM-DD
	EndDate   string                                        `gorm:"not null"` // YYYY-MM-DD
	Units     string                                        `gorm:"not null"`
	TempsJSON datatypes.JSONSlice[weather.DailyTemperature] `gorm:"column:temps_json;not null"`
	Source    string                                        `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (recordRow) TableName() string {
	return "records"
}

func fromRecord(r *weather.Record) recordRow {
	return recordRow{
		ID:        r.ID,
		Query:     r.Query,
		Name:      r.Name,
		Lat:       r.Lat,
		Lon:       r.Lon,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Units:     string(r.Units),
		TempsJSON: datatypes.NewJSONSlice(r.DailyTemperatures),
		Source:    r.Source,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (row recordRow) toRecord() weather.Record {
	temps := []weather.DailyTemperature(row.TempsJSON)
	if temps == nil {
		temps = []weather.DailyTemperature{}
	}
	return weather.Record{
		ID:                row.ID,
		Query:             row.Query,
		Name:              row.Name,
		Lat:               row.Lat,
		Lon:               row.Lon,
		StartDate:         row.StartDate,
		EndDate:           row.EndDate,
		Units:             weather.Units(row.Units),
		DailyTemperatures: temps,
		Source:            row.Source,
		CreatedAt:         row.CreatedAt.UTC(),
		UpdatedAt:         row.UpdatedAt.UTC(),
	}
}
