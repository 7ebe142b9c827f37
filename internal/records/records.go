package records

import (
	"context"

	"github.com/i474232898/weather-journal/internal/weather"
)

// MaxRangeDays is the longest allowed distance between startDate and endDate.
const MaxRangeDays = 366

// Geocoder resolves the user's query to a place.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (weather.Place, error)
}

// Repository is the persistence contract the record service needs.
type Repository interface {
	Create(ctx context.Context, rec *weather.Record) error
	List(ctx context.Context) ([]weather.Record, error)
	Get(ctx context.Context, id uint) (weather.Record, error)
	Update(ctx context.Context, rec *weather.Record) error
	Delete(ctx context.Context, id uint) error
}

// CreateInput is the body of a create request.
type CreateInput struct {
	Query     string `json:"query"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Units     string `json:"units"`
}

// Patch holds the optional fields of an update. Nil fields keep the stored value.
type Patch struct {
	Query     *string `json:"query"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Units     *string `json:"units"`
}

// Apply merges the patch over an existing record.
func (p Patch) Apply(rec weather.Record) CreateInput {
	in := CreateInput{
		Query:     rec.Query,
		StartDate: rec.StartDate,
		EndDate:   rec.EndDate,
		Units:     string(rec.Units),
	}
	if p.Query != nil {
		in.Query = *p.Query
	}
	if p.StartDate != nil {
		in.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		in.EndDate = *p.EndDate
	}
	if p.Units != nil {
		in.Units = *p.Units
	}
	return in
}
