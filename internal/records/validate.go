package records

import (
	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-journal/internal/weather"
)

var validate = validator.New()

// dateRange is a validated request, ready for the network step.
type dateRange struct {
	query string
	start weather.Date
	end   weather.Date
	units weather.Units
}

// checkInput validates in order: required query, date syntax, date order, range length, units.
// Nothing here touches the network.
func checkInput(in CreateInput) (dateRange, error) {
	if err := validate.Var(in.Query, "required"); err != nil {
		return dateRange{}, weather.Invalid("query is required")
	}

	start, errStart := weather.ParseDate(in.StartDate)
	end, errEnd := weather.ParseDate(in.EndDate)
	if errStart != nil || errEnd != nil {
		return dateRange{}, weather.Invalid("Dates must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return dateRange{}, weather.Invalid("startDate must be before endDate")
	}
	if start.DaysUntil(end) > MaxRangeDays {
		return dateRange{}, weather.Invalid("Date range too large (max 366 days)")
	}

	if err := validate.Var(in.Units, "omitempty,oneof=metric imperial"); err != nil {
		return dateRange{}, weather.Invalid("units must be metric or imperial")
	}
	units, _ := weather.ParseUnits(in.Units)

	return dateRange{query: in.Query, start: start, end: end, units: units}, nil
}
