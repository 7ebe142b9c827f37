package weather

import (
	"fmt"
	"regexp"
	"time"
)

const dateLayout = "2006-01-02"

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Date is a calendar date with no time-of-day or zone.
// Internally it is midnight UTC so that day arithmetic never crosses a DST edge.
type Date struct {
	t time.Time
}

// ParseDate accepts exactly YYYY-MM-DD and rejects dates that do not exist (e.g. 2023-02-30).
func ParseDate(s string) (Date, error) {
	if !isoDate.MatchString(s) {
		return Date{}, fmt.Errorf("%q is not YYYY-MM-DD", s)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t}, nil
}

func (d Date) String() string {
	return d.t.Format(dateLayout)
}

func (d Date) Before(o Date) bool {
	return d.t.Before(o.t)
}

// DaysUntil returns the number of whole days from d to o (negative if o is earlier).
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t).Hours() / 24)
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}
