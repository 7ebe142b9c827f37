package presentation

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/i474232898/weather-journal/internal/weather"
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// IconURL points at the OpenWeather icon image for code.
func IconURL(code string) string {
	return fmt.Sprintf("https://openweathermap.org/img/wn/%s@2x.png", code)
}

// FormatTemp rounds t to a whole degree in the unit system's scale.
func FormatTemp(t float64, units weather.Units) string {
	scale := "C"
	if units == weather.UnitsImperial {
		scale = "F"
	}
	return fmt.Sprintf("%d°%s", int(math.Round(t)), scale)
}

// FormatSpeed rounds a wind speed and appends m/s or mph.
func FormatSpeed(s float64, units weather.Units) string {
	if units == weather.UnitsImperial {
		return fmt.Sprintf("%d mph", int(math.Round(s)))
	}
	return fmt.Sprintf("%d m/s", int(math.Round(s)))
}

// FormatReading renders an archive reading as-is, or a dash when the archive had none.
func FormatReading(v *float64) string {
	if v == nil {
		return "–"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// LocalClock renders a unix timestamp as HH:MM at the given UTC offset in seconds.
func LocalClock(unix int64, utcOffset int) string {
	return time.Unix(unix+int64(utcOffset), 0).UTC().Format("15:04")
}

// TitleCase upper-cases the first letter of every word.
func TitleCase(s string) string {
	return titleCaser.String(s)
}
