package weather

import (
	"sort"
	"time"
)

const (
	// MaxForecastDays is the number of daily cards built from the forecast feed.
	MaxForecastDays = 5

	secondsPerDay = 86400
	localNoon     = 12 * 3600
)

// SummarizeDaily collapses a forecast feed into at most MaxForecastDays daily summaries,
// bucketed by local calendar date (UTC shifted by utcOffset seconds) and ordered by date.
//
// The label comes from the sample closest to local noon; the first such sample wins a tie.
func SummarizeDaily(samples []ForecastSample, utcOffset int) []DailySummary {
	buckets := make(map[string][]ForecastSample)
	for _, s := range samples {
		k := localDateKey(s.Timestamp, utcOffset)
		buckets[k] = append(buckets[k], s)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > MaxForecastDays {
		keys = keys[:MaxForecastDays]
	}

	out := make([]DailySummary, 0, len(keys))
	for _, k := range keys {
		out = append(out, summarizeDay(k, buckets[k], utcOffset))
	}
	return out
}

func summarizeDay(key string, items []ForecastSample, utcOffset int) DailySummary {
	minT, maxT := items[0].Temperature, items[0].Temperature
	for _, it := range items[1:] {
		if it.Temperature < minT {
			minT = it.Temperature
		}
		if it.Temperature > maxT {
			maxT = it.Temperature
		}
	}

	best := representative(items)
	return DailySummary{
		DateKey:     key,
		Label:       localTime(closestToNoon(items, utcOffset).Timestamp, utcOffset).Format("Mon, Jan 2"),
		TMin:        minT,
		TMax:        maxT,
		Icon:        best.Icon,
		Description: best.Description,
	}
}

// representative runs the icon vote. Replacing on >= means the latest icon to reach
// the leading count takes over.
func representative(items []ForecastSample) ForecastSample {
	counts := make(map[string]int)
	best := items[0]
	for _, it := range items {
		counts[it.Icon]++
		if counts[it.Icon] >= counts[best.Icon] {
			best = it
		}
	}
	return best
}

func closestToNoon(items []ForecastSample, utcOffset int) ForecastSample {
	noonish := items[0]
	for _, it := range items[1:] {
		if distanceFromNoon(it.Timestamp, utcOffset) < distanceFromNoon(noonish.Timestamp, utcOffset) {
			noonish = it
		}
	}
	return noonish
}

// localTime returns the wall-clock time at utcOffset, expressed in UTC.
func localTime(ts int64, utcOffset int) time.Time {
	return time.Unix(ts+int64(utcOffset), 0).UTC()
}

func localDateKey(ts int64, utcOffset int) string {
	return localTime(ts, utcOffset).Format(dateLayout)
}

func distanceFromNoon(ts int64, utcOffset int) int64 {
	sec := ((ts+int64(utcOffset))%secondsPerDay + secondsPerDay) % secondsPerDay
	d := sec - localNoon
	if d < 0 {
		d = -d
	}
	return d
}
