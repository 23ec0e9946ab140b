package astro

import (
	"fmt"
	"math"
	"time"
)

// hijriMonths are the English names of the Hijri months, 1-indexed via -1.
var hijriMonths = [12]string{
	"Muharram", "Safar", "Rabi al-Awwal", "Rabi al-Thani",
	"Jumada al-Awwal", "Jumada al-Thani", "Rajab", "Shaban",
	"Ramadan", "Shawwal", "Dhu al-Qadah", "Dhu al-Hijjah",
}

// HijriDate is a date in the civil tabular Islamic calendar. The tabular
// calendar can differ from sighting-based calendars by a day; the label is
// advisory display only.
type HijriDate struct {
	Day   int
	Month int // 1..12
	Year  int
}

// MonthName returns the English month name.
func (h HijriDate) MonthName() string {
	if h.Month < 1 || h.Month > 12 {
		return ""
	}
	return hijriMonths[h.Month-1]
}

// Label renders the date as "1 Ramadan 1447 AH".
func (h HijriDate) Label() string {
	return fmt.Sprintf("%d %s %d AH", h.Day, h.MonthName(), h.Year)
}

// Hijri converts a civil instant to its tabular Islamic calendar date,
// evaluated on t's calendar day in t's location.
func Hijri(t time.Time) HijriDate {
	y, m, d := t.Date()
	jd := math.Floor(julianDay(y, int(m), d)) + 0.5

	year := int(math.Floor((30*(jd-islamicEpoch) + 10646) / 10631))
	month := int(math.Ceil((jd-(29+islamicToJD(year, 1, 1)))/29.5)) + 1
	if month > 12 {
		month = 12
	}
	day := int(jd-islamicToJD(year, month, 1)) + 1

	return HijriDate{Day: day, Month: month, Year: year}
}

// islamicEpoch is the Julian day of 1 Muharram 1 AH in the civil tabular
// calendar.
const islamicEpoch = 1948439.5

// islamicToJD returns the Julian day of a tabular Islamic calendar date.
func islamicToJD(year, month, day int) float64 {
	return float64(day) +
		math.Ceil(29.5*float64(month-1)) +
		float64(year-1)*354 +
		math.Floor(float64(3+11*year)/30) +
		islamicEpoch - 1
}
