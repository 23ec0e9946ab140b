// Package astro computes prayer instants from solar geometry, the offline
// fallback when the remote timing service is unreachable. It also provides
// the tabular Hijri calendar conversion used for the fallback date label.
package astro

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrNoSunEvent is returned when the sun never reaches the requested
// altitude on the given day, which happens at high latitudes around the
// solstices. No substitution convention is applied; callers surface the
// failure.
var ErrNoSunEvent = errors.New("sun does not reach requested altitude at this latitude and date")

// Params selects the calculation convention: the solar depression angles
// defining fajr and isha, and the shadow-length factor defining asr.
type Params struct {
	FajrAngle float64 // degrees below horizon
	IshaAngle float64 // degrees below horizon
	AsrShadow float64 // 1 = standard (Shafi), 2 = Hanafi
}

// Karachi returns the University of Islamic Sciences, Karachi convention
// (18°/18°) with the Hanafi asr shadow factor.
func Karachi() Params {
	return Params{FajrAngle: 18, IshaAngle: 18, AsrShadow: 2}
}

// horizonAlt is the apparent sun altitude at sunrise/sunset, accounting for
// refraction and the solar radius.
const horizonAlt = -0.833

// DayTimes are the six computed instants for one civil day.
type DayTimes struct {
	Fajr    time.Time
	Sunrise time.Time
	Dhuhr   time.Time
	Asr     time.Time
	Maghrib time.Time
	Isha    time.Time
}

// Times computes the six prayer instants for the civil day of date at the
// given coordinates, expressed in loc.
func Times(lat, lon float64, date time.Time, loc *time.Location, p Params) (DayTimes, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return DayTimes{}, fmt.Errorf("coordinates (%f, %f) out of range", lat, lon)
	}

	y, m, d := date.In(loc).Date()
	jd := julianDay(y, int(m), d)

	// First pass at solar noon, then one refinement at each estimated time.
	// The second pass moves results by well under a minute.
	decl, eqt := sunPosition(jd + (12-lon/15)/24)
	noon := 12 - eqt - lon/15

	angleTime := func(altitude float64, dir float64) (float64, error) {
		h, err := hourAngle(altitude, decl, lat)
		if err != nil {
			return 0, err
		}
		t := noon + dir*h
		d2, e2 := sunPosition(jd + t/24)
		h2, err := hourAngle(altitude, d2, lat)
		if err != nil {
			return 0, err
		}
		return (12 - e2 - lon/15) + dir*h2, nil
	}

	fajr, err := angleTime(-p.FajrAngle, -1)
	if err != nil {
		return DayTimes{}, fmt.Errorf("fajr: %w", err)
	}
	sunrise, err := angleTime(horizonAlt, -1)
	if err != nil {
		return DayTimes{}, fmt.Errorf("sunrise: %w", err)
	}
	maghrib, err := angleTime(horizonAlt, 1)
	if err != nil {
		return DayTimes{}, fmt.Errorf("maghrib: %w", err)
	}
	isha, err := angleTime(-p.IshaAngle, 1)
	if err != nil {
		return DayTimes{}, fmt.Errorf("isha: %w", err)
	}

	// Asr: the instant the shadow of an object equals AsrShadow times its
	// height plus the noon shadow.
	declAsr, eqtAsr := sunPosition(jd + (noon+3)/24)
	asrAlt := atanDeg(1 / (p.AsrShadow + math.Tan(math.Abs(math.Pi/180*lat-declAsr))))
	asrH, err := hourAngle(asrAlt, declAsr, lat)
	if err != nil {
		return DayTimes{}, fmt.Errorf("asr: %w", err)
	}
	asr := (12 - eqtAsr - lon/15) + asrH

	base := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	toTime := func(utcHours float64) time.Time {
		return base.Add(time.Duration(utcHours * float64(time.Hour))).In(loc)
	}

	return DayTimes{
		Fajr:    toTime(fajr),
		Sunrise: toTime(sunrise),
		Dhuhr:   toTime(noon),
		Asr:     toTime(asr),
		Maghrib: toTime(maghrib),
		Isha:    toTime(isha),
	}, nil
}

// julianDay converts a Gregorian calendar date to a Julian day number at
// midnight UTC.
func julianDay(year, month, day int) float64 {
	if month <= 2 {
		year--
		month += 12
	}
	a := math.Floor(float64(year) / 100)
	b := 2 - a + math.Floor(a/4)
	return math.Floor(365.25*float64(year+4716)) +
		math.Floor(30.6001*float64(month+1)) +
		float64(day) + b - 1524.5
}

// sunPosition returns the sun's declination in radians and the equation of
// time in hours for the given Julian day, using the US Naval Observatory
// low-precision formulas.
func sunPosition(jd float64) (decl, eqt float64) {
	d := jd - 2451545.0

	g := math.Pi / 180 * math.Mod(357.529+0.98560028*d, 360)
	q := math.Mod(280.459+0.98564736*d, 360)
	l := math.Pi / 180 * math.Mod(q+1.915*math.Sin(g)+0.020*math.Sin(2*g), 360)
	e := math.Pi / 180 * (23.439 - 0.00000036*d)

	decl = math.Asin(math.Sin(e) * math.Sin(l))

	ra := math.Mod(180/math.Pi*math.Atan2(math.Cos(e)*math.Sin(l), math.Cos(l))/15, 24)
	if ra < 0 {
		ra += 24
	}
	eqt = q/15 - ra
	for eqt > 12 {
		eqt -= 24
	}
	for eqt < -12 {
		eqt += 24
	}
	return decl, eqt
}

// hourAngle returns the hour angle in hours at which the sun reaches the
// given altitude (degrees), for declination decl (radians) and latitude
// lat (degrees). ErrNoSunEvent when the altitude is never reached.
func hourAngle(altitude float64, decl, lat float64) (float64, error) {
	latR := math.Pi / 180 * lat
	cosH := (math.Sin(math.Pi/180*altitude) - math.Sin(decl)*math.Sin(latR)) /
		(math.Cos(decl) * math.Cos(latR))
	if cosH < -1 || cosH > 1 {
		return 0, ErrNoSunEvent
	}
	return 180 / math.Pi * math.Acos(cosH) / 15, nil
}

func atanDeg(x float64) float64 {
	return 180 / math.Pi * math.Atan(x)
}
