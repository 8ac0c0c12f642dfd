package main

import (
	"math"
	"time"
)

const (
	cmPerInch = 2.54
	kgPerLb   = 0.45359237
)

// imperialToMetric converts a feet/inches height and pound weight to
// centimeters and kilograms. Inputs are assumed non-negative.
func imperialToMetric(ft int, inch, lb float64) (cm, kg float64) {
	cm = (float64(ft)*12 + inch) * cmPerInch
	kg = lb * kgPerLb
	return cm, kg
}

// metricToImperial converts centimeters and kilograms to a feet/inches pair
// and pounds. Inches and pounds are rounded to 1 decimal so the round-trip
// through imperialToMetric reproduces typical UI inputs within 0.1.
func metricToImperial(cm, kg float64) (ft int, inch, lb float64) {
	totalIn := cm / cmPerInch
	ft = int(math.Floor(totalIn / 12))
	inch = round1(totalIn - float64(ft)*12)
	lb = round1(kg / kgPerLb)
	return ft, inch, lb
}

// round1 rounds to 1 decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ageYears derives age in whole years from a date of birth, subtracting one
// when the birthday has not yet been reached this year (month/day compare
// handles the Feb 29 anniversary the same way the calendar does). Returns
// ok=false for a nil or zero dob; results are floored at 0.
func ageYears(dob *DateOnly) (int, bool) {
	if dob == nil || dob.Time.IsZero() {
		return 0, false
	}
	today := time.Now()
	years := today.Year() - dob.Time.Year()
	if today.Month() < dob.Time.Month() ||
		(today.Month() == dob.Time.Month() && today.Day() < dob.Time.Day()) {
		years--
	}
	if years < 0 {
		years = 0
	}
	return years, true
}
