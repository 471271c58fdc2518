// Package planner decides which weeks still have to be fetched.
package planner

import (
	"time"

	"DayAheadArchiver/internal/model"
)

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// StartDate returns the first day to fetch. With an empty manifest that is
// defaultStart. Otherwise it is January 1 of the year after the last
// archived one, or of the current year when that year is still open.
func StartDate(today time.Time, manifest model.Manifest, defaultStart time.Time) time.Time {
	lastYear, ok := manifest.Last()
	if !ok {
		return defaultStart
	}
	firstYear := lastYear + 1
	if lastYear == today.Year() {
		firstYear = lastYear
	}
	return time.Date(firstYear, time.January, 1, 0, 0, 0, 0, today.Location())
}

// Plan lists the week windows covering [start, today), the trailing partial
// week included. today must be a midnight in the archive timezone.
func Plan(today time.Time, manifest model.Manifest, defaultStart time.Time) []model.WeekWindow {
	start := StartOfDay(StartDate(today, manifest, defaultStart), today.Location())
	days := daysBetween(start, today)
	if days <= 0 {
		return nil
	}

	weekCount := (days + 6) / 7
	weeks := make([]model.WeekWindow, weekCount)
	for i := range weeks {
		s := start.AddDate(0, 0, 7*i)
		weeks[i] = model.WeekWindow{Start: s, End: s.AddDate(0, 0, 7)}
	}
	return weeks
}

// daysBetween counts calendar days, ignoring DST shifts of the wall clock.
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
