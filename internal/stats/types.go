package stats

import (
	"time"
)

// DateLayout is the label format for full week dates.
const DateLayout = "2006-01-02"

// Record is one normalised spreadsheet row: a class in a given week.
// Rates are fractions in [0,1]; absent optional fields are zero.
type Record struct {
	Class           string
	Week            time.Time
	Hours           float64
	Attendance      float64
	Correctness     float64
	AssignedMinutes float64
	WatchedMinutes  float64
	Completion      float64
}

// KPIs are the cohort-wide figures for the reporting week.
type KPIs struct {
	Hours           float64
	Attendance      float64 // mean
	Correctness     float64 // mean
	AssignedMinutes float64
	WatchedMinutes  float64
}

// ClassAggregate summarises one class within a scope (usually the reporting week).
type ClassAggregate struct {
	Class           string
	Rows            int
	Hours           float64
	Attendance      float64 // mean
	Correctness     float64 // mean
	AssignedMinutes float64
	WatchedMinutes  float64
	BelowAverage    bool // set only on the hours ranking
}

// WeeklySummary is everything derived from the reporting-week snapshot.
type WeeklySummary struct {
	TargetWeek time.Time
	Snapshot   []Record
	KPIs       KPIs
	ByName     []ClassAggregate
	ByHours    []ClassAggregate
}

// TrendPoint is the cohort aggregate for one historical week.
type TrendPoint struct {
	Week            time.Time
	Rows            int
	Hours           float64
	Attendance      float64 // mean
	Correctness     float64 // mean
	Completion      float64 // mean
	AssignedMinutes float64
	WatchedMinutes  float64
}

// Label returns the compact MM-DD label used on chart axes.
func (p TrendPoint) Label() string {
	return p.Week.Format("01-02")
}
