package report

import (
	"classpulse/internal/stats"
)

// PacketVersion is bumped only when a field changes meaning. New fields are
// appended without a bump.
const PacketVersion = 1

// Packet is the complete output of one engine run. It carries no markup.
type Packet struct {
	Version       int           `json:"version"`
	TargetWeek    string        `json:"target_week"`
	KPI           KPI           `json:"kpi"`
	ClassesByName ClassSeries   `json:"classes_by_name"`
	ClassesByRank []RankedClass `json:"classes_by_rank"`
	Trend         Trend         `json:"trend"`
	Meta          Meta          `json:"meta"`
}

// KPI holds the reporting-week scalars. Percentages are unrounded.
type KPI struct {
	Hours              int     `json:"hours"`
	AttendancePct      float64 `json:"attendance_pct"`
	CorrectnessPct     float64 `json:"correctness_pct"`
	AssignedMinutesSum int     `json:"assigned_minutes_sum"`
	WatchedMinutesSum  int     `json:"watched_minutes_sum"`
}

// ClassSeries are index-aligned per-class arrays in natural name order.
type ClassSeries struct {
	Names          []string  `json:"names"`
	Hours          []int     `json:"hours"`
	AttendancePct  []float64 `json:"attendance_pct"`
	CorrectnessPct []float64 `json:"correctness_pct"`
}

// RankedClass is one row of the detail table, ordered by descending hours.
// AttendancePct is unrounded so BelowAverage can be checked against KPI exactly.
type RankedClass struct {
	Name            string  `json:"name"`
	Hours           int     `json:"hours"`
	AttendancePct   float64 `json:"attendance_pct"`
	BelowAverage    bool    `json:"below_average"`
	AssignedMinutes int     `json:"assigned_minutes"`
	WatchedMinutes  int     `json:"watched_minutes"`
}

// Trend holds index-aligned per-week arrays, oldest week first.
type Trend struct {
	Dates              []string  `json:"dates"`
	Hours              []int     `json:"hours"`
	AttendancePct      []float64 `json:"attendance_pct"`
	CorrectnessPct     []float64 `json:"correctness_pct"`
	CompletionPct      []float64 `json:"completion_pct"`
	AssignedMinutesSum []int     `json:"assigned_minutes_sum"`
	WatchedMinutesSum  []int     `json:"watched_minutes_sum"`
	Weeks              []string  `json:"weeks"`
}

// Meta describes the input that produced the packet.
type Meta struct {
	Rows        int `json:"rows"`
	DroppedRows int `json:"dropped_rows"`
	Weeks       int `json:"weeks"`
	Classes     int `json:"classes"`
}

// Assemble merges the weekly summary and trend into a packet.
func Assemble(ds stats.Dataset, weekly stats.WeeklySummary, trend []stats.TrendPoint) *Packet {
	p := &Packet{
		Version:    PacketVersion,
		TargetWeek: weekly.TargetWeek.Format(stats.DateLayout),
		KPI: KPI{
			Hours:              stats.RoundInt(weekly.KPIs.Hours),
			AttendancePct:      stats.Percent(weekly.KPIs.Attendance),
			CorrectnessPct:     stats.Percent(weekly.KPIs.Correctness),
			AssignedMinutesSum: stats.RoundInt(weekly.KPIs.AssignedMinutes),
			WatchedMinutesSum:  stats.RoundInt(weekly.KPIs.WatchedMinutes),
		},
		ClassesByName: classSeries(weekly.ByName),
		ClassesByRank: rankedClasses(weekly.ByHours),
		Trend:         trendSeries(trend),
		Meta: Meta{
			Rows:        len(ds.Records),
			DroppedRows: ds.Dropped,
			Weeks:       len(trend),
			Classes:     len(weekly.ByName),
		},
	}
	return p
}

func classSeries(aggs []stats.ClassAggregate) ClassSeries {
	s := ClassSeries{
		Names:          make([]string, 0, len(aggs)),
		Hours:          make([]int, 0, len(aggs)),
		AttendancePct:  make([]float64, 0, len(aggs)),
		CorrectnessPct: make([]float64, 0, len(aggs)),
	}
	for _, a := range aggs {
		s.Names = append(s.Names, a.Class)
		s.Hours = append(s.Hours, stats.RoundInt(a.Hours))
		s.AttendancePct = append(s.AttendancePct, stats.Round1(stats.Percent(a.Attendance)))
		s.CorrectnessPct = append(s.CorrectnessPct, stats.Round1(stats.Percent(a.Correctness)))
	}
	return s
}

func rankedClasses(aggs []stats.ClassAggregate) []RankedClass {
	rows := make([]RankedClass, 0, len(aggs))
	for _, a := range aggs {
		rows = append(rows, RankedClass{
			Name:            a.Class,
			Hours:           stats.RoundInt(a.Hours),
			AttendancePct:   stats.Percent(a.Attendance),
			BelowAverage:    a.BelowAverage,
			AssignedMinutes: stats.RoundInt(a.AssignedMinutes),
			WatchedMinutes:  stats.RoundInt(a.WatchedMinutes),
		})
	}
	return rows
}

func trendSeries(points []stats.TrendPoint) Trend {
	n := len(points)
	t := Trend{
		Dates:              make([]string, 0, n),
		Hours:              make([]int, 0, n),
		AttendancePct:      make([]float64, 0, n),
		CorrectnessPct:     make([]float64, 0, n),
		CompletionPct:      make([]float64, 0, n),
		AssignedMinutesSum: make([]int, 0, n),
		WatchedMinutesSum:  make([]int, 0, n),
		Weeks:              make([]string, 0, n),
	}
	for _, p := range points {
		t.Dates = append(t.Dates, p.Label())
		t.Hours = append(t.Hours, stats.RoundInt(p.Hours))
		t.AttendancePct = append(t.AttendancePct, stats.Round1(stats.Percent(p.Attendance)))
		t.CorrectnessPct = append(t.CorrectnessPct, stats.Round1(stats.Percent(p.Correctness)))
		t.CompletionPct = append(t.CompletionPct, stats.Round1(stats.Percent(p.Completion)))
		t.AssignedMinutesSum = append(t.AssignedMinutesSum, stats.RoundInt(p.AssignedMinutes))
		t.WatchedMinutesSum = append(t.WatchedMinutesSum, stats.RoundInt(p.WatchedMinutes))
		t.Weeks = append(t.Weeks, p.Week.Format(stats.DateLayout))
	}
	return t
}
