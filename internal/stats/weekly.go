package stats

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

// TargetWeek returns the latest week present in records.
func TargetWeek(records []Record) (time.Time, error) {
	if len(records) == 0 {
		return time.Time{}, &EmptyDatasetError{Reason: "no records to pick a reporting week from"}
	}
	latest := lo.MaxBy(records, func(a, b Record) bool {
		return a.Week.After(b.Week)
	})
	return latest.Week, nil
}

// Snapshot returns the records of one week, in input order.
func Snapshot(records []Record, week time.Time) []Record {
	return lo.Filter(records, func(r Record, _ int) bool {
		return r.Week.Equal(week)
	})
}

// SummarizeCohort computes the cohort KPIs over a snapshot. Means over an empty
// snapshot are undefined, so that case is an error rather than NaN.
func SummarizeCohort(snapshot []Record) (KPIs, error) {
	if len(snapshot) == 0 {
		return KPIs{}, &EmptyDatasetError{Reason: "reporting week has no rows"}
	}
	return KPIs{
		Hours:           lo.SumBy(snapshot, func(r Record) float64 { return r.Hours }),
		Attendance:      lo.MeanBy(snapshot, func(r Record) float64 { return r.Attendance }),
		Correctness:     lo.MeanBy(snapshot, func(r Record) float64 { return r.Correctness }),
		AssignedMinutes: lo.SumBy(snapshot, func(r Record) float64 { return r.AssignedMinutes }),
		WatchedMinutes:  lo.SumBy(snapshot, func(r Record) float64 { return r.WatchedMinutes }),
	}, nil
}

// AggregateClasses groups records by class: sums for hours and minutes, means for
// rates. The result is sorted by class identifier.
func AggregateClasses(records []Record) []ClassAggregate {
	groups := lo.GroupBy(records, func(r Record) string { return r.Class })

	out := make([]ClassAggregate, 0, len(groups))
	for class, rows := range groups {
		out = append(out, ClassAggregate{
			Class:           class,
			Rows:            len(rows),
			Hours:           lo.SumBy(rows, func(r Record) float64 { return r.Hours }),
			Attendance:      lo.MeanBy(rows, func(r Record) float64 { return r.Attendance }),
			Correctness:     lo.MeanBy(rows, func(r Record) float64 { return r.Correctness }),
			AssignedMinutes: lo.SumBy(rows, func(r Record) float64 { return r.AssignedMinutes }),
			WatchedMinutes:  lo.SumBy(rows, func(r Record) float64 { return r.WatchedMinutes }),
		})
	}

	slices.SortFunc(out, func(a, b ClassAggregate) int {
		return strings.Compare(a.Class, b.Class)
	})
	return out
}

// SortByName returns a copy of aggs in natural label order.
func SortByName(aggs []ClassAggregate, order NaturalOrder) []ClassAggregate {
	keys := make(map[string]NaturalKey, len(aggs))
	for _, a := range aggs {
		keys[a.Class] = order.Key(a.Class)
	}

	out := slices.Clone(aggs)
	slices.SortFunc(out, func(a, b ClassAggregate) int {
		return CompareKeys(keys[a.Class], keys[b.Class])
	})
	return out
}

// RankByHours returns a copy of aggs by descending hours (ties by class ascending)
// with BelowAverage set for classes whose attendance is under the cohort mean.
// The comparison is made on the percentage scale the packet reports.
func RankByHours(aggs []ClassAggregate, cohortAttendance float64) []ClassAggregate {
	out := slices.Clone(aggs)
	slices.SortFunc(out, func(a, b ClassAggregate) int {
		if c := cmp.Compare(b.Hours, a.Hours); c != 0 {
			return c
		}
		return strings.Compare(a.Class, b.Class)
	})

	threshold := Percent(cohortAttendance)
	for i := range out {
		out[i].BelowAverage = Percent(out[i].Attendance) < threshold
	}
	return out
}

// AggregateWeek isolates the latest week and computes its KPIs and per-class
// aggregates in both orderings.
func AggregateWeek(records []Record, order NaturalOrder) (WeeklySummary, error) {
	week, err := TargetWeek(records)
	if err != nil {
		return WeeklySummary{}, err
	}

	snapshot := Snapshot(records, week)
	kpis, err := SummarizeCohort(snapshot)
	if err != nil {
		return WeeklySummary{}, err
	}

	classes := AggregateClasses(snapshot)

	return WeeklySummary{
		TargetWeek: week,
		Snapshot:   snapshot,
		KPIs:       kpis,
		ByName:     SortByName(classes, order),
		ByHours:    RankByHours(classes, kpis.Attendance),
	}, nil
}
