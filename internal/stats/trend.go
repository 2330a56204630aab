package stats

import (
	"slices"

	"github.com/samber/lo"
)

// BuildTrend groups all records by week and returns one point per week, oldest
// first. Every group has at least one record, so means are always defined.
func BuildTrend(records []Record) []TrendPoint {
	groups := lo.GroupBy(records, func(r Record) string {
		return r.Week.Format(DateLayout)
	})

	points := make([]TrendPoint, 0, len(groups))
	for _, rows := range groups {
		points = append(points, TrendPoint{
			Week:            rows[0].Week,
			Rows:            len(rows),
			Hours:           lo.SumBy(rows, func(r Record) float64 { return r.Hours }),
			Attendance:      lo.MeanBy(rows, func(r Record) float64 { return r.Attendance }),
			Correctness:     lo.MeanBy(rows, func(r Record) float64 { return r.Correctness }),
			Completion:      lo.MeanBy(rows, func(r Record) float64 { return r.Completion }),
			AssignedMinutes: lo.SumBy(rows, func(r Record) float64 { return r.AssignedMinutes }),
			WatchedMinutes:  lo.SumBy(rows, func(r Record) float64 { return r.WatchedMinutes }),
		})
	}

	slices.SortFunc(points, func(a, b TrendPoint) int {
		return a.Week.Compare(b.Week)
	})
	return points
}
