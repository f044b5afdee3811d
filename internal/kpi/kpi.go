// Package kpi implements the semester-windowed aggregation layer: pure
// functions that reduce replicated Canvas entity tables to KPI values.
// Every function is referentially transparent, never mutates its input
// slices and never panics on empty input. Null timestamp handling follows
// one rule: end-type fields (updated_at acting as an end date) are
// open-ended when nil, comparison-bearing fields (created_at, submitted_at)
// exclude the row when nil.
package kpi

import (
	"sort"
	"time"

	"github.com/larissaOjeda/thesis-canvas/internal/semester"
)

// inWindow reports whether a nullable timestamp falls inside the window.
// Nil excludes the row.
func inWindow(t *time.Time, w semester.Window) bool {
	return t != nil && w.Contains(*t)
}

// onOrBefore reports t <= bound, with nil excluding the row.
func onOrBefore(t *time.Time, bound time.Time) bool {
	return t != nil && !t.After(bound)
}

// onOrAfter reports t >= bound, with nil excluding the row.
func onOrAfter(t *time.Time, bound time.Time) bool {
	return t != nil && !t.Before(bound)
}

// openEndedOnOrAfter reports t >= bound, treating nil as open-ended.
func openEndedOnOrAfter(t *time.Time, bound time.Time) bool {
	return t == nil || !t.Before(bound)
}

func sortedKeys(m map[int64]struct{}) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
