package kpi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/larissaOjeda/thesis-canvas/internal/semester"
)

func ts(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	return &t
}

func f64(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

func spring2024(t *testing.T) semester.Window {
	t.Helper()
	w, err := semester.Resolve(2024, semester.SeasonSpring)
	require.NoError(t, err)
	return w
}
