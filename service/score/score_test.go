package score

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestCalculate(t *testing.T) {
	r := Calculate(Metrics{
		Volume24h:      100000,
		HolderCount:    500,
		PriceChange24h: 15,
		TxCount24h:     200,
		CreatedAt:      now.Add(-10 * 24 * time.Hour),
	}, now)
	require.Equal(t, 100.0, r.Volume)
	require.Equal(t, 89.1, r.Holders)
	require.Equal(t, 53.8, r.Performance)
	require.Equal(t, 92.1, r.Activity)
	require.Equal(t, 77.5, r.Age)
	require.Equal(t, 84.6, r.Overall)
}

func TestCalculate_Zero(t *testing.T) {
	r := Calculate(Metrics{CreatedAt: now}, now)
	require.Equal(t, Result{Overall: 10, Performance: 50}, r)
}

func TestCalculate_Bounds(t *testing.T) {
	for i, m := range []Metrics{
		{Volume24h: 1e30, HolderCount: math.MaxInt32, PriceChange24h: 1e9, TxCount24h: math.MaxInt32, CreatedAt: now.Add(-10 * 365 * 24 * time.Hour)},
		{Volume24h: 0, HolderCount: 0, PriceChange24h: -1e9, TxCount24h: 0, CreatedAt: now},
		{Volume24h: -50, HolderCount: -3, PriceChange24h: math.NaN(), TxCount24h: -1, CreatedAt: now.Add(time.Hour)},
		{Volume24h: 0.5, HolderCount: 1, PriceChange24h: -99.9, TxCount24h: 1, CreatedAt: now.Add(-time.Minute)},
	} {
		r := Calculate(m, now)
		for _, v := range []float64{r.Overall, r.Volume, r.Holders, r.Performance, r.Activity, r.Age} {
			require.Truef(t, v >= 0 && v <= 100, "score %v out of range, tc #%d", v, i)
		}
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	m := Metrics{
		Volume24h:      12345.678,
		HolderCount:    77,
		PriceChange24h: -12.5,
		TxCount24h:     31,
		CreatedAt:      now.Add(-36 * time.Hour),
	}
	want := Calculate(m, now)
	for i := 0; i < 100; i++ {
		require.Equal(t, want, Calculate(m, now))
	}
}

func TestCalculate_PerformanceClamp(t *testing.T) {
	for _, tc := range []struct {
		change, want float64
	}{
		{-100, 25},
		{-500, 25},
		{0, 50},
		{200, 100},
		{1000, 100},
	} {
		r := Calculate(Metrics{PriceChange24h: tc.change, CreatedAt: now}, now)
		require.Equal(t, tc.want, r.Performance, "change %v", tc.change)
	}
}
