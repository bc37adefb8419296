package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSamplerIsReproducible(t *testing.T) {
	a, b := NewSampler(42), NewSampler(42)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.IntBetween(1, 1000), b.IntBetween(1, 1000))
		assert.Equal(t, a.Uniform(0.1, 0.9), b.Uniform(0.1, 0.9))
	}
}

func TestIntBetweenInclusive(t *testing.T) {
	s := NewSampler(1)
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		v := s.IntBetween(1, 3)
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 3)
		seen[v] = true
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, 7, s.IntBetween(7, 7))
}

func TestDateHalfOpen(t *testing.T) {
	s := NewSampler(3)
	start, end := date(2024, 1, 1), date(2024, 1, 4)
	for i := 0; i < 200; i++ {
		d := s.Date(start, end)
		assert.False(t, d.Before(start))
		assert.True(t, d.Before(end))
	}
	assert.Equal(t, start, s.Date(start, start))
}

func TestDateAfter(t *testing.T) {
	s := NewSampler(5)
	from := date(2023, 3, 10)
	for i := 0; i < 200; i++ {
		d := s.DateAfter(from, 7, 60)
		days := DaysBetween(from, d)
		assert.GreaterOrEqual(t, days, 7)
		assert.LessOrEqual(t, days, 60)
	}
}

func TestQ4DateBiasesTowardQ4(t *testing.T) {
	s := NewSampler(11)
	start, end := date(2020, 1, 1), date(2024, 12, 31)
	const n = 4000
	q4 := 0
	for i := 0; i < n; i++ {
		d := s.Q4Date(start, end, 1.0)
		require.False(t, d.Before(start))
		require.True(t, d.Before(end))
		if IsQ4(d) {
			q4++
		}
	}
	// a uniform draw lands in Q4 about 25% of the time; doubling the Q4
	// weight lifts that to about 40%
	share := float64(q4) / n
	assert.Greater(t, share, 0.33)
	assert.Less(t, share, 0.47)
}

func TestWeightedIndex(t *testing.T) {
	s := NewSampler(7)
	for i := 0; i < 100; i++ {
		assert.Equal(t, 1, s.WeightedIndex([]float64{0, 1, 0}))
	}
	counts := make([]int, 3)
	for i := 0; i < 300; i++ {
		counts[s.WeightedIndex([]float64{0, 0, 0})]++
	}
	for _, c := range counts {
		assert.Positive(t, c)
	}
}

func TestSampleDistinct(t *testing.T) {
	s := NewSampler(9)
	got := s.Sample(100, 40)
	require.Len(t, got, 40)
	seen := map[int]bool{}
	for _, i := range got {
		assert.False(t, seen[i])
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 100)
		seen[i] = true
	}
	assert.Len(t, s.Sample(3, 10), 3)
	assert.Empty(t, s.Sample(3, 0))
}

func TestLogNormalIntBounds(t *testing.T) {
	s := NewSampler(13)
	sum := 0
	const n = 2000
	for i := 0; i < n; i++ {
		v := s.LogNormalInt(4, 0.5, 1, 15)
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 15)
		sum += v
	}
	mean := float64(sum) / n
	assert.InDelta(t, 4, mean, 0.5)
}

func TestDelayDays(t *testing.T) {
	s := NewSampler(17)
	buckets := []config.DelayBucket{
		{MinDays: 1, MaxDays: 7, Weight: 0.7},
		{MinDays: 8, MaxDays: 14, Weight: 0.2},
		{MinDays: 15, MaxDays: 30, Weight: 0.1},
	}
	for i := 0; i < 500; i++ {
		d := s.DelayDays(buckets)
		assert.GreaterOrEqual(t, d, 1)
		assert.LessOrEqual(t, d, 30)
	}
	assert.Equal(t, 0, s.DelayDays(nil))
}

func TestVendorWeights(t *testing.T) {
	w, err := VendorWeights(100, 0.2, 0.8)
	require.NoError(t, err)
	require.Len(t, w, 100)

	var total, top float64
	for i, v := range w {
		total += v
		if i < 20 {
			top += v
		}
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.InDelta(t, 0.8, top, 1e-9)
	assert.InDelta(t, 0.04, w[0], 1e-12)
	assert.InDelta(t, 0.0025, w[99], 1e-12)
}

func TestVendorWeightsAllTop(t *testing.T) {
	w, err := VendorWeights(4, 1, 0.8)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, w)
}

func TestVendorWeightsRejectsEmptyTop(t *testing.T) {
	_, err := VendorWeights(3, 0.2, 0.8)
	require.Error(t, err)

	var cfgErr *config.Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, config.KeyVendorTopFraction, cfgErr.Key)

	_, err = VendorWeights(0, 0.2, 0.8)
	assert.Error(t, err)
}
