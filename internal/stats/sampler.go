// Package stats holds the seeded random primitives the generators draw from.
package stats

import (
	"math"
	"math/rand"
	"time"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
)

// Sampler owns the single seeded source of a generation run. It is not safe
// for concurrent use.
type Sampler struct {
	rand *rand.Rand
}

func NewSampler(seed int64) *Sampler {
	return &Sampler{rand: rand.New(rand.NewSource(seed))}
}

// Uniform returns a value in [lo, hi].
func (s *Sampler) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rand.Float64()
}

func (s *Sampler) UniformRange(r config.Range) float64 {
	return s.Uniform(r.Min, r.Max)
}

// IntBetween returns an integer in [lo, hi], both inclusive.
func (s *Sampler) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rand.Intn(hi-lo+1)
}

func (s *Sampler) IntRange(r config.IntRange) int {
	return s.IntBetween(r.Min, r.Max)
}

// Intn returns a value in [0, n).
func (s *Sampler) Intn(n int) int {
	return s.rand.Intn(n)
}

// Bernoulli reports true with probability p.
func (s *Sampler) Bernoulli(p float64) bool {
	return s.rand.Float64() < p
}

// Date returns a day in [start, end). When end is not after start the
// result is start.
func (s *Sampler) Date(start, end time.Time) time.Time {
	days := DaysBetween(start, end)
	if days <= 0 {
		return start
	}
	return start.AddDate(0, 0, s.rand.Intn(days))
}

// DateAfter returns from plus a whole number of days in [minDays, maxDays].
func (s *Sampler) DateAfter(from time.Time, minDays, maxDays int) time.Time {
	return from.AddDate(0, 0, s.IntBetween(minDays, maxDays))
}

// Q4Date draws a day in [start, end) biased toward October to December:
// a Q4 day is always accepted, any other day with probability
// 1/(1+increase), so Q4 days are (1+increase) times as likely.
func (s *Sampler) Q4Date(start, end time.Time, increase float64) time.Time {
	accept := 1 / (1 + math.Max(0, increase))
	for {
		d := s.Date(start, end)
		if IsQ4(d) || s.rand.Float64() < accept {
			return d
		}
	}
}

func IsQ4(t time.Time) bool {
	return t.Month() >= time.October
}

// WeightedIndex picks an index with probability proportional to its weight.
// Non-positive totals fall back to a uniform pick.
func (s *Sampler) WeightedIndex(weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return s.rand.Intn(len(weights))
	}
	target := s.rand.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		target -= w
		if target < 0 {
			return i
		}
	}
	return len(weights) - 1
}

// Choice returns a uniformly chosen element of items.
func Choice[T any](s *Sampler, items []T) T {
	return items[s.rand.Intn(len(items))]
}

// Sample returns k distinct indices from [0, n) in draw order. Memory is
// proportional to k, so n may be a large cross product.
func (s *Sampler) Sample(n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	swapped := make(map[int]int, k)
	at := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}
	out := make([]int, k)
	for i := 0; i < k; i++ {
		j := i + s.rand.Intn(n-i)
		out[i] = at(j)
		swapped[j] = at(i)
	}
	return out
}

// LogNormalInt draws from a log-normal distribution with the given mean and
// standard deviation mean*sdFactor, rounded and clamped to [lo, hi].
// hi <= 0 means no upper bound.
func (s *Sampler) LogNormalInt(mean, sdFactor float64, lo, hi int) int {
	sd := mean * sdFactor
	mu := math.Log(mean * mean / math.Sqrt(mean*mean+sd*sd))
	sigma := math.Sqrt(math.Log(1 + sd*sd/(mean*mean)))
	v := int(math.Round(math.Exp(mu + sigma*s.rand.NormFloat64())))
	if hi > 0 && v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// DelayDays picks a bucket by weight and returns a day count inside it.
func (s *Sampler) DelayDays(buckets []config.DelayBucket) int {
	if len(buckets) == 0 {
		return 0
	}
	weights := make([]float64, len(buckets))
	for i, b := range buckets {
		weights[i] = b.Weight
	}
	b := buckets[s.WeightedIndex(weights)]
	return s.IntBetween(b.MinDays, b.MaxDays)
}

// DaysBetween counts whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
