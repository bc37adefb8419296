// Package money rounds currency amounts to cents in decimal arithmetic so
// generated and recomputed values agree exactly.
package money

import "github.com/shopspring/decimal"

// Round2 rounds x half away from zero to two decimals.
func Round2(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

// Value returns round(quantity * price, 2).
func Value(quantity int64, price float64) float64 {
	return decimal.NewFromInt(quantity).Mul(decimal.NewFromFloat(price)).Round(2).InexactFloat64()
}

// ValueF is Value for quantities read back as floats.
func ValueF(quantity, price float64) float64 {
	return decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(price)).Round(2).InexactFloat64()
}

// Sum adds amounts without accumulating float error.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.Round(2).InexactFloat64()
}

// Ledger accumulates amounts per key in decimal arithmetic and remembers
// the order keys were first seen.
type Ledger struct {
	totals map[string]decimal.Decimal
	keys   []string
}

func NewLedger() *Ledger {
	return &Ledger{totals: make(map[string]decimal.Decimal)}
}

func (l *Ledger) Add(key string, amount float64) {
	cur, ok := l.totals[key]
	if !ok {
		l.keys = append(l.keys, key)
	}
	l.totals[key] = cur.Add(decimal.NewFromFloat(amount))
}

// Get returns the rounded total for key, zero when unseen.
func (l *Ledger) Get(key string) float64 {
	return l.totals[key].Round(2).InexactFloat64()
}

func (l *Ledger) Has(key string) bool {
	_, ok := l.totals[key]
	return ok
}

func (l *Ledger) Keys() []string {
	return append([]string(nil), l.keys...)
}

func (l *Ledger) Len() int { return len(l.keys) }

// Total is the rounded sum over every key.
func (l *Ledger) Total() float64 {
	sum := decimal.Zero
	for _, v := range l.totals {
		sum = sum.Add(v)
	}
	return sum.Round(2).InexactFloat64()
}

// Map returns the rounded totals.
func (l *Ledger) Map() map[string]float64 {
	out := make(map[string]float64, len(l.totals))
	for k, v := range l.totals {
		out[k] = v.Round(2).InexactFloat64()
	}
	return out
}
