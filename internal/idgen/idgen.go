// Package idgen issues prefixed, zero-padded sequential identifiers.
package idgen

import (
	"fmt"
	"strconv"
	"strings"
)

// Widths used by the procurement tables.
const (
	VendorWidth   = 7
	MaterialWidth = 7
	ContractWidth = 5
	POWidth       = 10
	ItemWidth     = 5
	DocWidth      = 5
)

// Next returns prefix + zero-padded(number of prev + 1). An empty or
// unparsable prev restarts the sequence at 1.
func Next(prefix, prev string, width int) string {
	n := 1
	if prev != "" && strings.HasPrefix(prev, prefix) {
		if cur, err := strconv.Atoi(prev[len(prefix):]); err == nil && cur >= 0 {
			n = cur + 1
		}
	}
	return format(prefix, n, width)
}

func format(prefix string, n, width int) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}

// Sequence is the counter state for one identifier series. Each generator
// owns its sequences; nothing is shared between runs.
type Sequence struct {
	prefix string
	width  int
	last   string
}

func NewSequence(prefix string, width int) *Sequence {
	return &Sequence{prefix: prefix, width: width}
}

// Next issues the following identifier.
func (s *Sequence) Next() string {
	s.last = Next(s.prefix, s.last, s.width)
	return s.last
}
