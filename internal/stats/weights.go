package stats

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
)

// VendorWeights returns n selection weights summing to 1 where the first
// int(topFraction*n) vendors share topShare of the probability and the
// rest split the remainder equally.
func VendorWeights(n int, topFraction, topShare float64) ([]float64, error) {
	if n < 1 {
		return nil, &config.Error{Key: config.KeyNumVendors, Constraint: "must be >= 1", Value: n}
	}
	top := int(topFraction * float64(n))
	if top < 1 || top > n {
		return nil, &config.Error{
			Key:        config.KeyVendorTopFraction,
			Constraint: fmt.Sprintf("selects %d of %d vendors, need between 1 and %d", top, n, n),
			Value:      topFraction,
		}
	}

	weights := make([]float64, n)
	if top == n {
		for i := range weights {
			weights[i] = 1 / float64(n)
		}
		return weights, nil
	}

	topWeight := topShare / float64(top)
	restWeight := (1 - topShare) / float64(n-top)
	for i := range weights {
		if i < top {
			weights[i] = topWeight
		} else {
			weights[i] = restWeight
		}
	}
	return weights, nil
}
