package quality

// Score is the weighted average of the per-category scores, rounded to two
// decimals. Within a category PASS earns full credit, WARNING half and
// everything else none; a category without findings earns full credit.
func Score(findings map[Category][]Finding) float64 {
	var total, weights float64
	for _, cat := range Categories {
		w := Weights[cat]
		weights += w
		total += w * CategoryScore(findings[cat])
	}
	if weights == 0 {
		return 0
	}
	return round2(total / weights)
}

// CategoryScore returns the 0-100 score of one category.
func CategoryScore(findings []Finding) float64 {
	if len(findings) == 0 {
		return 100
	}
	var credit float64
	for _, f := range findings {
		switch f.Status {
		case StatusPass:
			credit++
		case StatusWarning:
			credit += 0.5
		}
	}
	return credit / float64(len(findings)) * 100
}
