package metrics

import "math"

// DiscountCoefs returns the positional discount weights 1/log2(rank+2) for
// ranks 0..k-1.
func DiscountCoefs(k int) []float64 {
	coefs := make([]float64, k)
	for i := range coefs {
		coefs[i] = 1 / math.Log2(float64(i+2))
	}
	return coefs
}

// NDCGAt computes normalized discounted gain over the top-K labels. The
// discounted sum of the row is normalized by the ideal sum an entity with p
// positives could reach, i.e. the weights of the first min(p, K) ranks.
// Undefined (NaN) when the entity has no positives.
func NDCGAt(topk [][]float64, positives []int) []float64 {
	out := make([]float64, len(topk))
	if len(topk) == 0 {
		return out
	}

	k := len(topk[0])
	coefs := DiscountCoefs(k)

	for i, row := range topk {
		p := positives[i]
		if p == 0 {
			out[i] = math.NaN()
			continue
		}

		var gain float64
		for rank, label := range row {
			if !math.IsNaN(label) {
				gain += label * coefs[rank]
			}
		}

		var ideal float64
		for rank := 0; rank < min(p, k); rank++ {
			ideal += coefs[rank]
		}

		out[i] = gain / ideal
	}
	return out
}
