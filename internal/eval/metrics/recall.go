package metrics

import "math"

// RecallAt computes, per entity, the fraction of its positive items that made
// it into the top-K slice. Undefined (NaN) when the entity has no positives.
// NaN label slots mark positions past the entity's observed candidates and
// contribute nothing.
func RecallAt(topk [][]float64, positives []int) []float64 {
	out := make([]float64, len(topk))
	for i, row := range topk {
		if positives[i] == 0 {
			out[i] = math.NaN()
			continue
		}

		var hits float64
		for _, label := range row {
			if !math.IsNaN(label) {
				hits += label
			}
		}
		out[i] = hits / float64(positives[i])
	}
	return out
}
