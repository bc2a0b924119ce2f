// Package metrics holds the per-entity ranking-quality formulas applied to a
// finalized top-K label matrix. Every formula maps the N×K label matrix and
// the per-entity positive counts to a length-N vector, writing NaN where the
// metric is undefined for an entity (no positives, or the entity was never
// observed). The caller decides how undefined entries enter the final mean.
package metrics

const (
	NameRecall = "recall"
	NameNDCG   = "ndcg"
)

type Func func(topk [][]float64, positives []int) []float64

// ByName resolves a metric formula from its spec/CLI name.
func ByName(name string) (Func, bool) {
	switch name {
	case NameRecall:
		return RecallAt, true
	case NameNDCG:
		return NDCGAt, true
	default:
		return nil, false
	}
}

// DefaultNames lists the built-in formulas in their conventional order.
func DefaultNames() []string {
	return []string{NameRecall, NameNDCG}
}
