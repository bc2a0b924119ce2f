package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/DjordjeVuckovic/rank-hunter/pkg/utils"
)

func WriteTable(r *Report, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Ranking Quality Evaluation ===\n\n")
	if r.Meta.Dataset != "" {
		fmt.Fprintf(tw, "Dataset: %s\n", r.Meta.Dataset)
	}
	fmt.Fprintf(tw, "Entities: %d\tBatches: %d\tEdges: %d\tElapsed: %.1fms\n\n",
		r.Pass.Entities, r.Pass.Batches, r.Pass.Edges, r.Pass.ElapsedMS)

	header := []string{fmt.Sprintf("Metric@%d", r.Config.K), "Score", "Undefined entities"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	for _, m := range r.Metrics {
		score := "undefined"
		if m.Score != nil {
			score = fmt.Sprintf("%.4f", utils.RoundDecimal(*m.Score, 4))
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", m.Name, score, m.Undefined)
	}

	fmt.Fprintf(tw, "\nUndefined policy: %s\n", r.Config.Undefined)

	tw.Flush()
}
