package core

import (
	"github.com/montanaflynn/stats"

	"github.com/JonMunkholm/c2m2filter/internal/c2m2"
)

// summarize builds the upload summary for a freshly loaded table.
func summarize(name, contentType string, size int64, t *c2m2.Table, opts c2m2.FilterOptions) UploadSummary {
	return UploadSummary{
		FileName:    name,
		ContentType: contentType,
		Size:        size,
		Rows:        t.Len(),
		Columns:     t.Columns(),
		Domains:     len(opts.Domains),
		Modules:     len(opts.Modules),
		MILs:        len(opts.MILs),
		PerDomain:   distribution(t, c2m2.ColDomain),
	}
}

// distribution reports how many rows share each value of col.
func distribution(t *c2m2.Table, col string) Distribution {
	cells, ok := t.Column(col)
	if !ok || len(cells) == 0 {
		return Distribution{}
	}

	counts := make(map[string]int)
	for _, c := range cells {
		counts[c.String()]++
	}
	data := make(stats.Float64Data, 0, len(counts))
	for _, n := range counts {
		data = append(data, float64(n))
	}

	var d Distribution
	d.Min, _ = stats.Min(data)
	d.Max, _ = stats.Max(data)
	d.Mean, _ = stats.Mean(data)
	d.Median, _ = stats.Median(data)
	return d
}
