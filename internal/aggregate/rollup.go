package aggregate

import (
	"github.com/prxlab/prxdash/internal/families"
	"github.com/prxlab/prxdash/internal/metrics"
	"github.com/prxlab/prxdash/internal/models"
)

// Rollup averages each family's present members metric by metric. A member
// is present when the set holds it with Count > 0. Families without a present
// member are omitted; the rest keep the configured order.
func Rollup(set models.AggregateSet, fams families.Set) []models.FamilyRow {
	metricCount := metricCountOf(set)
	var rows []models.FamilyRow

	for _, fam := range fams {
		var members []string
		sums := make([]float64, metricCount)
		for _, style := range fam.Styles {
			entry, ok := set[style]
			if !ok || !entry.Scored() {
				continue
			}
			members = append(members, style)
			for i := 0; i < metricCount && i < len(entry.Averages); i++ {
				sums[i] += entry.Averages[i]
			}
		}
		if len(members) == 0 {
			continue
		}

		avgs := make([]float64, metricCount)
		for i := range sums {
			avgs[i] = sums[i] / float64(len(members))
		}
		rows = append(rows, models.FamilyRow{
			Name:     fam.Name,
			Members:  members,
			Averages: avgs,
			Overall:  metrics.Mean(avgs),
		})
	}
	return rows
}

// RollupMap is Rollup keyed by family name.
func RollupMap(set models.AggregateSet, fams families.Set) map[string][]float64 {
	rows := Rollup(set, fams)
	out := make(map[string][]float64, len(rows))
	for _, r := range rows {
		out[r.Name] = r.Averages
	}
	return out
}

// metricCountOf reads the metric count off any entry in the set.
func metricCountOf(set models.AggregateSet) int {
	for _, e := range set {
		return len(e.Averages)
	}
	return 0
}
