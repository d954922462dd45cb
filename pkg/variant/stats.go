package variant

import "github.com/axiomhq/hyperloglog"

// SubcolumnStats exposes approximate distinct-value statistics for a
// Subcolumn, grounded on pkg/dataobj/internal/dataset/column_stats.go's
// columnStatsBuilder. It is a read-only view over a Subcolumn's internal
// sketch and never participates in type promotion or insert validation.
type SubcolumnStats struct {
	sketch *hyperloglog.Sketch
}

// Cardinality returns the approximate number of distinct non-null scalar
// leaf values observed by the subcolumn this stats view was taken from.
func (s *SubcolumnStats) Cardinality() uint64 {
	if s == nil || s.sketch == nil {
		return 0
	}
	return s.sketch.Estimate()
}
