package explore

import (
	"fmt"
	"strings"

	"semlens/internal/domain"
)

// parseFilters renders a metric's filters block as one AND-joined predicate
// over the owning table placeholder.
func parseFilters(filters []domain.DbtMetricFilter) string {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		parts = append(parts, fmt.Sprintf("(${TABLE}.%s %s %s)", f.Field, f.Operator, f.Value))
	}
	return strings.Join(parts, " AND ")
}

// wrapSQLInFilters guards a metric SQL fragment so filtered-out rows
// contribute NULL to the aggregate.
func wrapSQLInFilters(sql string, filters []domain.DbtMetricFilter) string {
	if len(filters) == 0 {
		return sql
	}
	return fmt.Sprintf("CASE WHEN %s THEN %s ELSE NULL END", parseFilters(filters), sql)
}
