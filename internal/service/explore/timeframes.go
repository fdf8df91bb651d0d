// Package explore compiles dbt manifest metadata into queryable explores:
// per-model tables with dimensions, metrics, lineage, and resolved joins.
package explore

import (
	"fmt"
	"strings"

	"semlens/internal/domain"
)

var dateIntervals = []domain.TimeInterval{
	domain.TimeIntervalRaw,
	domain.TimeIntervalDay,
	domain.TimeIntervalWeek,
	domain.TimeIntervalMonth,
	domain.TimeIntervalQuarter,
	domain.TimeIntervalYear,
}

var timestampIntervals = append([]domain.TimeInterval{
	domain.TimeIntervalMillisecond,
	domain.TimeIntervalSecond,
	domain.TimeIntervalMinute,
	domain.TimeIntervalHour,
}, dateIntervals...)

var defaultDateIntervals = []domain.TimeInterval{
	domain.TimeIntervalDay,
	domain.TimeIntervalWeek,
	domain.TimeIntervalMonth,
	domain.TimeIntervalQuarter,
	domain.TimeIntervalYear,
}

var defaultTimestampIntervals = append([]domain.TimeInterval{
	domain.TimeIntervalRaw,
	domain.TimeIntervalSecond,
	domain.TimeIntervalMinute,
	domain.TimeIntervalHour,
}, defaultDateIntervals...)

func allowedIntervals(base domain.DimensionType) []domain.TimeInterval {
	if base == domain.DimensionTypeTimestamp {
		return timestampIntervals
	}
	return dateIntervals
}

func defaultIntervals(base domain.DimensionType) []domain.TimeInterval {
	if base == domain.DimensionTypeTimestamp {
		return defaultTimestampIntervals
	}
	return defaultDateIntervals
}

// resolveTimeIntervals decides which interval variants a temporal column
// expands into. An explicit list is validated verbatim against the allowed
// set for the base type; the "OFF" sentinel disables expansion; absence
// selects the type-appropriate defaults.
func resolveTimeIntervals(modelName string, column domain.DbtModelColumn, base domain.DimensionType) ([]domain.TimeInterval, error) {
	requested := column.Meta.Dimension.TimeIntervals
	if requested == nil {
		return defaultIntervals(base), nil
	}
	if requested.Off {
		return nil, nil
	}

	allowed := allowedIntervals(base)
	out := make([]domain.TimeInterval, 0, len(requested.Intervals))
	for _, name := range requested.Intervals {
		iv := domain.TimeInterval(strings.ToUpper(strings.TrimSpace(name)))
		valid := false
		for _, a := range allowed {
			if iv == a {
				valid = true
				break
			}
		}
		if !valid {
			return nil, domain.ErrParse(
				"invalid time interval %q on column %q of model %q: %s columns allow %s",
				name, column.Name, modelName, strings.ToLower(string(base)), intervalNames(allowed),
			)
		}
		out = append(out, iv)
	}
	return out, nil
}

func intervalNames(intervals []domain.TimeInterval) string {
	names := make([]string, len(intervals))
	for i, iv := range intervals {
		names[i] = string(iv)
	}
	return strings.Join(names, ", ")
}

// intervalSQL truncates the base SQL expression to the interval's grain.
func intervalSQL(interval domain.TimeInterval, baseSQL string) string {
	if interval == domain.TimeIntervalRaw {
		return baseSQL
	}
	return fmt.Sprintf("DATE_TRUNC('%s', %s)", strings.ToLower(string(interval)), baseSQL)
}

// intervalType is the dimension type after truncation. Day-and-coarser
// truncations of a timestamp demote to DATE.
func intervalType(interval domain.TimeInterval, base domain.DimensionType) domain.DimensionType {
	switch interval {
	case domain.TimeIntervalRaw:
		return base
	case domain.TimeIntervalMillisecond, domain.TimeIntervalSecond,
		domain.TimeIntervalMinute, domain.TimeIntervalHour:
		return domain.DimensionTypeTimestamp
	default:
		return domain.DimensionTypeDate
	}
}

func intervalLabel(interval domain.TimeInterval, baseLabel string) string {
	return baseLabel + " " + domain.FriendlyName(strings.ToLower(string(interval)))
}

func intervalDimensionName(interval domain.TimeInterval, columnName string) string {
	return columnName + "_" + strings.ToLower(string(interval))
}
