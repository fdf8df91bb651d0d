package domain

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// DimensionType is the value type of a semantic dimension.
type DimensionType string

const (
	DimensionTypeString    DimensionType = "STRING"
	DimensionTypeNumber    DimensionType = "NUMBER"
	DimensionTypeBoolean   DimensionType = "BOOLEAN"
	DimensionTypeDate      DimensionType = "DATE"
	DimensionTypeTimestamp DimensionType = "TIMESTAMP"
)

// DimensionTypes lists every recognised dimension type, in a stable order
// suitable for error messages.
func DimensionTypes() []DimensionType {
	return []DimensionType{
		DimensionTypeBoolean,
		DimensionTypeDate,
		DimensionTypeNumber,
		DimensionTypeString,
		DimensionTypeTimestamp,
	}
}

// ParseDimensionType resolves a type name case-insensitively.
func ParseDimensionType(s string) (DimensionType, bool) {
	t := DimensionType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case DimensionTypeString, DimensionTypeNumber, DimensionTypeBoolean,
		DimensionTypeDate, DimensionTypeTimestamp:
		return t, true
	}
	return "", false
}

// IsTemporal reports whether dimensions of this type support time-interval
// expansion.
func (t DimensionType) IsTemporal() bool {
	return t == DimensionTypeDate || t == DimensionTypeTimestamp
}

// MetricType is the aggregation kind of a semantic metric. MetricTypeNumber
// marks non-aggregating expression metrics.
type MetricType string

const (
	MetricTypeAverage       MetricType = "AVERAGE"
	MetricTypeCount         MetricType = "COUNT"
	MetricTypeCountDistinct MetricType = "COUNT_DISTINCT"
	MetricTypeMax           MetricType = "MAX"
	MetricTypeMin           MetricType = "MIN"
	MetricTypeNumber        MetricType = "NUMBER"
	MetricTypeSum           MetricType = "SUM"
)

// ParseMetricType resolves a metric type or dbt calculation method name
// case-insensitively.
func ParseMetricType(s string) (MetricType, bool) {
	t := MetricType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case MetricTypeAverage, MetricTypeCount, MetricTypeCountDistinct,
		MetricTypeMax, MetricTypeMin, MetricTypeNumber, MetricTypeSum:
		return t, true
	}
	return "", false
}

// TimeInterval is a granularity truncation applied to a temporal dimension.
type TimeInterval string

const (
	TimeIntervalRaw         TimeInterval = "RAW"
	TimeIntervalMillisecond TimeInterval = "MILLISECOND"
	TimeIntervalSecond      TimeInterval = "SECOND"
	TimeIntervalMinute      TimeInterval = "MINUTE"
	TimeIntervalHour        TimeInterval = "HOUR"
	TimeIntervalDay         TimeInterval = "DAY"
	TimeIntervalWeek        TimeInterval = "WEEK"
	TimeIntervalMonth       TimeInterval = "MONTH"
	TimeIntervalQuarter     TimeInterval = "QUARTER"
	TimeIntervalYear        TimeInterval = "YEAR"
)

// SupportedAdapter identifies a dbt warehouse adapter kind. It selects
// dialect-specific SQL hooks during dimension conversion.
type SupportedAdapter string

const (
	AdapterBigQuery   SupportedAdapter = "bigquery"
	AdapterDatabricks SupportedAdapter = "databricks"
	AdapterPostgres   SupportedAdapter = "postgres"
	AdapterRedshift   SupportedAdapter = "redshift"
	AdapterSnowflake  SupportedAdapter = "snowflake"
	AdapterTrino      SupportedAdapter = "trino"
)

// ParseAdapter resolves an adapter name, failing with a ParseError on
// unrecognised kinds.
func ParseAdapter(s string) (SupportedAdapter, error) {
	a := SupportedAdapter(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case AdapterBigQuery, AdapterDatabricks, AdapterPostgres,
		AdapterRedshift, AdapterSnowflake, AdapterTrino:
		return a, nil
	}
	return "", ErrParse("unrecognised warehouse adapter %q (expected one of bigquery, databricks, postgres, redshift, snowflake, trino)", s)
}

// Dimension is a groupable, non-aggregated semantic field.
type Dimension struct {
	Name         string        `json:"name"`
	Label        string        `json:"label"`
	Table        string        `json:"table"`
	TableLabel   string        `json:"tableLabel"`
	Type         DimensionType `json:"type"`
	SQL          string        `json:"sql"`
	Description  string        `json:"description,omitempty"`
	Format       string        `json:"format,omitempty"`
	Hidden       bool          `json:"hidden,omitempty"`
	TimeInterval TimeInterval  `json:"timeInterval,omitempty"`
	// Group links a time-interval expansion back to its base column name.
	Group string `json:"group,omitempty"`
}

// Metric is an aggregated semantic field. SQL carries any compiled filter
// guard already applied.
type Metric struct {
	Name                 string     `json:"name"`
	Label                string     `json:"label"`
	Table                string     `json:"table"`
	TableLabel           string     `json:"tableLabel"`
	Type                 MetricType `json:"type"`
	SQL                  string     `json:"sql"`
	Description          string     `json:"description,omitempty"`
	Format               string     `json:"format,omitempty"`
	Hidden               bool       `json:"hidden,omitempty"`
	ShowUnderlyingValues []string   `json:"showUnderlyingValues,omitempty"`
}

// LineageNodeDependency describes one direct dependency edge in a lineage
// graph.
type LineageNodeDependency struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// LineageGraph maps every member of one model's transitive family to that
// member's own direct dependencies.
type LineageGraph map[string][]LineageNodeDependency

// Table is one model's compiled semantic unit.
type Table struct {
	Name         string               `json:"name"`
	Label        string               `json:"label"`
	Database     string               `json:"database"`
	Schema       string               `json:"schema"`
	RelationName string               `json:"relationName"`
	Description  string               `json:"description,omitempty"`
	Dimensions   map[string]Dimension `json:"dimensions"`
	Metrics      map[string]Metric    `json:"metrics"`
	LineageGraph LineageGraph         `json:"lineageGraph"`
}

// CompiledJoin is a resolved join edge of an explore.
type CompiledJoin struct {
	Table  string `json:"table"`
	SQLOn  string `json:"sqlOn"`
	Label  string `json:"label,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
}

// Explore is a joined, validated semantic model over one or more tables.
type Explore struct {
	Name           string           `json:"name"`
	Label          string           `json:"label"`
	Tags           []string         `json:"tags"`
	BaseTable      string           `json:"baseTable"`
	Joins          []CompiledJoin   `json:"joins"`
	Tables         map[string]Table `json:"tables"`
	TargetDatabase SupportedAdapter `json:"targetDatabase"`
}

// InlineError is one structured error entry of an ExploreError.
type InlineError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ExploreError records a model that could not be compiled into an explore.
type ExploreError struct {
	Name   string        `json:"name"`
	Label  string        `json:"label"`
	Tags   []string      `json:"tags"`
	Errors []InlineError `json:"errors"`
}

// FriendlyName renders a snake_case identifier as a human label.
func FriendlyName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == ' ' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = strings.ToUpper(string(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// SortedKeys returns the keys of a string-keyed map in sorted order. Column
// and metric maps are iterated through this so compiler output is
// deterministic.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
