package explore

import (
	"fmt"

	"semlens/internal/domain"
)

// timestampSQLByAdapter normalises TIMESTAMP dimension SQL per warehouse
// dialect. Every adapter except Snowflake is currently a pass-through.
var timestampSQLByAdapter = map[domain.SupportedAdapter]func(string) string{
	domain.AdapterBigQuery:   identitySQL,
	domain.AdapterDatabricks: identitySQL,
	domain.AdapterPostgres:   identitySQL,
	domain.AdapterRedshift:   identitySQL,
	domain.AdapterSnowflake: func(sql string) string {
		return fmt.Sprintf("TO_TIMESTAMP_NTZ(CONVERT_TIMEZONE('UTC', %s))", sql)
	},
	domain.AdapterTrino: identitySQL,
}

func identitySQL(sql string) string { return sql }

// ConvertDimension converts one dbt column into a semantic dimension. When
// interval is non-empty the dimension is rewritten into that time-interval
// variant, with Group linking it back to the base column.
func ConvertDimension(adapter domain.SupportedAdapter, model *domain.DbtModelNode, tableLabel string, column domain.DbtModelColumn, interval domain.TimeInterval) (domain.Dimension, error) {
	override := column.Meta.Dimension

	raw := string(domain.DimensionTypeString)
	if override.Type != nil {
		raw = *override.Type
	} else if column.DataType != nil {
		raw = *column.DataType
	}
	dimType, ok := domain.ParseDimensionType(raw)
	if !ok {
		return domain.Dimension{}, domain.ErrMissingCatalogEntry(
			"column %q of model %q has dimension type %q which is not recognised; allowed types: %v",
			column.Name, model.Name, raw, domain.DimensionTypes(),
		)
	}

	name := column.Name
	label := domain.FriendlyName(name)
	if override.Label != nil {
		label = *override.Label
	}
	sql := "${TABLE}." + column.Name
	if override.SQL != nil {
		sql = *override.SQL
	}
	if dimType == domain.DimensionTypeTimestamp {
		if convert, ok := timestampSQLByAdapter[adapter]; ok {
			sql = convert(sql)
		} else {
			return domain.Dimension{}, domain.ErrParse("no timestamp conversion registered for adapter %q", adapter)
		}
	}

	dim := domain.Dimension{
		Name:       name,
		Label:      label,
		Table:      model.Name,
		TableLabel: tableLabel,
		Type:       dimType,
		SQL:        sql,
		Hidden:     override.Hidden,
	}
	if override.Description != nil {
		dim.Description = *override.Description
	} else {
		dim.Description = column.Description
	}
	if override.Format != nil {
		dim.Format = *override.Format
	}

	if interval != "" {
		dim.Name = intervalDimensionName(interval, column.Name)
		dim.Label = intervalLabel(interval, label)
		dim.SQL = intervalSQL(interval, sql)
		dim.Type = intervalType(interval, dimType)
		dim.TimeInterval = interval
		dim.Group = column.Name
	}
	return dim, nil
}
