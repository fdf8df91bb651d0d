package explore

import (
	"fmt"
	"sort"
	"strings"

	"semlens/internal/domain"
)

// ConvertTable assembles one model's semantic table: its base dimensions,
// their time-interval expansions, and the merged metric set. The returned
// table carries no lineage yet; ConvertExplores attaches it.
func ConvertTable(adapter domain.SupportedAdapter, model *domain.DbtModelNode, metrics []domain.DbtMetric) (*domain.Table, error) {
	if !model.Compiled {
		return nil, domain.ErrNonCompiledModel("model %q was not compiled by dbt", model.Name)
	}
	if model.RelationName == "" {
		return nil, fmt.Errorf("model %q has no relation name", model.Name)
	}

	meta := model.EffectiveMeta()
	tableLabel := meta.Label
	if tableLabel == "" {
		tableLabel = domain.FriendlyName(model.Name)
	}

	dimensions := make(map[string]domain.Dimension)
	embedded := make(map[string]domain.Metric)
	for _, columnName := range domain.SortedKeys(model.Columns) {
		column := model.Columns[columnName]
		dim, err := ConvertDimension(adapter, model, tableLabel, column, "")
		if err != nil {
			return nil, err
		}
		dimensions[dim.Name] = dim

		if dim.Type.IsTemporal() {
			intervals, err := resolveTimeIntervals(model.Name, column, dim.Type)
			if err != nil {
				return nil, err
			}
			for _, interval := range intervals {
				variant, err := ConvertDimension(adapter, model, tableLabel, column, interval)
				if err != nil {
					return nil, err
				}
				dimensions[variant.Name] = variant
			}
		}

		for _, metricName := range domain.SortedKeys(column.Meta.Metrics) {
			m, err := ConvertColumnMetric(model, tableLabel, dim.Name, dim.SQL, metricName, column.Meta.Metrics[metricName])
			if err != nil {
				return nil, err
			}
			embedded[m.Name] = m
		}
	}

	tableMetrics := make(map[string]domain.Metric, len(metrics)+len(embedded))
	for _, dm := range metrics {
		m, err := ConvertDbtMetric(model, tableLabel, dm)
		if err != nil {
			return nil, err
		}
		tableMetrics[m.Name] = m
	}
	// column-embedded metrics win on name collision
	for name, m := range embedded {
		tableMetrics[name] = m
	}

	if duplicates := duplicateNames(dimensions, tableMetrics); len(duplicates) > 0 {
		if len(duplicates) == 1 {
			return nil, domain.ErrParse("model %q has a dimension and a metric with the same name: %s", model.Name, duplicates[0])
		}
		return nil, domain.ErrParse("model %q has dimensions and metrics with the same names: %s", model.Name, strings.Join(duplicates, ", "))
	}

	return &domain.Table{
		Name:         model.Name,
		Label:        tableLabel,
		Database:     model.Database,
		Schema:       model.Schema,
		RelationName: model.RelationName,
		Description:  model.Description,
		Dimensions:   dimensions,
		Metrics:      tableMetrics,
	}, nil
}

func duplicateNames(dimensions map[string]domain.Dimension, metrics map[string]domain.Metric) []string {
	var duplicates []string
	for name := range metrics {
		if _, ok := dimensions[name]; ok {
			duplicates = append(duplicates, name)
		}
	}
	sort.Strings(duplicates)
	return duplicates
}
