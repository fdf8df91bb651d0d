package explore

import (
	"regexp"
	"strings"

	"semlens/internal/domain"
)

// CalculationMethodExpression marks derived dbt metrics composed from other
// metrics.
const CalculationMethodExpression = "expression"

var bareColumnRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ConvertColumnMetric converts a metric embedded under a column's meta block,
// keyed by the owning dimension's name and SQL.
func ConvertColumnMetric(model *domain.DbtModelNode, tableLabel, dimensionName, dimensionSQL, name string, cm domain.DbtColumnMetric) (domain.Metric, error) {
	metricType, ok := domain.ParseMetricType(cm.Type)
	if !ok {
		return domain.Metric{}, domain.ErrParse(
			"metric %q on column %q of model %q has unrecognised type %q",
			name, dimensionName, model.Name, cm.Type,
		)
	}

	sql := dimensionSQL
	if cm.SQL != nil {
		sql = *cm.SQL
	}

	metric := domain.Metric{
		Name:                 name,
		Label:                domain.FriendlyName(name),
		Table:                model.Name,
		TableLabel:           tableLabel,
		Type:                 metricType,
		SQL:                  wrapSQLInFilters(sql, cm.Filters),
		Hidden:               cm.Hidden,
		ShowUnderlyingValues: cm.ShowUnderlyingValues,
	}
	if cm.Label != nil {
		metric.Label = *cm.Label
	}
	if cm.Description != nil {
		metric.Description = *cm.Description
	}
	if cm.Format != nil {
		metric.Format = *cm.Format
	}
	return metric, nil
}

// ConvertDbtMetric converts a dbt-native metric into a semantic metric.
//
// Expression metrics become NUMBER metrics whose referenced metric names are
// rewritten to ${name} placeholders. The rewrite is a word-boundary regex
// substitution over the expression text, not an expression parse; a metric
// name that also appears as a column identifier in the expression will be
// substituted too.
func ConvertDbtMetric(model *domain.DbtModelNode, tableLabel string, metric domain.DbtMetric) (domain.Metric, error) {
	label := metric.Label
	if label == "" {
		label = domain.FriendlyName(metric.Name)
	}

	if metric.CalculationMethod == CalculationMethodExpression {
		sql, err := substituteMetricRefs(metric)
		if err != nil {
			return domain.Metric{}, err
		}
		return domain.Metric{
			Name:        metric.Name,
			Label:       label,
			Table:       model.Name,
			TableLabel:  tableLabel,
			Type:        domain.MetricTypeNumber,
			SQL:         wrapSQLInFilters(sql, metric.Filters),
			Description: metric.Description,
		}, nil
	}

	metricType, ok := domain.ParseMetricType(metric.CalculationMethod)
	if !ok {
		return domain.Metric{}, domain.ErrParse(
			"dbt metric %q has unrecognised calculation method %q",
			metric.Name, metric.CalculationMethod,
		)
	}

	// without an expression the metric name doubles as the column name
	sql := "${TABLE}." + metric.Name
	if expr := strings.TrimSpace(metric.Expression); expr != "" {
		sql = expr
		if bareColumnRe.MatchString(expr) {
			// a bare identifier is a column name, not a SQL fragment
			sql = "${TABLE}." + expr
		}
	}

	return domain.Metric{
		Name:        metric.Name,
		Label:       label,
		Table:       model.Name,
		TableLabel:  tableLabel,
		Type:        metricType,
		SQL:         wrapSQLInFilters(sql, metric.Filters),
		Description: metric.Description,
	}, nil
}

func substituteMetricRefs(metric domain.DbtMetric) (string, error) {
	sql := strings.TrimSpace(metric.Expression)
	if sql == "" {
		return "", domain.ErrParse("expression metric %q has no expression", metric.Name)
	}
	for _, ref := range metric.Metrics {
		if len(ref) == 0 {
			continue
		}
		name := ref[len(ref)-1]
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\b`)
		if err != nil {
			return "", domain.ErrParse("expression metric %q references invalid metric name %q", metric.Name, name)
		}
		// $$ keeps the dollar literal in the replacement template
		sql = re.ReplaceAllString(sql, "$${"+name+"}")
	}
	return sql, nil
}
