package explore

import (
	"errors"
	"fmt"

	"semlens/internal/domain"
)

// Result is the outcome of one compilation run: explores in input model
// order followed by the per-model errors in the order they occurred.
type Result struct {
	Explores []domain.Explore      `json:"explores"`
	Errors   []domain.ExploreError `json:"errors"`
}

// ConvertExplores compiles every model into an explore. A failing model is
// reported as an ExploreError and never blocks the remaining models; only
// the inputs themselves can make this function fail.
func ConvertExplores(models []domain.DbtModelNode, metrics []domain.DbtMetric, adapter domain.SupportedAdapter) *Result {
	metricsByName := make(map[string]domain.DbtMetric, len(metrics))
	for _, m := range metrics {
		metricsByName[m.Name] = m
	}

	result := &Result{Explores: []domain.Explore{}, Errors: []domain.ExploreError{}}

	tables := make(map[string]*domain.Table, len(models))
	var converted []*domain.DbtModelNode
	for i := range models {
		model := &models[i]

		var eligible []domain.DbtMetric
		for _, m := range metrics {
			if modelCanUseMetric(m, model.Name, metricsByName, map[string]bool{}) {
				eligible = append(eligible, m)
			}
		}

		table, err := ConvertTable(adapter, model, eligible)
		if err != nil {
			result.Errors = append(result.Errors, exploreError(model, err))
			continue
		}
		tables[model.Name] = table
		converted = append(converted, model)
	}

	graph := BuildModelGraph(models)
	for _, model := range converted {
		tables[model.Name].LineageGraph = BuildLineageGraph(graph, model.Name)
	}

	for _, model := range converted {
		explore, err := CompileExplore(model, tables, adapter)
		if err != nil {
			result.Errors = append(result.Errors, exploreError(model, err))
			continue
		}
		result.Explores = append(result.Explores, *explore)
	}
	return result
}

// modelCanUseMetric decides whether a dbt metric may be exposed on a model:
// either the metric's first ref names the model, or it is an expression
// metric whose referenced metrics are all usable by the model. visited holds
// the active recursion stack, so a metric re-reached through a second branch
// of an acyclic graph is re-evaluated while a true reference cycle is
// ineligible.
func modelCanUseMetric(metric domain.DbtMetric, modelName string, byName map[string]domain.DbtMetric, visited map[string]bool) bool {
	if visited[metric.Name] {
		return false
	}
	visited[metric.Name] = true
	defer delete(visited, metric.Name)

	if ref := firstRef(metric); ref != "" && ref == modelName {
		return true
	}
	if metric.CalculationMethod == CalculationMethodExpression && len(metric.Metrics) > 0 {
		for _, ref := range metric.Metrics {
			if len(ref) == 0 {
				return false
			}
			dep, ok := byName[ref[len(ref)-1]]
			if !ok || !modelCanUseMetric(dep, modelName, byName, visited) {
				return false
			}
		}
		return true
	}
	return false
}

func firstRef(metric domain.DbtMetric) string {
	if len(metric.Refs) == 0 || len(metric.Refs[0]) == 0 {
		return ""
	}
	ref := metric.Refs[0]
	return ref[len(ref)-1]
}

func exploreError(model *domain.DbtModelNode, err error) domain.ExploreError {
	label := model.EffectiveMeta().Label
	if label == "" {
		label = domain.FriendlyName(model.Name)
	}
	return domain.ExploreError{
		Name:   model.Name,
		Label:  label,
		Tags:   model.Tags,
		Errors: []domain.InlineError{inlineError(model.Name, err)},
	}
}

func inlineError(modelName string, err error) domain.InlineError {
	message := err.Error()
	if message == "" {
		message = fmt.Sprintf("could not convert model %q into an explore", modelName)
	}

	var parseErr *domain.ParseError
	var nonCompiledErr *domain.NonCompiledModelError
	var catalogErr *domain.MissingCatalogEntryError
	switch {
	case errors.As(err, &parseErr):
		return domain.InlineError{Type: "ParseError", Message: message}
	case errors.As(err, &nonCompiledErr):
		return domain.InlineError{Type: "NonCompiledModelError", Message: message}
	case errors.As(err, &catalogErr):
		return domain.InlineError{Type: "MissingCatalogEntryError", Message: message}
	default:
		return domain.InlineError{Type: "UnexpectedError", Message: message}
	}
}
