package explore

import (
	"fmt"
	"regexp"

	"semlens/internal/domain"
)

var fieldRefRe = regexp.MustCompile(`\$\{([a-zA-Z0-9_]+)\.([a-zA-Z0-9_]+)\}`)

// CompileExplore resolves a model's declared joins against the converted
// table set and assembles the final explore. The explore carries only the
// base table and the tables it joins.
func CompileExplore(model *domain.DbtModelNode, tables map[string]*domain.Table, adapter domain.SupportedAdapter) (*domain.Explore, error) {
	base, ok := tables[model.Name]
	if !ok {
		return nil, fmt.Errorf("no converted table for model %q", model.Name)
	}

	meta := model.EffectiveMeta()
	included := map[string]domain.Table{model.Name: *base}
	joins := make([]domain.CompiledJoin, 0, len(meta.Joins))
	for _, j := range meta.Joins {
		target, ok := tables[j.Join]
		if !ok {
			return nil, domain.ErrParse("model %q joins unknown table %q", model.Name, j.Join)
		}
		if j.SQLOn == "" {
			return nil, domain.ErrParse("join from %q to %q has no sql_on condition", model.Name, j.Join)
		}
		included[j.Join] = *target

		label := j.Label
		if label == "" {
			label = domain.FriendlyName(j.Join)
		}
		joins = append(joins, domain.CompiledJoin{
			Table:  j.Join,
			SQLOn:  j.SQLOn,
			Label:  label,
			Hidden: j.Hidden,
		})
	}

	for _, j := range joins {
		for _, ref := range fieldRefRe.FindAllStringSubmatch(j.SQLOn, -1) {
			refTable, refField := ref[1], ref[2]
			t, ok := included[refTable]
			if !ok {
				return nil, domain.ErrParse(
					"join condition %q in model %q references table %q which is not part of the explore",
					j.SQLOn, model.Name, refTable,
				)
			}
			if _, ok := t.Dimensions[refField]; !ok {
				return nil, domain.ErrParse(
					"join condition %q in model %q references unknown field %s.%s",
					j.SQLOn, model.Name, refTable, refField,
				)
			}
		}
	}

	label := meta.Label
	if label == "" {
		label = domain.FriendlyName(model.Name)
	}
	return &domain.Explore{
		Name:           model.Name,
		Label:          label,
		Tags:           model.Tags,
		BaseTable:      model.Name,
		Joins:          joins,
		Tables:         included,
		TargetDatabase: adapter,
	}, nil
}
