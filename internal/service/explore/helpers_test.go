package explore

import (
	"semlens/internal/domain"
)

func strptr(s string) *string { return &s }

func compiledModel(name string, columns map[string]domain.DbtModelColumn) domain.DbtModelNode {
	return domain.DbtModelNode{
		UniqueID:     "model.jaffle_shop." + name,
		ResourceType: domain.DbtResourceTypeModel,
		Name:         name,
		Database:     "analytics",
		Schema:       "public",
		RelationName: `"analytics"."public"."` + name + `"`,
		Columns:      columns,
		Compiled:     true,
	}
}

func column(name, dataType string) domain.DbtModelColumn {
	col := domain.DbtModelColumn{Name: name}
	if dataType != "" {
		col.DataType = strptr(dataType)
	}
	return col
}
