package domain

import (
	"encoding/json"
	"fmt"
)

// DbtResourceTypeModel is the manifest resource_type for models.
const DbtResourceTypeModel = "model"

// DbtModelNode is one compiled model from a dbt manifest, restricted to the
// fields the compiler consumes.
type DbtModelNode struct {
	UniqueID     string                    `json:"unique_id"`
	ResourceType string                    `json:"resource_type"`
	Name         string                    `json:"name"`
	Database     string                    `json:"database"`
	Schema       string                    `json:"schema"`
	RelationName string                    `json:"relation_name"`
	Description  string                    `json:"description"`
	Columns      map[string]DbtModelColumn `json:"columns"`
	Config       *DbtModelConfig           `json:"config"`
	Meta         *DbtModelMeta             `json:"meta"`
	Tags         []string                  `json:"tags"`
	PatchPath    string                    `json:"patch_path"`
	DependsOn    DbtDependsOn              `json:"depends_on"`
	Compiled     bool                      `json:"compiled"`
}

// EffectiveMeta resolves the model's semantic metadata block. The config-level
// meta takes priority over the top-level meta; callers always go through this
// so the precedence rule lives in one place.
func (m *DbtModelNode) EffectiveMeta() *DbtModelMeta {
	if m.Config != nil && m.Config.Meta != nil {
		return m.Config.Meta
	}
	if m.Meta != nil {
		return m.Meta
	}
	return &DbtModelMeta{}
}

// DbtModelConfig carries the config block of a model node.
type DbtModelConfig struct {
	Meta *DbtModelMeta `json:"meta"`
}

// DbtModelMeta is the semantic metadata block of a model.
type DbtModelMeta struct {
	Label string    `json:"label"`
	Joins []DbtJoin `json:"joins"`
}

// DbtJoin declares a join from the owning model to another model.
type DbtJoin struct {
	Join   string `json:"join"`
	SQLOn  string `json:"sql_on"`
	Label  string `json:"label"`
	Hidden bool   `json:"hidden"`
}

// DbtDependsOn lists the manifest nodes a model references.
type DbtDependsOn struct {
	Nodes []string `json:"nodes"`
}

// DbtModelColumn is one declared column of a model. DataType is populated
// either from the manifest or by the warehouse catalog attacher.
type DbtModelColumn struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Meta        DbtColumnMeta `json:"meta"`
	DataType    *string       `json:"data_type"`
}

// DbtColumnMeta is the semantic metadata block of a column.
type DbtColumnMeta struct {
	Dimension DbtColumnDimension         `json:"dimension"`
	Metrics   map[string]DbtColumnMetric `json:"metrics"`
}

// DbtColumnDimension overrides how a column is exposed as a dimension.
type DbtColumnDimension struct {
	Type          *string        `json:"type"`
	SQL           *string        `json:"sql"`
	Label         *string        `json:"label"`
	Description   *string        `json:"description"`
	Format        *string        `json:"format"`
	Hidden        bool           `json:"hidden"`
	TimeIntervals *TimeIntervals `json:"time_intervals"`
}

// DbtColumnMetric declares a metric embedded under a column's meta block.
type DbtColumnMetric struct {
	Type                 string            `json:"type"`
	Label                *string           `json:"label"`
	SQL                  *string           `json:"sql"`
	Description          *string           `json:"description"`
	Format               *string           `json:"format"`
	Hidden               bool              `json:"hidden"`
	ShowUnderlyingValues []string          `json:"show_underlying_values"`
	Filters              []DbtMetricFilter `json:"filters"`
}

// DbtMetric is a dbt-native metric definition.
type DbtMetric struct {
	UniqueID          string            `json:"unique_id"`
	Name              string            `json:"name"`
	Label             string            `json:"label"`
	Description       string            `json:"description"`
	CalculationMethod string            `json:"calculation_method"`
	Expression        string            `json:"expression"`
	Filters           []DbtMetricFilter `json:"filters"`
	Metrics           [][]string        `json:"metrics"`
	Refs              [][]string        `json:"refs"`
	Tags              []string          `json:"tags"`
}

// DbtMetricFilter is one predicate of a dbt metric's filters block.
type DbtMetricFilter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// TimeIntervalsOff is the sentinel that disables time-interval expansion.
const TimeIntervalsOff = "OFF"

// TimeIntervals is a column's explicit time-interval request: either the
// literal sentinel "OFF" (expansion disabled) or an explicit list of interval
// names. An absent block means the type-appropriate default set applies.
type TimeIntervals struct {
	Off       bool
	Intervals []string
}

// UnmarshalJSON accepts "OFF", a single interval name, or a list of names.
func (t *TimeIntervals) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == TimeIntervalsOff {
			t.Off = true
			return nil
		}
		t.Intervals = []string{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("time_intervals must be %q, an interval name, or a list of interval names", TimeIntervalsOff)
	}
	t.Intervals = list
	return nil
}
