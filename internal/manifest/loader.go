// Package manifest loads dbt manifest and warehouse catalog documents from
// disk into the compiler's input types.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"semlens/internal/domain"
	"semlens/internal/service/catalog"
)

type manifestFile struct {
	Nodes   map[string]domain.DbtModelNode `json:"nodes"`
	Metrics map[string]domain.DbtMetric    `json:"metrics"`
}

// Load reads a dbt manifest.json from disk.
func Load(path string) ([]domain.DbtModelNode, []domain.DbtMetric, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(raw)
}

// Parse decodes the subset of a dbt manifest the compiler consumes: model
// nodes and metrics. Models are ordered by unique ID and metrics by name so
// a given manifest always compiles in the same order.
func Parse(raw []byte) ([]domain.DbtModelNode, []domain.DbtMetric, error) {
	var file manifestFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, nil, fmt.Errorf("parse manifest: %w", err)
	}

	models := make([]domain.DbtModelNode, 0, len(file.Nodes))
	for _, node := range file.Nodes {
		if node.ResourceType != domain.DbtResourceTypeModel {
			continue
		}
		models = append(models, node)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].UniqueID < models[j].UniqueID })

	metrics := make([]domain.DbtMetric, 0, len(file.Metrics))
	for _, metric := range file.Metrics {
		metrics = append(metrics, metric)
	}
	sort.Slice(metrics, func(i, j int) bool { return metrics[i].Name < metrics[j].Name })

	return models, metrics, nil
}

// LoadCatalog reads a warehouse catalog YAML document shaped as
// database -> schema -> table -> column -> type.
func LoadCatalog(path string) (catalog.WarehouseCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read warehouse catalog: %w", err)
	}
	var warehouse catalog.WarehouseCatalog
	if err := yaml.Unmarshal(raw, &warehouse); err != nil {
		return nil, fmt.Errorf("parse warehouse catalog: %w", err)
	}
	return warehouse, nil
}
