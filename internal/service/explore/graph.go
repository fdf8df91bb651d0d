package explore

import (
	"sort"

	"semlens/internal/domain"
)

// ModelGraph is a directed dependency graph over a manifest's models, keyed
// by model name. An edge a -> b means a references b.
type ModelGraph struct {
	models     map[string]*domain.DbtModelNode
	deps       map[string][]string // direct dependencies, sorted
	dependants map[string][]string // direct dependants, sorted
}

// BuildModelGraph indexes the models' declared relations. Referenced nodes
// that are not models in the set (sources, seeds) carry no edges.
func BuildModelGraph(models []domain.DbtModelNode) *ModelGraph {
	g := &ModelGraph{
		models:     make(map[string]*domain.DbtModelNode, len(models)),
		deps:       make(map[string][]string),
		dependants: make(map[string][]string),
	}

	nameByUniqueID := make(map[string]string, len(models))
	for i := range models {
		m := &models[i]
		g.models[m.Name] = m
		nameByUniqueID[m.UniqueID] = m.Name
	}

	for i := range models {
		m := &models[i]
		seen := make(map[string]bool)
		for _, nodeID := range m.DependsOn.Nodes {
			dep, ok := nameByUniqueID[nodeID]
			if !ok || dep == m.Name || seen[dep] {
				continue
			}
			seen[dep] = true
			g.deps[m.Name] = append(g.deps[m.Name], dep)
			g.dependants[dep] = append(g.dependants[dep], m.Name)
		}
	}

	for _, adj := range []map[string][]string{g.deps, g.dependants} {
		for _, list := range adj {
			sort.Strings(list)
		}
	}
	return g
}

// GetNodeData returns the model behind a graph node.
func (g *ModelGraph) GetNodeData(name string) (*domain.DbtModelNode, bool) {
	m, ok := g.models[name]
	return m, ok
}

// DirectDependenciesOf returns the models name directly references.
func (g *ModelGraph) DirectDependenciesOf(name string) []string {
	return g.deps[name]
}

// DependenciesOf returns every transitive upstream model of name, sorted.
func (g *ModelGraph) DependenciesOf(name string) []string {
	return g.walk(name, g.deps)
}

// DependantsOf returns every transitive downstream model of name, sorted.
func (g *ModelGraph) DependantsOf(name string) []string {
	return g.walk(name, g.dependants)
}

func (g *ModelGraph) walk(start string, adj map[string][]string) []string {
	seen := map[string]bool{start: true}
	queue := []string{start}
	var out []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if seen[next] {
				continue
			}
			seen[next] = true
			out = append(out, next)
			queue = append(queue, next)
		}
	}
	sort.Strings(out)
	return out
}

// BuildLineageGraph computes the lineage neighbourhood of one model: every
// member of its transitive family (ancestors, descendants, and the model
// itself) mapped to that member's own direct dependencies. A member's direct
// dependency may fall outside the family; it then appears as a descriptor
// without an entry of its own.
func BuildLineageGraph(g *ModelGraph, modelName string) domain.LineageGraph {
	family := append(g.DependantsOf(modelName), g.DependenciesOf(modelName)...)
	family = append(family, modelName)

	lineage := make(domain.LineageGraph, len(family))
	for _, member := range family {
		deps := g.DirectDependenciesOf(member)
		nodes := make([]domain.LineageNodeDependency, 0, len(deps))
		for _, dep := range deps {
			nodes = append(nodes, domain.LineageNodeDependency{Type: "model", Name: dep})
		}
		lineage[member] = nodes
	}
	return lineage
}
