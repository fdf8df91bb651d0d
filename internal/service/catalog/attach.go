// Package catalog cross-references dbt models against a live warehouse
// catalog, attaching resolved column types ahead of explore compilation.
package catalog

import (
	"strings"

	"semlens/internal/domain"
)

// WarehouseCatalog maps database -> schema -> table -> column -> type as
// reported by the warehouse client layer.
type WarehouseCatalog map[string]map[string]map[string]map[string]string

// Options control catalog matching behaviour.
type Options struct {
	// CaseSensitive requires exact-case key matches at every level. When
	// false, each level independently falls back to the first
	// case-insensitive match.
	CaseSensitive bool
	// FailOnMissingEntry aborts attachment when a model or column has no
	// catalog entry. When false, unresolved columns are left untyped and
	// the dimension converter's STRING fallback applies.
	FailOnMissingEntry bool
}

// DefaultOptions matches strictly and fails on unresolved entries.
func DefaultOptions() Options {
	return Options{CaseSensitive: true, FailOnMissingEntry: true}
}

// AttachTypes verifies every model against the warehouse catalog and returns
// a fresh model list with column types attached. The input is not mutated.
// Unlike conversion errors, an attachment error aborts the whole run: an
// unresolvable catalog is a global precondition failure, not a per-model one.
func AttachTypes(models []domain.DbtModelNode, warehouse WarehouseCatalog, opts Options) ([]domain.DbtModelNode, error) {
	out := make([]domain.DbtModelNode, len(models))
	for i, model := range models {
		schemas, ok := lookupKey(warehouse, model.Database, opts.CaseSensitive)
		var tables map[string]map[string]string
		if ok {
			tables, ok = lookupKey(schemas, model.Schema, opts.CaseSensitive)
		}
		var columns map[string]string
		if ok {
			columns, ok = lookupKey(tables, model.Name, opts.CaseSensitive)
		}
		if !ok {
			if opts.FailOnMissingEntry {
				return nil, domain.ErrMissingCatalogEntry(
					"model %q not found in warehouse catalog (expected table %s.%s.%s)",
					model.Name, model.Database, model.Schema, model.Name,
				)
			}
			out[i] = model
			continue
		}

		typed := make(map[string]domain.DbtModelColumn, len(model.Columns))
		for name, column := range model.Columns {
			if columnType, ok := lookupKey(columns, name, opts.CaseSensitive); ok {
				t := columnType
				column.DataType = &t
			} else if opts.FailOnMissingEntry {
				return nil, domain.ErrMissingCatalogEntry(
					"column %q of model %q not found in warehouse catalog (expected %s.%s.%s.%s)",
					name, model.Name, model.Database, model.Schema, model.Name, name,
				)
			} else {
				column.DataType = nil
			}
			typed[name] = column
		}
		model.Columns = typed
		out[i] = model
	}
	return out, nil
}

// lookupKey resolves one catalog level. Case-insensitive fallback picks the
// first matching key in sorted order so resolution is deterministic.
func lookupKey[V any](m map[string]V, key string, caseSensitive bool) (V, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	var zero V
	if caseSensitive {
		return zero, false
	}
	for _, k := range domain.SortedKeys(m) {
		if strings.EqualFold(k, key) {
			return m[k], true
		}
	}
	return zero, false
}
