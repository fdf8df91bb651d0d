package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"semlens/internal/config"
	"semlens/internal/domain"
	"semlens/internal/manifest"
	"semlens/internal/service/catalog"
	"semlens/internal/service/explore"
)

type compileOptions struct {
	manifestPath  string
	catalogPath   string
	adapter       string
	output        string
	caseSensitive bool
	failOnMissing bool
}

func addCompileFlags(fs *pflag.FlagSet, cfg *config.Config, opts *compileOptions) {
	fs.StringVar(&opts.manifestPath, "manifest", "target/manifest.json", "Path to the dbt manifest.json")
	fs.StringVar(&opts.catalogPath, "catalog", "", "Path to a warehouse catalog YAML (database -> schema -> table -> column -> type); omit to rely on manifest column types")
	fs.StringVar(&opts.adapter, "adapter", cfg.Adapter, "Warehouse adapter kind (bigquery, databricks, postgres, redshift, snowflake, trino)")
	fs.StringVarP(&opts.output, "output", "o", "-", "Write compiled explores to this file (- for stdout)")
	fs.BoolVar(&opts.caseSensitive, "case-sensitive", cfg.CaseSensitiveMatching, "Match warehouse catalog keys case-sensitively")
	fs.BoolVar(&opts.failOnMissing, "fail-on-missing", cfg.FailOnMissingCatalogEntry, "Fail when a model or column has no warehouse catalog entry")
}

func newCompileCmd(cfg *config.Config) *cobra.Command {
	opts := &compileOptions{}
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile manifest models into explores",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompile(cfg, opts)
		},
	}
	addCompileFlags(cmd.Flags(), cfg, opts)
	return cmd
}

func runCompile(cfg *config.Config, opts *compileOptions) error {
	logger := cfg.NewLogger(os.Stderr)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	adapter, err := domain.ParseAdapter(opts.adapter)
	if err != nil {
		return err
	}

	var (
		models    []domain.DbtModelNode
		metrics   []domain.DbtMetric
		warehouse catalog.WarehouseCatalog
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		models, metrics, err = manifest.Load(opts.manifestPath)
		return err
	})
	if opts.catalogPath != "" {
		g.Go(func() error {
			var err error
			warehouse, err = manifest.LoadCatalog(opts.catalogPath)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Debug("manifest loaded", "models", len(models), "metrics", len(metrics))

	if warehouse != nil {
		models, err = catalog.AttachTypes(models, warehouse, catalog.Options{
			CaseSensitive:      opts.caseSensitive,
			FailOnMissingEntry: opts.failOnMissing,
		})
		if err != nil {
			return err
		}
	}

	result := explore.ConvertExplores(models, metrics, adapter)
	logger.Info("compiled explores", "adapter", adapter, "explores", len(result.Explores), "errors", len(result.Errors))
	for _, e := range result.Errors {
		for _, inner := range e.Errors {
			logger.Warn("model failed to compile", "model", e.Name, "type", inner.Type, "error", inner.Message)
		}
	}

	return writeJSON(opts.output, result)
}

func writeJSON(output string, v interface{}) error {
	var w io.Writer = os.Stdout
	if output != "-" && output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
