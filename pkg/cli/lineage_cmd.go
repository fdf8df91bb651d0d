package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"semlens/internal/config"
	"semlens/internal/manifest"
	"semlens/internal/service/explore"
)

func newLineageCmd(cfg *config.Config) *cobra.Command {
	var (
		manifestPath string
		output       string
	)
	cmd := &cobra.Command{
		Use:   "lineage <model>",
		Short: "Print one model's dependency neighbourhood",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			modelName := args[0]
			models, _, err := manifest.Load(manifestPath)
			if err != nil {
				return err
			}
			graph := explore.BuildModelGraph(models)
			if _, ok := graph.GetNodeData(modelName); !ok {
				return fmt.Errorf("model %q not found in manifest", modelName)
			}
			return writeJSON(output, explore.BuildLineageGraph(graph, modelName))
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "target/manifest.json", "Path to the dbt manifest.json")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Write lineage to this file (- for stdout)")
	return cmd
}
