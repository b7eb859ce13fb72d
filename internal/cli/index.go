package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"civreg/internal/app"
)

var indexRebuild bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the rules knowledge index",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Embed the knowledge source unless the index artifact exists",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if indexRebuild {
			if err := os.Remove(cfg.Knowledge.IndexPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove index: %w", err)
			}
		}
		embedder, err := app.NewEmbedder(cfg.Knowledge)
		if err != nil {
			return err
		}
		builder, err := app.NewIndexBuilder(cfg.Knowledge, embedder, newLogger(cfg, cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		idx, built, err := builder.EnsureIndexBuilt(cmd.Context(), cfg.Knowledge.SourcePath, cfg.Knowledge.IndexPath)
		if err != nil {
			return err
		}
		if built {
			fmt.Fprintf(cmd.OutOrStdout(), "built %s with %d chunk(s)\n", cfg.Knowledge.IndexPath, len(idx.Chunks))
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already exists (%d chunk(s))\n", cfg.Knowledge.IndexPath, len(idx.Chunks))
		}
		return nil
	},
}

func init() {
	indexBuildCmd.Flags().BoolVar(&indexRebuild, "rebuild", false, "discard an existing index first")
	indexCmd.AddCommand(indexBuildCmd)
}
