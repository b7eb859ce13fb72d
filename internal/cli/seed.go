package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"civreg/internal/app"
	"civreg/internal/registration/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load reference citizens, informants and historical death records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		storage, db, err := app.OpenStorage(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}
		res, err := store.Seed(cmd.Context(), storage)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d citizen(s), %d informant(s), %d death record(s)\n",
			len(res.Citizens), len(res.Informants), len(res.Records))
		return nil
	},
}
