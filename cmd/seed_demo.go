package cmd

import (
	"github.com/spf13/cobra"
	"github.com/worksledger/worksledger/internal/app"
	"github.com/worksledger/worksledger/internal/database"
	"github.com/worksledger/worksledger/pkg/demo"
)

var clearOnly bool

var seedDemoCmd = &cobra.Command{
	Use:   "seed-demo",
	Short: "Rebuild the demo data set",
	Long: `seed-demo removes every demo row and creates a fresh demo data set.
Live data is never touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if err := database.Migrate(cfg.Database); err != nil {
			return err
		}
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		return seedDemo(cmd, app.BuildDependencies(db, cfg).DemoSeeder)
	},
}

func seedDemo(cmd *cobra.Command, seeder *demo.Seeder) error {
	if clearOnly {
		cleared, err := seeder.Clear(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Printf("Removed %d demo rows\n", cleared.Total())
		return nil
	}
	summary, err := seeder.Seed(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("Demo data: %d GRs, %d works, %d spills, %d technical sanctions, %d tenders, %d bills\n",
		summary.GRs, summary.Works, summary.Spills, summary.TechnicalSanctions, summary.Tenders, summary.Bills)
	return nil
}

func init() {
	seedDemoCmd.Flags().BoolVar(&clearOnly, "clear-only", false, "only remove the demo data set")
}
