package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"go-recruitment-crm/internal/repository/postgres"
	"go-recruitment-crm/internal/seed"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load skills, offices, users and consultants from a YAML file",
	Long: `Load reference data from a YAML file.

Existing offices, users and consultants are left untouched, so the same file
can be applied repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fh, err := os.Open(seedFile)
		if err != nil {
			return err
		}
		defer fh.Close()

		f, err := seed.Parse(fh)
		if err != nil {
			return err
		}

		return withDB(cmd, func(ctx context.Context, pool *pgxpool.Pool) error {
			seeder := seed.NewSeeder(
				postgres.NewUserRepository(pool),
				postgres.NewSkillRepository(pool),
				postgres.NewOfficeRepository(pool),
				postgres.NewConsultantRepository(pool),
			)
			report, err := seeder.Apply(ctx, f)
			if err != nil {
				return err
			}
			printReport(cmd, report)
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seed.yaml", "Seed file")
}

func printReport(cmd *cobra.Command, r seed.Report) {
	kinds := make([]string, 0, len(r.Created)+len(r.Skipped))
	seen := map[string]bool{}
	for k := range r.Created {
		kinds = append(kinds, k)
		seen[k] = true
	}
	for k := range r.Skipped {
		if !seen[k] {
			kinds = append(kinds, k)
		}
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(cmd.OutOrStdout(), "%-12s created=%d skipped=%d\n", k, r.Created[k], r.Skipped[k])
	}
}
