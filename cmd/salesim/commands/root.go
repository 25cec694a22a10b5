package commands

import (
	"context"
	"fmt"
	"math/rand"

	"salesim/internal/catalog"
	"salesim/internal/config"
	"salesim/internal/customers"
	"salesim/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	noLog   bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "salesim",
	Short: "salesim generates synthetic retail sales ledgers",
	Long: `A day-by-day sales simulator. Each customer buys devices, refills, accessories and
spare parts from enrollment until churn or the end of the sales horizon, producing
invoice line items that can be written to CSV, JSONL, SQLite or MySQL, served over
HTTP or exposed as MCP tools.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(logging.Options{Verbose: verbose, NoFile: noLog}); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("command", cmd.Name()).
			Msg("salesim starting")
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noLog, "no-log-file", false, "log to stderr only")
}

// buildCatalog samples the product catalog from the configured universe.
func buildCatalog() (*catalog.Catalog, error) {
	c := cfg.Catalog
	cat, err := catalog.Sample(catalog.BuildUniverse(catalog.DefaultUniverse), catalog.SampleConfig{
		Seed:         c.Seed,
		NDevices:     c.NDevices,
		NAccessories: c.NAccessories,
		NSpareParts:  c.NSpareParts,
		NRefills:     c.NRefills,
		NBulkRefills: c.NBulkRefills,
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Int("products", len(cat.Products)).Int64("seed", c.Seed).Msg("Catalog sampled")
	return cat, nil
}

// buildCustomers generates the configured population. count < 0 keeps the
// configured count.
func buildCustomers(count int, seed int64) ([]customers.Customer, error) {
	c := cfg.Customers
	if count >= 0 {
		c.Count = count
	}
	return customers.Generate(rand.New(rand.NewSource(seed)), customers.Config{
		Count:       c.Count,
		CreatedFrom: c.CreatedFrom,
		CreatedTo:   c.CreatedTo,
		PFirstName:  c.PFirstName,
		PLastName:   c.PLastName,
		PEmail:      c.PEmail,
		PPhone:      c.PPhone,
		PEmailOptIn: c.PEmailOptIn,
		PSMSOptIn:   c.PSMSOptIn,
		PCallOptIn:  c.PCallOptIn,
	})
}
