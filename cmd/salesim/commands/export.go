package commands

import (
	"io"
	"os"
	"path/filepath"

	"salesim/internal/customers"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var exportFlags struct {
	count int
	seed  int64
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the sampled catalog and customer population as CSV",
	Long: `Writes products.csv and customers.csv to OUTPUT_DIR. With the same seeds they
describe exactly the products and customers a generate run uses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := cfg.Seed
		if cmd.Flags().Changed("seed") {
			seed = exportFlags.seed
		}

		cat, err := buildCatalog()
		if err != nil {
			return err
		}
		population, err := buildCustomers(exportFlags.count, seed)
		if err != nil {
			return err
		}

		productsPath := filepath.Join(cfg.OutputDir, "products.csv")
		if err := writeFile(productsPath, cat.WriteCSV); err != nil {
			return err
		}
		customersPath := filepath.Join(cfg.OutputDir, "customers.csv")
		if err := writeFile(customersPath, func(w io.Writer) error {
			return customers.WriteCSV(w, population)
		}); err != nil {
			return err
		}

		log.Info().
			Str("products", productsPath).
			Int("productCount", len(cat.Products)).
			Str("customers", customersPath).
			Int("customerCount", len(population)).
			Msg("Fixtures exported")
		return nil
	},
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func init() {
	exportCmd.Flags().IntVarP(&exportFlags.count, "customers", "n", -1, "number of customers (default CUSTOMERS_COUNT)")
	exportCmd.Flags().Int64Var(&exportFlags.seed, "seed", 0, "random seed (default SALESIM_SEED)")
	rootCmd.AddCommand(exportCmd)
}
