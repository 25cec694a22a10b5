package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"salesim/internal/simulation"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath  string
	LogDir    string
	OutputDir string
	Seed      int64
	Workers   int
	Progress  bool

	Sales     SalesConfig
	Customers CustomersConfig
	Catalog   CatalogConfig
	HTTP      HTTPConfig
	Database  DatabaseConfig
}

// SalesConfig is the configuration surface of the per-customer simulator.
type SalesConfig struct {
	EndDate   time.Time
	StoreIDs  []int64
	Schedules simulation.Schedules
}

// CustomersConfig drives the customer generator used by batch runs.
type CustomersConfig struct {
	Count       int
	CreatedFrom time.Time
	CreatedTo   time.Time

	PFirstName  float64
	PLastName   float64
	PEmail      float64
	PPhone      float64
	PEmailOptIn float64
	PSMSOptIn   float64
	PCallOptIn  float64
}

// CatalogConfig drives the product catalog sampling.
type CatalogConfig struct {
	Seed         int64
	NDevices     int
	NAccessories int
	NSpareParts  int
	NRefills     int
	NBulkRefills int
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr           string
	AllowedOrigins []string
}

// DatabaseConfig configures the SQL sinks.
type DatabaseConfig struct {
	SQLitePath string
	MySQLDSN   string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}
	logDir := filepath.Join(dataPath, "logs")
	outputDir := getEnv("OUTPUT_DIR", filepath.Join(dataPath, "out"))

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", outputDir).Msg("Failed to create output directory")
	}

	return fromEnv(dataPath, logDir, outputDir)
}

func fromEnv(dataPath, logDir, outputDir string) (*AppConfig, error) {
	p := &parser{}

	cfg := &AppConfig{
		DataPath:  dataPath,
		LogDir:    logDir,
		OutputDir: outputDir,
		Seed:      p.getInt64("SALESIM_SEED", 42),
		Workers:   p.getInt("SALESIM_WORKERS", runtime.NumCPU()),
		Progress:  p.getBool("SALESIM_PROGRESS", true),
		Sales: SalesConfig{
			EndDate:  p.getDate("SALES_END_DATE", "2025-12-31"),
			StoreIDs: p.getInt64s("STORE_IDS", "1,2,3,4,5"),
			Schedules: simulation.Schedules{
				PBuyByYear:            p.getFloats("P_BUY_BY_YEAR", "0.02,0.012,0.008"),
				PCloseDay:             p.getFloat("P_CLOSE_DAY", 0.0008),
				PInvoiceByNth:         p.getFloats("P_INVOICE_BY_NTH", "1.0,0.15,0.03"),
				PDeviceByNth:          p.getFloats("P_DEVICE_BY_NTH", "0.7,0.08,0.02"),
				RefillCountProbs:      p.getFloats("REFILL_COUNT_PROBS", "0.55,0.25,0.12,0.08"),
				PRefillInvoice:        p.getFloat("P_REFILL_INVOICE", 0.92),
				PAccessoryInvoice:     p.getFloat("P_ACCESSORY_INVOICE", 0.12),
				PSparePartInvoice:     p.getFloat("P_SPARE_PART_INVOICE", 0.06),
				StopInvoicesOnLostDay: p.getBool("STOP_INVOICES_ON_LOST_DAY", true),
			},
		},
		Customers: CustomersConfig{
			Count:       p.getInt("CUSTOMERS_COUNT", 1000),
			CreatedFrom: p.getDate("CUSTOMERS_CREATED_AT_START", "2015-01-01"),
			CreatedTo:   p.getDate("CUSTOMERS_CREATED_AT_END", "2025-12-31"),
			PFirstName:  p.getFloat("CUSTOMERS_P_FIRST_NAME", 0.90),
			PLastName:   p.getFloat("CUSTOMERS_P_LAST_NAME", 0.60),
			PEmail:      p.getFloat("CUSTOMERS_P_EMAIL", 0.70),
			PPhone:      p.getFloat("CUSTOMERS_P_PHONE", 0.80),
			PEmailOptIn: p.getFloat("CUSTOMERS_P_EMAIL_OPT_IN", 0.60),
			PSMSOptIn:   p.getFloat("CUSTOMERS_P_SMS_OPT_IN", 0.90),
			PCallOptIn:  p.getFloat("CUSTOMERS_P_CALL_OPT_IN", 0.75),
		},
		Catalog: CatalogConfig{
			Seed:         p.getInt64("CATALOG_SEED", 42),
			NDevices:     p.getInt("CATALOG_N_DEVICES", 5),
			NAccessories: p.getInt("CATALOG_N_ACCESSORIES", 10),
			NSpareParts:  p.getInt("CATALOG_N_SPARE_PARTS", 8),
			NRefills:     p.getInt("CATALOG_N_REFILLS", 74),
			NBulkRefills: p.getInt("CATALOG_N_BULK_REFILLS", 1),
		},
		HTTP: HTTPConfig{
			Addr:           getEnv("HTTP_ADDR", ":8080"),
			AllowedOrigins: splitList(getEnv("HTTP_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:8080")),
		},
		Database: DatabaseConfig{
			SQLitePath: getEnv("SQLITE_PATH", filepath.Join(outputDir, "sales.db")),
			MySQLDSN:   getEnv("MYSQL_DSN", ""),
		},
	}

	if p.err != nil {
		return nil, p.err
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

// Params builds the simulator input for one customer.
func (s SalesConfig) Params(customerID int64, start time.Time, pools simulation.Pools) simulation.Params {
	return simulation.Params{
		CustomerID: customerID,
		StartDate:  start,
		EndDate:    s.EndDate,
		Pools:      pools,
		StoreIDs:   s.StoreIDs,
		Schedules:  s.Schedules,
	}
}

// parser reads typed values and remembers the first malformed one.
type parser struct {
	err error
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("config %s=%q: %w", key, value, err)
	}
}

func (p *parser) getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		p.fail(key, v, err)
		return fallback
	}
	return n
}

func (p *parser) getInt64(key string, fallback int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		p.fail(key, v, err)
		return fallback
	}
	return n
}

func (p *parser) getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		p.fail(key, v, err)
		return fallback
	}
	return b
}

func (p *parser) getFloat(key string, fallback float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		p.fail(key, v, err)
		return fallback
	}
	return f
}

func (p *parser) getFloats(key, fallback string) []float64 {
	v := getEnv(key, fallback)
	out, err := ParseFloats(v)
	if err != nil {
		p.fail(key, v, err)
	}
	return out
}

func (p *parser) getInt64s(key, fallback string) []int64 {
	v := getEnv(key, fallback)
	out, err := ParseInt64s(v)
	if err != nil {
		p.fail(key, v, err)
	}
	return out
}

func (p *parser) getDate(key, fallback string) time.Time {
	v := getEnv(key, fallback)
	d, err := simulation.ParseDate(strings.TrimSpace(v))
	if err != nil {
		p.fail(key, v, err)
	}
	return d
}

// ParseFloats parses a comma separated list such as "1.0,0.2,0.05".
// An empty string yields an empty list.
func ParseFloats(s string) ([]float64, error) {
	parts := splitList(s)
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, errEmptyItem
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// ParseInt64s parses a comma separated list of integer identifiers.
func ParseInt64s(s string) ([]int64, error) {
	parts := splitList(s)
	out := make([]int64, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, errEmptyItem
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

var errEmptyItem = errors.New("empty list item")

func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		out = append(out, strings.TrimSpace(r))
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
