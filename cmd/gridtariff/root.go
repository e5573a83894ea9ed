package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jgoulah/gridtariff/internal/calculator"
	"github.com/jgoulah/gridtariff/internal/config"
	"github.com/jgoulah/gridtariff/internal/database"
	"github.com/jgoulah/gridtariff/internal/hook"
	"github.com/jgoulah/gridtariff/internal/logging"
)

var (
	cfgFile string
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:   "gridtariff",
	Short: "Compute usage averages and time-of-use tariffs for customer entries",
	Long: `GridTariff stores customer Calculation Entries (kW, kWh, timestamp) in a local SQLite
database. Every save recomputes the customer's overall average and monthly low/high
period tariffs and writes them onto the entry.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./data.db)")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path (local directory)
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return "data.db"
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// saveConfig writes the configuration file
func saveConfig(cfg *config.Config) error {
	return config.Save(getConfigPath(), cfg)
}

// openDB opens the database connection
func openDB() (*database.DB, error) {
	path := getDBPath()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// app holds the wired components shared by commands
type app struct {
	cfg    *config.Config
	db     *database.DB
	calc   *calculator.Calculator
	logger *slog.Logger
	logOut io.Closer
}

// openApp loads config, opens the store and registers the tariff hook on it
func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, logOut, err := logging.Init(cfg.GetLogLevel(), cfg.Log.File)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	loc, err := cfg.GetLocation()
	if err != nil {
		logOut.Close()
		return nil, err
	}

	db, err := openDB()
	if err != nil {
		logOut.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	errorLog := logging.Tee{db, logging.ErrorLog{Logger: logger}}
	calc := calculator.New(db, errorLog, calculator.Options{
		Rates:    calculator.Rates{Low: cfg.GetLowRate(), High: cfg.GetHighRate()},
		Location: loc,
	})
	db.OnBeforeSave(hook.New(calc).BeforeSave)

	logger.Debug("opened store", "db", getDBPath(), "timezone", loc.String(),
		"low_rate", cfg.GetLowRate(), "high_rate", cfg.GetHighRate())

	return &app{
		cfg:    cfg,
		db:     db,
		calc:   calc,
		logger: logger,
		logOut: logOut,
	}, nil
}

// Close releases the database and log file
func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.Warn("closing database", "error", err)
	}
	a.logOut.Close()
}
