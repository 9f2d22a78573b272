package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

const serviceName = "SMC-AppointmentService"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "appointments",
	Short: "Appointment booking service",
	Long:  "SMC-AppointmentService хранит бизнесы, их расписание и услуги, рассчитывает свободные слоты и принимает записи.",
	// Ошибки печатаем сами, usage только для ошибок флагов
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the outbox publisher",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

var slotsCmd = &cobra.Command{
	Use:   "slots <input.json>",
	Short: "Compute free slots offline from a JSON file",
	Long:  "Считает свободные слоты по расписанию и записям из JSON файла без базы данных. \"-\" читает stdin.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSlots,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to the TOML config file")

	serveCmd.Flags().Bool("migrate", false, "apply migrations before serving")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(slotsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap загружает конфигурацию и инициализирует логгер
func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Info("Configuration loaded from %s", configPath)
	return cfg, log, nil
}
