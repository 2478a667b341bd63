package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"StorefrontPlatform/pkg/config"
	"StorefrontPlatform/pkg/logger"
)

const (
	serviceName = "storefront"
	version     = "1.0.0"
)

// rootCmd базовая команда без подкоманд
var rootCmd = &cobra.Command{
	Use:   serviceName,
	Short: "Storefront - сервис заказов интернет-магазина",
	Long: `Storefront обслуживает регистрацию и вход покупателей, оформление заказов
и управление статусами позиций заказов.

Конфигурация читается из YAML файла (--config или STOREFRONT_CONFIG)
и переопределяется переменными окружения.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	cobra.OnInitialize(initViper)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (yaml or json)")
	rootCmd.PersistentFlags().String("log-level", "", "override logger.level")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(productCmd)
	rootCmd.AddCommand(eventsCmd)
}

// initViper включает чтение STOREFRONT_* переменных окружения для глобальных флагов
func initViper() {
	viper.SetEnvPrefix("STOREFRONT")
	viper.AutomaticEnv()
}

// loadRuntime загружает конфигурацию и создает логгер
func loadRuntime() (*config.Config, logger.Logger, error) {
	cfg, err := config.LoadConfig(viper.GetString("config"))
	if err != nil {
		return nil, nil, err
	}
	if level := viper.GetString("log_level"); level != "" {
		cfg.Logger.Level = level
	}

	log, err := logger.NewLogger(cfg.Environment, cfg.Logger.Level, serviceName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}
