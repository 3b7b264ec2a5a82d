package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/frahmantamala/todo-api/internal"
	"github.com/frahmantamala/todo-api/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	clearData  bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "todo-api",
	Short: "Todo API",
	Long:  `Authenticated todo backend with role based permissions.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func envMode() bool {
	return os.Getenv("APP_ENV") == "production" || os.Getenv("DOCKER_ENV") == "true"
}

func loadConfig(path string) (*internal.Config, error) {
	var cfg *internal.Config
	if envMode() {
		cfg = internal.LoadConfigFromEnv()
	} else {
		fileCfg, err := loadConfigFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"),
		logger.WithLevel(cfg.Observability.Logging.Level),
		logger.WithFormat(cfg.Observability.Logging.Format),
	)
	return cfg, nil
}

func loadConfigFile(path string) (*internal.Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("security.admin_user_id", internal.DefaultAdminUserID)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory containing config.yml")
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
