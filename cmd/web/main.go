package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/ecfr-atlas/pkg/server"
	"github.com/de-tools/ecfr-atlas/pkg/services/config"
	"github.com/de-tools/ecfr-atlas/pkg/services/readiness"
	"github.com/de-tools/ecfr-atlas/pkg/services/viewmodel"
	"github.com/de-tools/ecfr-atlas/pkg/store/client"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for eCFR Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a config file (yaml, toml or json). ECFR_* environment variables override it")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	repo, err := client.NewClient(client.Settings{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create api client: %w", err)
	}
	logger.Info().Str("base_url", cfg.API.BaseURL).Msg("using analyzer api")

	poller := readiness.NewPoller(repo, readiness.Config{
		Interval: cfg.Poll.Interval,
		MaxWait:  cfg.Poll.MaxWait,
	})
	options := viewmodel.Options{
		TopN:        cfg.Dashboard.TopN,
		DetailTopN:  cfg.Dashboard.DetailTopN,
		SectionTopN: cfg.Dashboard.SectionTopN,
		PageSize:    cfg.List.PageSize,
	}

	dashboard := viewmodel.NewDashboard(repo, poller, options)
	stopDashboard := dashboard.Watch(ctx)
	defer stopDashboard()

	api := server.NewWebAPI(server.Config{
		Addr:            net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Repository: repo,
			Dashboard:  dashboard,
			Options:    options,
			Logger:     logger,
		},
	})

	return api.Start(ctx)
}
