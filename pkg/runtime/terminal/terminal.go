package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/de-tools/ecfr-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/ecfr-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/ecfr-atlas/pkg/services/config"
	"github.com/de-tools/ecfr-atlas/pkg/services/readiness"
	"github.com/de-tools/ecfr-atlas/pkg/services/viewmodel"
	"github.com/de-tools/ecfr-atlas/pkg/store/client"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	output    io.Writer
	logOutput io.Writer
	env       *commands.Env
	rootCmd   *cobra.Command

	configPath string
	baseURL    string
	timeout    time.Duration
	logLevel   string
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	// LogOutput receives diagnostics; reports go to Output.
	LogOutput io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	cli := &CLI{
		output:    opts.Output,
		logOutput: opts.LogOutput,
		env:       &commands.Env{},
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args, mainly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "ecfr",
		Short:             "Explore eCFR analytics from the terminal",
		SilenceUsage:      true,
		PersistentPreRunE: cli.setup,
	}
	cmd.SetOut(cli.output)
	cmd.SetErr(cli.logOutput)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&cli.configPath, "config", "c", "", "Path to a config file (yaml, toml or json)")
	flags.StringVar(&cli.baseURL, "base-url", "", "Analyzer API base URL (overrides api.base_url)")
	flags.DurationVar(&cli.timeout, "timeout", 0, "Request timeout (overrides api.timeout)")
	flags.StringVar(&cli.logLevel, "log-level", "", "Log level (overrides log.level)")

	cmd.AddCommand(commands.NewDashboardCmd(cli.env))
	cmd.AddCommand(commands.NewAgenciesCmd(cli.env))
	cmd.AddCommand(commands.NewTitlesCmd(cli.env))
	cmd.AddCommand(commands.NewAgencyCmd(cli.env))
	cmd.AddCommand(commands.NewTitleCmd(cli.env))
	cmd.AddCommand(commands.NewStatusCmd(cli.env))

	return cmd
}

// setup loads the configuration and wires the repository, poller and
// reporter shared by all subcommands.
func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(cli.configPath)
	if err != nil {
		return err
	}
	if cli.baseURL != "" {
		cfg.API.BaseURL = cli.baseURL
	}
	if cli.timeout > 0 {
		cfg.API.Timeout = cli.timeout
	}
	if cli.logLevel != "" {
		cfg.Log.Level = cli.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := cfg.Log.Logger(cli.logOutput)
	cmd.SetContext(logger.WithContext(cmd.Context()))

	repo, err := client.NewClient(client.Settings{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create api client: %w", err)
	}

	*cli.env = commands.Env{
		Repository: repo,
		Poller: readiness.NewPoller(repo, readiness.Config{
			Interval: cfg.Poll.Interval,
			MaxWait:  cfg.Poll.MaxWait,
		}),
		Options: viewmodel.Options{
			TopN:        cfg.Dashboard.TopN,
			DetailTopN:  cfg.Dashboard.DetailTopN,
			SectionTopN: cfg.Dashboard.SectionTopN,
			PageSize:    cfg.List.PageSize,
		},
		Reporter: export.NewReporter(cli.output, export.TableConfig{LabelLimit: cfg.Dashboard.LabelLimit}),
	}
	return nil
}
