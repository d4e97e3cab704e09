package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/onebytwo/account-eraser/internal/config"
	"github.com/onebytwo/account-eraser/internal/logger"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "eraser",
		Short:         "Self-service account erasure for onebytwo",
		SilenceUsage:  true,
		SilenceErrors: false,
		Version:       buildVersion,
		RunE:          runServe,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the gRPC account service and the metrics endpoint",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and exit",
			RunE:  runMigrate,
		},
		newTokenCommand(),
	)

	return root
}

// load reads the configuration and builds the root logger.
func load() (*config.Config, *logger.Logger, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, err
	}

	lg := logger.New(cfg.LogLevel, logger.Format(cfg.LogFormat), logger.Output(cfg.LogFile)).
		With("region", cfg.Region)

	return cfg, lg, nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
