// Command toonview loads a toon-shaded character, assembles it and runs the frame and
// post-processing pipeline headless.
package main

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-toon/engine/config"
	"github.com/Carmen-Shannon/oxy-toon/engine/logging"
	"github.com/spf13/cobra"
)

// version is set at build time.
var version = "dev"

// options holds the flags shared by every command.
type options struct {
	configPath string
	logLevel   string
	logFile    string
	logJSON    bool

	logger *logging.Logger
	loader *config.Loader
	cfg    config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "toonview",
		Short:         "Toon character shading pipeline",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logging.Config{
				Level:   opts.logLevel,
				Console: !opts.logJSON,
				Out:     cmd.ErrOrStderr(),
				File:    opts.logFile,
			})
			if err != nil {
				return err
			}
			opts.logger = logger

			opts.loader = config.NewLoader(opts.configPath, config.WithLogger(logger.Component("config")))
			cfg, err := opts.loader.Load()
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logger != nil {
				return opts.logger.Close()
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file (env overrides use the "+config.EnvPrefix+"_ prefix)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")
	flags.StringVar(&opts.logFile, "log-file", "", "also write JSON logs to this file")
	flags.BoolVar(&opts.logJSON, "log-json", false, "write JSON logs instead of console output")

	root.AddCommand(
		newAssembleCmd(opts),
		newPostCmd(opts),
		newRunCmd(opts),
		newDefaultsCmd(opts),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "toonview:", err)
		os.Exit(1)
	}
}
