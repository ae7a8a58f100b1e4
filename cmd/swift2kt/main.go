// Command swift2kt translates Swift AST dumps into Kotlin source.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/spicery/swift2kt/pkg/config"
)

// Version is injected at build time via ldflags.
var Version = "dev"

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configFile string
	verbose    bool
	quiet      bool
}

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "swift2kt",
		Short: "Translate Swift AST dumps into Kotlin",
		Long: `swift2kt reads the output of "swiftc -dump-ast" (files ending in .swiftASTDump),
rewrites it and prints equivalent Kotlin source beside each Swift file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is ./.swift2kt.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every file and pass")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress the summary")

	rootCmd.AddCommand(translateCmd(opts))
	rootCmd.AddCommand(dumpCmd(opts))
	rootCmd.AddCommand(verifyCmd(opts))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "swift2kt %s\n", Version)
		},
	}
}

// addRunFlags declares the flags that configure a pipeline run. Their names
// are the ones config.LoadConfig binds.
func addRunFlags(flags *pflag.FlagSet) {
	flags.String("indent", config.DefaultIndentUnit, "indentation unit of the generated code")
	flags.Int("line-limit", config.DefaultLineLimit, "width at which long declarations and calls are broken")
	flags.Int("workers", config.DefaultWorkers, "files translated at once")
	flags.Bool("stop-at-first-error", false, "abandon a file at its first structural error")
	flags.String("substitutions", "", "YAML file overlaid on the default substitutions")
	flags.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")
}

// setup loads the configuration, the substitutions and a logger for a
// subcommand.
func (o *rootOptions) setup(cmd *cobra.Command) (*config.Config, *config.Substitutions, *slog.Logger, error) {
	cfg, err := config.LoadConfig(o.configFile, cmd.Flags())
	if err != nil {
		return nil, nil, nil, err
	}
	substitutions, err := config.LoadSubstitutions(cfg.Substitutions)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := o.logger(cmd, cfg.Logging.Level)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, substitutions, logger, nil
}

func (o *rootOptions) logger(cmd *cobra.Command, level string) (*slog.Logger, error) {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if o.verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler), nil
}
