package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spicery/swift2kt/pkg/bundler"
	"github.com/spicery/swift2kt/pkg/config"
	"github.com/spicery/swift2kt/pkg/pipeline"
)

// errTranslationFailed is returned when any file failed or recorded errors.
var errTranslationFailed = errors.New("translation failed")

type translateOptions struct {
	mainFile  string
	templates []string
	outputDir string
}

func translateCmd(root *rootOptions) *cobra.Command {
	opts := &translateOptions{}
	cmd := &cobra.Command{
		Use:   "translate [flags] <file.swiftASTDump>...",
		Short: "Translate AST dumps into Kotlin files",
		Long: `Translate every given AST dump and write a .kt file beside its Swift source,
or into --output-dir. Diagnostics go to stderr and a summary to stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, root, opts, args)
		},
	}

	addRunFlags(cmd.Flags())
	cmd.Flags().String("bundle", "", "SQLite file recording the run")
	cmd.Flags().StringVar(&opts.mainFile, "main", "main.swift", "name of the Swift file holding top-level code")
	cmd.Flags().StringSliceVar(&opts.templates, "templates", nil, "dumps of library template files")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "directory for the .kt files")

	return cmd
}

func runTranslate(cmd *cobra.Command, root *rootOptions, opts *translateOptions, args []string) error {
	cfg, substitutions, logger, err := root.setup(cmd)
	if err != nil {
		return err
	}

	inputs, err := loadInputs(args, opts)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(cmd.Context(), inputs, pipeline.OptionsFromConfig(cfg, substitutions, logger))
	if err != nil {
		return err
	}

	for _, output := range result.Outputs {
		if output.Err != nil {
			continue
		}
		target := kotlinPath(output.Path, opts.outputDir)
		if err := os.WriteFile(target, []byte(output.Kotlin), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
		logger.Info("wrote", "file", target)
	}

	if cfg.Bundle != "" {
		if err := recordBundle(cfg.Bundle, result); err != nil {
			return err
		}
	}

	printDiagnostics(cmd.ErrOrStderr(), result, cfg.Dump.HorizontalLimit, root.verbose)
	for _, output := range result.Outputs {
		if output.Err != nil {
			errorColor.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", output.Path, output.Err)
		}
	}
	if !root.quiet {
		fmt.Fprintln(cmd.OutOrStdout(), summaryTable(result))
	}

	if result.Failed() > 0 || result.Sink.HasErrors() {
		return fmt.Errorf("%w: %d of %d files failed, %d errors",
			errTranslationFailed, result.Failed(), len(result.Outputs), len(result.Sink.Errors()))
	}
	return nil
}

// loadInputs reads the template dumps first, then the files to translate.
// A lone file is always treated as the main file.
func loadInputs(args []string, opts *translateOptions) ([]pipeline.Input, error) {
	var inputs []pipeline.Input
	for _, path := range opts.templates {
		input, err := pipeline.LoadInput(path, false)
		if err != nil {
			return nil, err
		}
		input.IsTemplateFile = true
		inputs = append(inputs, input)
	}
	for _, path := range args {
		input, err := pipeline.LoadInput(path, len(args) == 1)
		if err != nil {
			return nil, err
		}
		if filepath.Base(input.Path) == opts.mainFile {
			input.IsMainFile = true
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

// kotlinPath names the output for a Swift source path.
func kotlinPath(swiftPath string, outputDir string) string {
	name := strings.TrimSuffix(swiftPath, ".swift") + ".kt"
	if outputDir == "" {
		return name
	}
	return filepath.Join(outputDir, filepath.Base(name))
}

func recordBundle(path string, result *pipeline.Result) error {
	b, err := bundler.NewBundler(path)
	if err != nil {
		return err
	}
	defer b.Close()

	if err := b.Migrate(); err != nil {
		return fmt.Errorf("migrating bundle: %w", err)
	}
	return b.RecordResult(result)
}

// runSingle translates one dump as a main file and prints its diagnostics.
func runSingle(cmd *cobra.Command, root *rootOptions, path string) (*config.Config, *pipeline.Output, error) {
	cfg, substitutions, logger, err := root.setup(cmd)
	if err != nil {
		return nil, nil, err
	}
	input, err := pipeline.LoadInput(path, true)
	if err != nil {
		return nil, nil, err
	}
	result, err := pipeline.Run(cmd.Context(), []pipeline.Input{input}, pipeline.OptionsFromConfig(cfg, substitutions, logger))
	if err != nil {
		return nil, nil, err
	}
	printDiagnostics(cmd.ErrOrStderr(), result, cfg.Dump.HorizontalLimit, root.verbose)
	return cfg, result.Outputs[0], nil
}
