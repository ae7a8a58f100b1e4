package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spicery/swift2kt/pkg/ast"
	"github.com/spicery/swift2kt/pkg/common"
	"github.com/spicery/swift2kt/pkg/decoder"
)

// Dump stages.
const (
	stageRaw   = "raw"
	stageIR    = "ir"
	stageFinal = "final"
)

var errUnknownStage = errors.New("unknown stage")

func dumpCmd(root *rootOptions) *cobra.Command {
	var stage string
	cmd := &cobra.Command{
		Use:   "dump [flags] <file.swiftASTDump|tree.json>",
		Short: "Print the tree of a dump at one stage of translation",
		Long: `Print the decoded dump (raw), the translated tree (ir) or the tree after
every pass (final). Raw trees can be printed as tree, asciitree, json or dot;
the others as tree or asciitree. A raw tree saved as .json can be read back
and printed in another format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, root, stage, args[0])
		},
	}

	addRunFlags(cmd.Flags())
	cmd.Flags().StringVar(&stage, "stage", stageRaw, "raw, ir or final")
	cmd.Flags().StringP("format", "f", "tree", "tree, asciitree, json or dot")
	cmd.Flags().Int("horizontal-limit", common.DefaultHorizontalLimit, "truncate tree lines to this many characters (0 for none)")

	return cmd
}

func runDump(cmd *cobra.Command, root *rootOptions, stage string, path string) error {
	switch stage {
	case stageRaw:
		cfg, _, _, err := root.setup(cmd)
		if err != nil {
			return err
		}
		node, err := readRawTree(path)
		if err != nil {
			return err
		}
		printFunc, err := common.PickPrintFunc(cfg.Dump.Format)
		if err != nil {
			return err
		}
		options := common.NewPrintOptions()
		options.Format = cfg.Dump.Format
		options.HorizontalLimit = cfg.Dump.HorizontalLimit
		return printFunc(node, cmd.OutOrStdout(), options)

	case stageIR, stageFinal:
		cfg, output, err := runSingle(cmd, root, path)
		if err != nil {
			return err
		}
		if output.Err != nil {
			return output.Err
		}
		module := output.Final
		if stage == stageIR {
			module = output.Module
		}
		return printModule(cmd.OutOrStdout(), module, cfg.Dump.Format, cfg.Dump.HorizontalLimit)

	default:
		return fmt.Errorf("%w: %s", errUnknownStage, stage)
	}
}

// readRawTree decodes a dump, or reads back a tree saved with --format json.
func readRawTree(path string) (*common.Node, error) {
	if filepath.Ext(path) == ".json" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return common.ReadASTJSON(file)
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dump %s: %w", path, err)
	}
	return decoder.Decode(string(contents))
}

func printModule(w io.Writer, module *ast.Module, format string, horizontalLimit int) error {
	if strings.EqualFold(format, common.FormatAsciiTree) {
		return common.PrintPrintableAsciiTree(module, w)
	}
	_, err := io.WriteString(w, ast.Dump(module, horizontalLimit))
	return err
}
