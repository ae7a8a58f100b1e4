package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spicery/swift2kt/pkg/pipeline"
)

var errMismatch = errors.New("generated Kotlin differs from expected")

func verifyCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [flags] <file.swiftASTDump> [expected.kt]",
		Short: "Translate a dump and compare it with the expected Kotlin",
		Long: `Translate a dump and compare the result line by line with the expected
Kotlin file, which defaults to the .kt file beside the dump.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			expected := strings.TrimSuffix(args[0], pipeline.DumpExtension) + ".kt"
			if len(args) == 2 {
				expected = args[1]
			}
			return runVerify(cmd, root, args[0], expected)
		},
	}

	addRunFlags(cmd.Flags())

	return cmd
}

func runVerify(cmd *cobra.Command, root *rootOptions, dumpPath string, expectedPath string) error {
	want, err := os.ReadFile(expectedPath)
	if err != nil {
		return fmt.Errorf("reading expected output: %w", err)
	}

	_, output, err := runSingle(cmd, root, dumpPath)
	if err != nil {
		return err
	}
	if output.Err != nil {
		return output.Err
	}

	diff := pipeline.LineDiff(string(want), output.Kotlin)
	if diff != "" {
		printDiff(cmd.OutOrStdout(), diff)
		return fmt.Errorf("%w: %s", errMismatch, filepath.Base(expectedPath))
	}
	if !root.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%s matches %s\n", filepath.Base(dumpPath), filepath.Base(expectedPath))
	}
	return nil
}
