package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/spicery/swift2kt/pkg/common"
	"github.com/spicery/swift2kt/pkg/diag"
	"github.com/spicery/swift2kt/pkg/pipeline"
	"github.com/spicery/swift2kt/pkg/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	caretColor   = color.New(color.FgGreen)
	diffColors   = map[string]*color.Color{"- ": color.New(color.FgRed), "+ ": color.New(color.FgGreen)}
)

// printDiagnostics writes every error and warning of a run, each followed by
// the offending source line when it is known.
func printDiagnostics(w io.Writer, result *pipeline.Result, horizontalLimit int, showNodes bool) {
	sources := map[string]*source.SourceFile{}
	for _, output := range result.Outputs {
		if output.Source != "" {
			sources[output.Path] = source.New(output.Path, output.Source)
		}
	}

	for _, err := range result.Sink.Errors() {
		errorColor.Fprintln(w, err.Error())
		printSourceLine(w, sources[err.Path], err.Range)
		if showNodes {
			if dump := err.NodeDump(horizontalLimit); dump != "" {
				fmt.Fprint(w, dump)
			}
		}
	}
	for _, warning := range result.Sink.Warnings() {
		warningColor.Fprintln(w, warning.String())
		printSourceLine(w, sources[warning.Path], warning.Range)
	}
}

func printSourceLine(w io.Writer, file *source.SourceFile, r *common.SourceRange) {
	if file == nil || r == nil {
		return
	}
	line, ok := file.Line(r.LineStart)
	if !ok {
		return
	}
	text, marker, _ := strings.Cut(diag.Underline(line, r), "\n")
	fmt.Fprintln(w, text)
	caretColor.Fprintln(w, marker)
}

// summaryTable renders one row per translated file.
func summaryTable(result *pipeline.Result) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.AppendHeader(table.Row{"File", "Dump", "Kotlin lines", "Errors", "Status"})

	var dumpBytes, lines, errors int
	for _, output := range result.Outputs {
		status := "ok"
		if output.Err != nil {
			status = "failed"
		} else if len(output.Errors) > 0 {
			status = "partial"
		}
		outputLines := strings.Count(output.Kotlin, "\n")
		tbl.AppendRow(table.Row{
			output.Path,
			humanize.Bytes(uint64(output.DumpBytes)),
			humanize.Comma(int64(outputLines)),
			len(output.Errors),
			status,
		})
		dumpBytes += output.DumpBytes
		lines += outputLines
		errors += len(output.Errors)
	}

	tbl.AppendFooter(table.Row{
		fmt.Sprintf("Total: %s files", humanize.Comma(int64(len(result.Outputs)))),
		humanize.Bytes(uint64(dumpBytes)),
		humanize.Comma(int64(lines)),
		errors,
		fmt.Sprintf("%d failed", result.Failed()),
	})
	return tbl.Render()
}

// printDiff colours the lines of a pipeline.LineDiff.
func printDiff(w io.Writer, diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		if c, ok := diffColors[line[:min(2, len(line))]]; ok {
			c.Fprint(w, line)
			continue
		}
		fmt.Fprint(w, line)
	}
}
