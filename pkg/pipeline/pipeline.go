// Package pipeline runs whole translations: every input file is decoded,
// translated and put through the first stage of passes, and once all of
// them have, through the second stage and code generation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/spicery/swift2kt/pkg/ast"
	"github.com/spicery/swift2kt/pkg/codegen"
	"github.com/spicery/swift2kt/pkg/common"
	"github.com/spicery/swift2kt/pkg/config"
	"github.com/spicery/swift2kt/pkg/decoder"
	"github.com/spicery/swift2kt/pkg/diag"
	"github.com/spicery/swift2kt/pkg/passes"
	"github.com/spicery/swift2kt/pkg/registry"
	"github.com/spicery/swift2kt/pkg/source"
	"github.com/spicery/swift2kt/pkg/translator"
)

// DumpExtension is the extension of dump files next to their sources.
const DumpExtension = ".swiftASTDump"

// ErrNoInputs is returned when Run is given nothing to translate.
var ErrNoInputs = errors.New("no input files")

// Input is one file to translate. Dump is the text printed by the compiler's
// AST dump; Source, which may be empty, is the original source, consulted
// for comments and error context.
type Input struct {
	Path           string
	Dump           string
	Source         string
	IsMainFile     bool
	IsTemplateFile bool
}

// LoadInput reads a dump file and, when it exists, the source file beside
// it ("x.swiftASTDump" goes with "x.swift").
func LoadInput(dumpPath string, isMainFile bool) (Input, error) {
	dump, err := os.ReadFile(dumpPath)
	if err != nil {
		return Input{}, fmt.Errorf("reading dump %s: %w", dumpPath, err)
	}
	sourcePath := strings.TrimSuffix(dumpPath, DumpExtension) + ".swift"
	input := Input{Path: sourcePath, Dump: string(dump), IsMainFile: isMainFile}
	if contents, err := os.ReadFile(sourcePath); err == nil {
		input.Source = string(contents)
	}
	return input, nil
}

// Options are the settings of one run.
type Options struct {
	Workers          int // <= 0 means one per CPU
	StopAtFirstError bool
	IndentUnit       string
	LineLimit        int
	Substitutions    *config.Substitutions // nil means the defaults
	Logger           *slog.Logger          // nil discards
}

// OptionsFromConfig builds options from a loaded configuration.
func OptionsFromConfig(cfg *config.Config, substitutions *config.Substitutions, logger *slog.Logger) Options {
	return Options{
		Workers:          cfg.Pipeline.Workers,
		StopAtFirstError: cfg.Pipeline.StopAtFirstError,
		IndentUnit:       cfg.Output.IndentUnit,
		LineLimit:        cfg.Output.LineLimit,
		Substitutions:    substitutions,
		Logger:           logger,
	}
}

// Output is what the run produced for one non-template file. Err is set
// when the file was abandoned; the other files are unaffected.
type Output struct {
	Path       string
	Source     string
	IsMainFile bool
	Kotlin     string
	RawTree    *common.Node
	Module     *ast.Module // As translated
	Final      *ast.Module // After both stages of passes
	Errors     []*diag.StructuralError
	Err        error
	DumpBytes  int
}

// Result is a whole run: outputs in input order, with the shared sink and
// registry the files were translated against.
type Result struct {
	Outputs  []*Output
	Sink     *diag.Sink
	Registry *registry.Registry
}

// Failed counts the abandoned files.
func (r *Result) Failed() int {
	failed := 0
	for _, output := range r.Outputs {
		if output.Err != nil {
			failed++
		}
	}
	return failed
}

// Run translates the inputs. Template files are put through the first stage
// one at a time before anything else, so their templates are registered
// before other files are rewritten. The remaining files go through the first
// stage in parallel, then the second stage and code generation in parallel.
func Run(ctx context.Context, inputs []Input, opts Options) (*Result, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	substitutions := opts.Substitutions
	if substitutions == nil {
		defaults, err := config.LoadSubstitutionsFromString(config.DefaultSubstitutions)
		if err != nil {
			return nil, fmt.Errorf("loading default substitutions: %w", err)
		}
		substitutions = defaults
	}

	reg := registry.New()
	substitutions.Seed(reg)
	sink := diag.NewSink(opts.StopAtFirstError)
	passContext := passes.NewContext(reg, sink, substitutions, logger)
	generator := codegen.NewCodeGenerator(reg, sink, opts.IndentUnit, opts.LineLimit)
	result := &Result{Sink: sink, Registry: reg}

	var files []Input
	for _, input := range inputs {
		if !input.IsTemplateFile {
			files = append(files, input)
			continue
		}
		logger.Debug("translating template file", slog.String("file", input.Path))
		output := firstStage(passContext, input, logger)
		if output.Err != nil {
			return nil, fmt.Errorf("template file %s: %w", input.Path, output.Err)
		}
	}
	logger.Debug("templates registered", slog.Int("count", len(reg.Templates())))

	result.Outputs = make([]*Output, len(files))
	err := parallel(ctx, opts.Workers, len(files), func(i int) {
		result.Outputs[i] = firstStage(passContext, files[i], logger)
	})
	if err != nil {
		return nil, err
	}

	err = parallel(ctx, opts.Workers, len(files), func(i int) {
		secondStage(passContext, generator, result.Outputs[i], logger)
	})
	if err != nil {
		return nil, err
	}

	for _, output := range result.Outputs {
		output.Errors = sink.ErrorsFor(output.Path)
	}
	return result, nil
}

func firstStage(ctx *passes.Context, input Input, logger *slog.Logger) *Output {
	output := &Output{
		Path:       input.Path,
		Source:     input.Source,
		IsMainFile: input.IsMainFile,
		DumpBytes:  len(input.Dump),
	}
	logger.Debug("decoding", slog.String("file", input.Path))
	root, err := decoder.Decode(input.Dump)
	if err != nil {
		output.Err = err
		return output
	}
	output.RawTree = root

	file := source.New(input.Path, input.Source)
	module, err := translator.New(ctx.Sink, file, logger).Translate(root, input.IsMainFile)
	if err != nil {
		output.Err = fmt.Errorf("translating: %w", err)
		return output
	}
	output.Module = module

	recorded, err := passes.RunFirstStage(ctx, module)
	if err != nil {
		output.Err = err
		return output
	}
	output.Final = recorded
	return output
}

func secondStage(ctx *passes.Context, generator *codegen.CodeGenerator, output *Output, logger *slog.Logger) {
	if output.Err != nil {
		return
	}
	rewritten, err := passes.RunSecondStage(ctx, output.Final)
	if err != nil {
		output.Err = err
		return
	}
	output.Final = rewritten

	logger.Debug("generating", slog.String("file", output.Path))
	kotlin, err := generator.Generate(rewritten)
	if err != nil {
		output.Err = fmt.Errorf("generating: %w", err)
		return
	}
	output.Kotlin = kotlin
}

// parallel calls work for every index in 0..n-1 on a pool of workers. It
// stops handing out indices once ctx is done.
func parallel(ctx context.Context, workers int, n int, work func(i int)) error {
	if n == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	indices := make(chan int, workers)
	var completed atomic.Int64
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				work(i)
				completed.Add(1)
			}
		}()
	}

	var err error
feed:
	for i := range n {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()

	if err != nil {
		return fmt.Errorf("stopped after %d of %d files: %w", completed.Load(), n, err)
	}
	return nil
}
