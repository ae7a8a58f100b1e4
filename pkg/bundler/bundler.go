// Package bundler records a translation run in a SQLite bundle: each unit's
// source, generated Kotlin and dumps, its top-level declarations, the
// diagnostics recorded against it and the registry counts.
package bundler

import (
	"bytes"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/spicery/swift2kt/pkg/ast"
	"github.com/spicery/swift2kt/pkg/common"
	"github.com/spicery/swift2kt/pkg/diag"
	"github.com/spicery/swift2kt/pkg/pipeline"
)

// Bundler handles the bundling process.
type Bundler struct {
	db *gorm.DB
}

// NewBundler opens, creating if needed, the bundle at dbPath.
func NewBundler(dbPath string) (*Bundler, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Bundler{db: db}, nil
}

// Migrate performs database migrations.
func (b *Bundler) Migrate() error {
	return Migrate(b.db)
}

// CheckMigration checks if the database schema is up to date.
func (b *Bundler) CheckMigration() (bool, error) {
	return CheckMigration(b.db)
}

// RecordResult saves every unit of a run, its warnings and the registry
// counts in one transaction.
func (b *Bundler) RecordResult(result *pipeline.Result) error {
	return b.db.Transaction(func(tx *gorm.DB) error {
		for _, output := range result.Outputs {
			if err := recordOutput(tx, output); err != nil {
				return fmt.Errorf("failed to record %s: %w", output.Path, err)
			}
		}
		for _, warning := range result.Sink.Warnings() {
			if err := tx.Create(warningDiagnostic(warning)).Error; err != nil {
				return fmt.Errorf("failed to save warning: %w", err)
			}
		}
		for key, value := range result.Registry.Summary() {
			if err := tx.Save(&Statistic{Key: key, Value: value}).Error; err != nil {
				return fmt.Errorf("failed to save statistic: %w", err)
			}
		}
		return nil
	})
}

func recordOutput(tx *gorm.DB, output *pipeline.Output) error {
	unit := TranslationUnit{FileName: output.Path, Kotlin: output.Kotlin}
	if output.Err != nil {
		unit.Failure = output.Err.Error()
	}
	if output.RawTree != nil {
		var buffer bytes.Buffer
		if err := common.PrintASTJSON(output.RawTree, &buffer, common.NewPrintOptions()); err != nil {
			return fmt.Errorf("failed to serialize raw tree: %w", err)
		}
		unit.RawTree = buffer.String()
	}
	if output.Final != nil {
		unit.Final = ast.Dump(output.Final, 0)
	}
	if result := tx.Save(&unit); result.Error != nil {
		return fmt.Errorf("failed to save unit: %w", result.Error)
	}

	if result := tx.Save(&SourceFile{FileName: output.Path, Contents: output.Source}); result.Error != nil {
		return fmt.Errorf("failed to save source: %w", result.Error)
	}

	if output.IsMainFile {
		if result := tx.Save(&EntryPoint{FileName: output.Path}); result.Error != nil {
			return fmt.Errorf("failed to save entry point: %w", result.Error)
		}
	}

	if output.Final != nil {
		for _, declaration := range findDeclarations(output.Final) {
			declaration.FileName = output.Path
			if result := tx.Save(&declaration); result.Error != nil {
				return fmt.Errorf("failed to save declaration: %w", result.Error)
			}
		}
	}

	for _, structural := range output.Errors {
		if result := tx.Create(errorDiagnostic(structural)); result.Error != nil {
			return fmt.Errorf("failed to save diagnostic: %w", result.Error)
		}
	}
	return nil
}

func errorDiagnostic(err *diag.StructuralError) *Diagnostic {
	diagnostic := &Diagnostic{FileName: err.Path, Severity: "error", Message: err.Message}
	if err.Range != nil {
		diagnostic.Line = err.Range.LineStart
		diagnostic.Column = err.Range.ColumnStart
	}
	return diagnostic
}

func warningDiagnostic(warning *diag.Warning) *Diagnostic {
	diagnostic := &Diagnostic{FileName: warning.Path, Severity: "warning", Message: warning.Message}
	if warning.Range != nil {
		diagnostic.Line = warning.Range.LineStart
		diagnostic.Column = warning.Range.ColumnStart
	}
	return diagnostic
}

// findDeclarations lists the named top-level declarations of a module,
// without duplicates.
func findDeclarations(module *ast.Module) []Declaration {
	seen := map[Declaration]bool{}
	var declarations []Declaration
	add := func(name string, kind string) {
		declaration := Declaration{Name: name, Kind: kind}
		if name == "" || seen[declaration] {
			return
		}
		seen[declaration] = true
		declarations = append(declarations, declaration)
	}
	for _, statement := range append(append([]ast.Statement(nil), module.Declarations...), module.Statements...) {
		switch s := statement.(type) {
		case *ast.ClassDeclaration:
			add(s.ClassName, "class")
		case *ast.StructDeclaration:
			add(s.StructName, "struct")
		case *ast.EnumDeclaration:
			add(s.EnumName, "enum")
		case *ast.ProtocolDeclaration:
			add(s.ProtocolName, "protocol")
		case *ast.TypealiasDeclaration:
			add(s.Identifier, "typealias")
		case *ast.FunctionDeclaration:
			add(s.Data.Prefix, "function")
		case *ast.VariableDeclaration:
			add(s.Data.Identifier, "variable")
		}
	}
	return declarations
}

// Units returns the recorded units ordered by file name.
func (b *Bundler) Units() ([]TranslationUnit, error) {
	var units []TranslationUnit
	if err := b.db.Order("file_name").Find(&units).Error; err != nil {
		return nil, fmt.Errorf("failed to read units: %w", err)
	}
	return units, nil
}

// Diagnostics returns the diagnostics recorded against a file, in the order
// they were recorded.
func (b *Bundler) Diagnostics(fileName string) ([]Diagnostic, error) {
	var diagnostics []Diagnostic
	if err := b.db.Where("file_name = ?", fileName).Order("id").Find(&diagnostics).Error; err != nil {
		return nil, fmt.Errorf("failed to read diagnostics: %w", err)
	}
	return diagnostics, nil
}

// Declarations returns the declarations recorded for a file.
func (b *Bundler) Declarations(fileName string) ([]Declaration, error) {
	var declarations []Declaration
	if err := b.db.Where("file_name = ?", fileName).Order("name").Find(&declarations).Error; err != nil {
		return nil, fmt.Errorf("failed to read declarations: %w", err)
	}
	return declarations, nil
}

// Close closes the database connection.
func (b *Bundler) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
