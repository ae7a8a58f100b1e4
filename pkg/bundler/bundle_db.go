package bundler

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// EntryPoint marks the unit that holds the top-level code of the run.
type EntryPoint struct {
	FileName string `gorm:"primaryKey"`
}

// TranslationUnit is the outcome of translating one file.
type TranslationUnit struct {
	FileName string `gorm:"primaryKey"`
	Kotlin   string
	RawTree  string // JSON of the decoded dump
	Final    string // Tree dump of the rewritten intermediate tree
	Failure  string // Why the file was abandoned, or ""
}

// Declaration is a top-level declaration of a unit.
type Declaration struct {
	Name     string `gorm:"primaryKey"`
	Kind     string `gorm:"primaryKey"`
	FileName string `gorm:"index"`
}

// SourceFile stores the original source file contents.
type SourceFile struct {
	FileName string `gorm:"primaryKey"`
	Contents string
}

// Diagnostic is a structural error or a warning recorded against a unit.
type Diagnostic struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	FileName string `gorm:"index"`
	Severity string
	Line     int
	Column   int
	Message  string
}

// Statistic is one count of the shared registry at the end of the run.
type Statistic struct {
	Key   string `gorm:"primaryKey"`
	Value int
}

// getMigrations returns the list of migrations for the bundle database.
func getMigrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202610010001",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&EntryPoint{},
					&TranslationUnit{},
					&Declaration{},
					&SourceFile{},
					&Diagnostic{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					&Diagnostic{},
					&SourceFile{},
					&Declaration{},
					&TranslationUnit{},
					&EntryPoint{},
				)
			},
		},
		{
			ID: "202610080001",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&Statistic{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&Statistic{})
			},
		},
	}
}

// Migrate performs database migrations using gormigrate.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, getMigrations())
	return m.Migrate()
}

// CheckMigration checks if the database schema is up to date.
func CheckMigration(db *gorm.DB) (bool, error) {
	// A missing migrations table means nothing has been applied yet. The
	// silent logger keeps fresh databases from logging that as an error.
	var lastMigration string
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Table(gormigrate.DefaultOptions.TableName).
		Select("id").
		Order("id DESC").
		Limit(1).
		Scan(&lastMigration).Error
	if err != nil {
		return false, nil
	}

	migrations := getMigrations()
	if len(migrations) == 0 {
		return true, nil
	}
	expectedLastID := migrations[len(migrations)-1].ID
	return lastMigration == expectedLastID, nil
}
