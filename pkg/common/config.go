package common

const FormatTree = "TREE"
const FormatJSON = "JSON"
const FormatAsciiTree = "ASCIITREE"
const FormatDOT = "DOT"

// DefaultHorizontalLimit is the column budget of the box-drawing dumps.
const DefaultHorizontalLimit = 100

type PrintOptions struct {
	Format          string `yaml:"option-format,omitempty"`
	HorizontalLimit int    `yaml:"option-horizontal-limit,omitempty"` // 0 disables truncation
	TrimValue       int    `yaml:"option-trim-value,omitempty"`       // Attribute values longer than this are trimmed
}

func NewPrintOptions() *PrintOptions {
	return &PrintOptions{
		Format:          FormatTree,
		HorizontalLimit: DefaultHorizontalLimit,
	}
}

// TrimValue shortens long attribute values for the graphical writers.
func TrimValue(value string, limit int) string {
	runes := []rune(value)
	if limit > 0 && len(runes) > limit {
		return string(runes[:limit]) + "…"
	}
	return value
}
