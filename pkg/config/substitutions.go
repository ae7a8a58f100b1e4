package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spicery/swift2kt/pkg/registry"
)

// Substitutions are the data tables that retarget names without code
// changes. The default document is overlaid by an optional user file.
type Substitutions struct {
	TypeMappings         map[string]string     `yaml:"type-mappings,omitempty"`
	BuiltinProtocols     []string              `yaml:"builtin-protocols,omitempty"`
	RawValueTypes        []string              `yaml:"raw-value-types,omitempty"`
	FunctionTranslations []FunctionTranslation `yaml:"function-translations,omitempty"`
	LiteralSuffixes      map[string]string     `yaml:"literal-suffixes,omitempty"`
	Identifiers          map[string]string     `yaml:"identifiers,omitempty"`
	Operators            map[string]string     `yaml:"operators,omitempty"`
}

type FunctionTranslation struct {
	Swift      string   `yaml:"swift"`
	Type       string   `yaml:"type,omitempty"`
	Kotlin     string   `yaml:"kotlin"`
	Parameters []string `yaml:"parameters,omitempty"`
}

// LoadSubstitutions reads the default substitutions and overlays the file at
// filename when it is not empty.
func LoadSubstitutions(filename string) (*Substitutions, error) {
	substitutions, err := LoadSubstitutionsFromString(DefaultSubstitutions)
	if err != nil {
		return nil, fmt.Errorf("default substitutions: %w", err)
	}
	if filename == "" {
		return substitutions, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read substitutions file: %w", err)
	}
	overlay, err := LoadSubstitutionsFromString(string(data))
	if err != nil {
		return nil, err
	}
	substitutions.Merge(overlay)
	return substitutions, nil
}

func LoadSubstitutionsFromString(text string) (*Substitutions, error) {
	var substitutions Substitutions
	if err := yaml.Unmarshal([]byte(text), &substitutions); err != nil {
		return nil, fmt.Errorf("failed to parse substitutions YAML: %w", err)
	}
	for i, translation := range substitutions.FunctionTranslations {
		if translation.Swift == "" || translation.Kotlin == "" {
			return nil, fmt.Errorf("function translation %d: swift and kotlin names are required", i)
		}
	}
	return &substitutions, nil
}

// Merge overlays other on s; maps are merged key by key and lists appended.
func (s *Substitutions) Merge(other *Substitutions) {
	s.TypeMappings = mergeMaps(s.TypeMappings, other.TypeMappings)
	s.LiteralSuffixes = mergeMaps(s.LiteralSuffixes, other.LiteralSuffixes)
	s.Identifiers = mergeMaps(s.Identifiers, other.Identifiers)
	s.Operators = mergeMaps(s.Operators, other.Operators)
	s.BuiltinProtocols = append(s.BuiltinProtocols, other.BuiltinProtocols...)
	s.RawValueTypes = append(s.RawValueTypes, other.RawValueTypes...)
	s.FunctionTranslations = append(s.FunctionTranslations, other.FunctionTranslations...)
}

func mergeMaps(base map[string]string, overlay map[string]string) map[string]string {
	if base == nil {
		base = map[string]string{}
	}
	for key, value := range overlay {
		base[key] = value
	}
	return base
}

// Seed loads the tables into a registry.
func (s *Substitutions) Seed(r *registry.Registry) {
	for from, to := range s.TypeMappings {
		r.SetTypeMapping(from, to)
	}
	for _, protocol := range s.BuiltinProtocols {
		r.AddBuiltinProtocol(protocol)
	}
	for _, rawType := range s.RawValueTypes {
		r.AddBuiltinProtocol(rawType)
	}
	for kind, suffix := range s.LiteralSuffixes {
		r.SetLiteralSuffix(kind, suffix)
	}
	for _, translation := range s.FunctionTranslations {
		r.AddFunctionTranslation(registry.FunctionTranslation{
			SwiftAPIName: translation.Swift,
			TypeName:     translation.Type,
			Prefix:       translation.Kotlin,
			Parameters:   translation.Parameters,
		})
	}
}
