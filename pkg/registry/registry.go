// Package registry holds the cross-file tables of a run: templates recorded
// from template files, enum and protocol names, function translations and
// the type-name mapping. It is append-only and safe for concurrent use.
package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/spicery/swift2kt/pkg/ast"
)

// Template pairs an expression shape with the target text that replaces it.
// Declaration references whose identifier starts with "_" are placeholders.
type Template struct {
	Expression ast.Expression
	String     string
}

// FunctionTranslation renames a called function and its argument labels.
// A parameter of "_" is passed without a label.
type FunctionTranslation struct {
	SwiftAPIName string   // e.g. "print(_:separator:terminator:)"
	TypeName     string   // "" matches any type
	Prefix       string   // Target function name
	Parameters   []string // Target labels, one per source parameter
}

type Registry struct {
	mu                   sync.RWMutex
	templates            []Template
	enumClasses          map[string]bool
	sealedClasses        map[string]bool
	protocols            map[string]bool
	builtinProtocols     map[string]bool
	pureFunctions        map[string]bool
	functionTranslations []FunctionTranslation
	typeMappings         map[string]string
	literalSuffixes      map[string]string
}

func New() *Registry {
	return &Registry{
		enumClasses:      map[string]bool{},
		sealedClasses:    map[string]bool{},
		protocols:        map[string]bool{},
		builtinProtocols: map[string]bool{},
		pureFunctions:    map[string]bool{},
		typeMappings:     map[string]string{},
		literalSuffixes:  map[string]string{},
	}
}

func (r *Registry) AddTemplate(template Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates = append(r.templates, template)
}

// Templates returns the recorded templates in insertion order.
func (r *Registry) Templates() []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Template(nil), r.templates...)
}

// AddEnumClass records an enum whose cases carry no associated values.
func (r *Registry) AddEnumClass(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enumClasses[name] = true
}

func (r *Registry) IsEnumClass(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enumClasses[lastComponent(name)]
}

// AddSealedClass records an enum rendered as one subclass per case.
func (r *Registry) AddSealedClass(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealedClasses[name] = true
}

func (r *Registry) IsSealedClass(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealedClasses[lastComponent(name)]
}

func (r *Registry) AddProtocol(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.protocols[name] = true
}

func (r *Registry) IsProtocol(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.protocols[name] || r.builtinProtocols[name]
}

// AddBuiltinProtocol records a standard protocol that has no target
// counterpart and is dropped from inheritance lists.
func (r *Registry) AddBuiltinProtocol(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builtinProtocols[name] = true
}

func (r *Registry) IsBuiltinProtocol(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.builtinProtocols[name]
}

func (r *Registry) AddPureFunction(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pureFunctions[name] = true
}

func (r *Registry) IsPureFunction(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pureFunctions[name]
}

func (r *Registry) AddFunctionTranslation(translation FunctionTranslation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.functionTranslations = append(r.functionTranslations, translation)
}

// FunctionTranslation finds the translation for a called function. Later
// registrations win over earlier ones.
func (r *Registry) FunctionTranslation(swiftAPIName string, typeName string) (FunctionTranslation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.functionTranslations) - 1; i >= 0; i-- {
		translation := r.functionTranslations[i]
		if translation.SwiftAPIName != swiftAPIName {
			continue
		}
		if translation.TypeName == "" || translation.TypeName == typeName {
			return translation, true
		}
	}
	return FunctionTranslation{}, false
}

func (r *Registry) SetTypeMapping(from string, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.typeMappings[from] = to
}

func (r *Registry) TypeMapping(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	to, ok := r.typeMappings[name]
	return to, ok
}

// SetLiteralSuffix sets the suffix appended to numeric literals of a kind,
// e.g. "uint" or "float".
func (r *Registry) SetLiteralSuffix(kind string, suffix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.literalSuffixes[kind] = suffix
}

func (r *Registry) LiteralSuffix(kind string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.literalSuffixes[kind]
}

// Summary lists the counts of each table, for logging.
func (r *Registry) Summary() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return map[string]int{
		"templates":             len(r.templates),
		"enum classes":          len(r.enumClasses),
		"sealed classes":        len(r.sealedClasses),
		"protocols":             len(r.protocols),
		"function translations": len(r.functionTranslations),
		"type mappings":         len(r.typeMappings),
	}
}

// SealedClasses returns the sorted names of the sealed classes.
func (r *Registry) SealedClasses() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sealedClasses))
	for name := range r.sealedClasses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lastComponent drops the enclosing type names of a nested type, so that
// "A.B" is looked up as "B".
func lastComponent(name string) string {
	name = strings.TrimSuffix(name, "?")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
