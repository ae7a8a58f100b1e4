package decoder

import "strings"

// abbreviations expands the shortened words of raw dump names.
var abbreviations = map[string]string{
	"expr":    "Expression",
	"decl":    "Declaration",
	"stmt":    "Statement",
	"ref":     "Reference",
	"declref": "Declaration Reference",
	"paren":   "Parentheses",
	"func":    "Function",
	"var":     "Variable",
	"param":   "Parameter",
	"ident":   "Identifier",
}

// NormalizeName turns a raw dump name such as "pattern_binding_decl" into
// its catalog name "Pattern Binding Declaration". Names that are already
// normalised pass through unchanged.
func NormalizeName(raw string) string {
	if !strings.Contains(raw, "_") && (raw == "" || strings.ToUpper(raw[:1]) == raw[:1]) {
		return raw
	}
	parts := strings.Split(raw, "_")
	words := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		if expansion, ok := abbreviations[part]; ok {
			words = append(words, expansion)
			continue
		}
		words = append(words, strings.ToUpper(part[:1])+part[1:])
	}
	return strings.Join(words, " ")
}
