package decoder

import (
	"strings"

	"github.com/spicery/swift2kt/pkg/common"
)

// declarationKeys are attributes whose values are symbol references, which
// may wrap across lines and contain " extension." components.
var declarationKeys = map[string]bool{
	"decl":                true,
	"location":            true,
	"builtin_initializer": true,
	"initializer":         true,
	"default_args_owner":  true,
	"field":               true,
	"get_for":             true,
	"set_for":             true,
	"override":            true,
}

// Decode parses one parenthesised dump into a raw node tree.
func Decode(text string) (*common.Node, error) {
	p := NewParser(text)
	p.skipWhitespace()
	node, err := p.decodeNode()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if !p.atEnd() {
		return nil, p.errorf("unexpected text after the %q node", node.Name)
	}
	return node, nil
}

// DecodeAll parses every top-level node of a dump, as produced when several
// files are dumped together.
func DecodeAll(text string) ([]*common.Node, error) {
	p := NewParser(text)
	p.skipWhitespace()
	var nodes []*common.Node
	for !p.atEnd() {
		node, err := p.decodeNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
		p.skipWhitespace()
	}
	return nodes, nil
}

func (p *Parser) decodeNode() (*common.Node, error) {
	if err := p.readOpeningParenthesis(); err != nil {
		return nil, err
	}
	rawName, err := p.readIdentifier()
	if err != nil {
		return nil, err
	}
	node := common.NewNode(NormalizeName(rawName))

	for {
		switch {
		case p.atEnd():
			return nil, p.errorf("unexpected end of dump inside %q", node.Name)

		case p.canReadOpeningParenthesis():
			child, err := p.decodeNode()
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)

		case p.canReadClosingParenthesis():
			if err := p.readClosingParenthesis(); err != nil {
				return nil, err
			}
			return node, nil

		default:
			if key, ok := p.readKey(); ok {
				value, err := p.readValue(key)
				if err != nil {
					return nil, err
				}
				node.KeyValueAttributes[key] = value
				continue
			}
			attribute, err := p.readStandalone()
			if err != nil {
				return nil, err
			}
			if attribute == "inherits:" {
				node.KeyValueAttributes[common.KeyInherits] = p.readInheritanceList()
				continue
			}
			node.StandaloneAttributes = append(node.StandaloneAttributes, attribute)
		}
	}
}

func (p *Parser) readValue(key string) (string, error) {
	if p.atEnd() || isWhitespace(p.peek()) || p.canReadClosingParenthesis() {
		p.skipWhitespace()
		return "", nil
	}
	if declarationKeys[key] {
		if value, ok := p.readDeclarationLocation(); ok {
			return value, nil
		}
		return p.readDeclaration()
	}
	if key == common.KeyRange {
		return p.readStringInBrackets()
	}
	switch {
	case p.canReadDoubleQuotedString():
		return p.readDoubleQuotedString()
	case p.canReadSingleQuotedString():
		return p.readSingleQuotedString()
	case p.canReadStringInBrackets():
		return p.readStringInBrackets()
	case p.canReadStringInAngleBrackets():
		return p.readStringInAngleBrackets()
	case p.canReadOpeningParenthesis():
		return p.readStringInParentheses()
	default:
		return p.readIdentifier()
	}
}

func (p *Parser) readStandalone() (string, error) {
	switch {
	case p.canReadDoubleQuotedString():
		return p.readDoubleQuotedString()
	case p.canReadSingleQuotedString():
		return p.readSingleQuotedString()
	case p.canReadStringInBrackets():
		return p.readStringInBrackets()
	case p.canReadOpeningBrace():
		return p.readStringInBraces()
	case p.canReadClosingBracket(), p.canReadClosingBrace():
		return "", p.errorf("unbalanced closing delimiter")
	default:
		return p.readIdentifier()
	}
}

// readInheritanceList reads the comma-separated names after "inherits:".
func (p *Parser) readInheritanceList() string {
	var names []string
	for p.canReadIdentifier() {
		name, err := p.readIdentifier()
		if err != nil {
			break
		}
		trimmed := strings.TrimSuffix(name, ",")
		names = append(names, trimmed)
		if trimmed == name {
			break
		}
	}
	return strings.Join(names, ", ")
}
