package decoder

import (
	"fmt"
	"strings"

	"github.com/spicery/swift2kt/pkg/diag"
)

// snippetLength bounds the remaining-buffer context carried by a DecodeError.
const snippetLength = 120

// Parser is a cursor over dump text. Every read* method expects its token at
// the cursor, consumes it and then skips any following whitespace.
type Parser struct {
	buffer string
	cursor int
}

func NewParser(text string) *Parser {
	return &Parser{buffer: text}
}

// Remaining returns the unread part of the buffer.
func (p *Parser) Remaining() string {
	return p.buffer[p.cursor:]
}

func (p *Parser) atEnd() bool {
	return p.cursor >= len(p.buffer)
}

func (p *Parser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.buffer[p.cursor]
}

func (p *Parser) hasPrefix(prefix string) bool {
	return strings.HasPrefix(p.buffer[p.cursor:], prefix)
}

func (p *Parser) errorf(format string, args ...any) *diag.DecodeError {
	remaining := p.Remaining()
	if runes := []rune(remaining); len(runes) > snippetLength {
		remaining = string(runes[:snippetLength]) + "…"
	}
	return &diag.DecodeError{Message: fmt.Sprintf(format, args...), Remaining: remaining}
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}

func (p *Parser) skipWhitespace() {
	for !p.atEnd() && isWhitespace(p.peek()) {
		p.cursor++
	}
}

func (p *Parser) readSingle(c byte, what string) error {
	if p.peek() != c {
		return p.errorf("expected %s", what)
	}
	p.cursor++
	p.skipWhitespace()
	return nil
}

func (p *Parser) canReadOpeningParenthesis() bool { return p.peek() == '(' }
func (p *Parser) canReadClosingParenthesis() bool { return p.peek() == ')' }
func (p *Parser) canReadOpeningBracket() bool { return p.peek() == '[' }
func (p *Parser) canReadClosingBracket() bool { return p.peek() == ']' }
func (p *Parser) canReadOpeningBrace() bool { return p.peek() == '{' }
func (p *Parser) canReadClosingBrace() bool { return p.peek() == '}' }
func (p *Parser) canReadDoubleQuotedString() bool { return p.peek() == '"' }
func (p *Parser) canReadSingleQuotedString() bool { return p.peek() == '\'' }
func (p *Parser) canReadStringInBrackets() bool { return p.canReadOpeningBracket() }
func (p *Parser) canReadStringInAngleBrackets() bool {
	return p.peek() == '<'
}

// canReadIdentifier is true for anything that is not a delimiter or a quote.
func (p *Parser) canReadIdentifier() bool {
	if p.atEnd() {
		return false
	}
	switch p.peek() {
	case '(', ')', '[', ']', '{', '}', '"', '\'', ' ', '\n':
		return false
	}
	return true
}

func (p *Parser) readOpeningParenthesis() error { return p.readSingle('(', "'('") }
func (p *Parser) readClosingParenthesis() error { return p.readSingle(')', "')'") }
func (p *Parser) readOpeningBracket() error { return p.readSingle('[', "'['") }
func (p *Parser) readClosingBracket() error { return p.readSingle(']', "']'") }
func (p *Parser) readOpeningBrace() error { return p.readSingle('{', "'{'") }
func (p *Parser) readClosingBrace() error { return p.readSingle('}', "'}'") }

// readQuoted reads a string between two quote characters, returning its
// contents with escape sequences kept as written.
func (p *Parser) readQuoted(quote byte, what string) (string, error) {
	if p.peek() != quote {
		return "", p.errorf("expected %s", what)
	}
	start := p.cursor + 1
	i := start
	for i < len(p.buffer) && p.buffer[i] != quote {
		if p.buffer[i] == '\\' {
			i++
		}
		i++
	}
	if i >= len(p.buffer) {
		return "", p.errorf("unterminated %s", what)
	}
	p.cursor = i + 1
	p.skipWhitespace()
	return p.buffer[start:i], nil
}

func (p *Parser) readDoubleQuotedString() (string, error) {
	return p.readQuoted('"', "double-quoted string")
}

func (p *Parser) readSingleQuotedString() (string, error) {
	return p.readQuoted('\'', "single-quoted string")
}

// readBalanced reads from an opening delimiter to its matching closer,
// returning the contents without the outer pair.
func (p *Parser) readBalanced(open byte, close byte, what string) (string, error) {
	if p.peek() != open {
		return "", p.errorf("expected %s", what)
	}
	start := p.cursor + 1
	level := 0
	for i := p.cursor; i < len(p.buffer); i++ {
		switch p.buffer[i] {
		case open:
			level++
		case close:
			level--
			if level == 0 {
				p.cursor = i + 1
				p.skipWhitespace()
				return p.buffer[start:i], nil
			}
		}
	}
	return "", p.errorf("unterminated %s", what)
}

func (p *Parser) readStringInBrackets() (string, error) {
	return p.readBalanced('[', ']', "string in brackets")
}

func (p *Parser) readStringInAngleBrackets() (string, error) {
	return p.readBalanced('<', '>', "string in angle brackets")
}

func (p *Parser) readStringInBraces() (string, error) {
	return p.readBalanced('{', '}', "string in braces")
}

func (p *Parser) readStringInParentheses() (string, error) {
	return p.readBalanced('(', ')', "string in parentheses")
}

// continuesAfterNewline reports whether the newline at index i is a bare
// line wrap: it is followed directly by a non-whitespace character.
func (p *Parser) continuesAfterNewline(i int) bool {
	return i+1 < len(p.buffer) && !isWhitespace(p.buffer[i+1])
}

// readIdentifier reads a bare token. Balanced parentheses are kept verbatim,
// a newline followed directly by more text is dropped and the token carries
// on, anything else ends the token.
func (p *Parser) readIdentifier() (string, error) {
	if !p.canReadIdentifier() && !p.canReadOpeningParenthesis() {
		return "", p.errorf("expected identifier")
	}
	var builder strings.Builder
	level := 0
	i := p.cursor
loop:
	for ; i < len(p.buffer); i++ {
		c := p.buffer[i]
		switch c {
		case '(':
			level++
		case ')':
			level--
			if level < 0 {
				break loop
			}
		case ' ':
			if level <= 0 {
				break loop
			}
		case '\n':
			if p.continuesAfterNewline(i) {
				continue
			}
			break loop
		}
		builder.WriteByte(c)
	}
	p.cursor = i
	p.skipWhitespace()
	return builder.String(), nil
}

// readDeclaration reads a dotted symbol reference such as
// "Swift.(file).Array extension.count". A space only continues the chain when
// it introduces an "extension." component.
func (p *Parser) readDeclaration() (string, error) {
	if !p.canReadIdentifier() && !p.canReadOpeningParenthesis() {
		return "", p.errorf("expected declaration")
	}
	var builder strings.Builder
	level := 0
	i := p.cursor
loop:
	for ; i < len(p.buffer); i++ {
		c := p.buffer[i]
		switch c {
		case '(':
			level++
		case ')':
			level--
			if level < 0 {
				break loop
			}
		case ' ':
			if level <= 0 && !strings.HasPrefix(p.buffer[i+1:], "extension.") {
				break loop
			}
		case '\n':
			if p.continuesAfterNewline(i) {
				continue
			}
			break loop
		}
		builder.WriteByte(c)
	}
	p.cursor = i
	p.skipWhitespace()
	return builder.String(), nil
}

// readDeclarationLocation attempts to read "declaration@path:line:col" that
// ends the attribute list. On any mismatch it restores the cursor and
// returns ok == false.
func (p *Parser) readDeclarationLocation() (string, bool) {
	saved := p.cursor
	fail := func() (string, bool) {
		p.cursor = saved
		return "", false
	}

	at := -1
	level := 0
	i := p.cursor
scan:
	for ; i < len(p.buffer); i++ {
		switch p.buffer[i] {
		case '(':
			level++
		case ')':
			level--
			if level < 0 {
				break scan
			}
		case '@':
			if level == 0 {
				at = i
				break scan
			}
		case ' ':
			if level == 0 && !strings.HasPrefix(p.buffer[i+1:], "extension.") {
				break scan
			}
		case '\n':
			break scan
		}
	}
	if at <= p.cursor {
		return fail()
	}

	// path
	i = at + 1
	for i < len(p.buffer) && p.buffer[i] != ':' && !isWhitespace(p.buffer[i]) && p.buffer[i] != ')' {
		i++
	}
	if i == at+1 {
		return fail()
	}
	// :line:col
	for range 2 {
		if i >= len(p.buffer) || p.buffer[i] != ':' {
			return fail()
		}
		i++
		digits := i
		for i < len(p.buffer) && p.buffer[i] >= '0' && p.buffer[i] <= '9' {
			i++
		}
		if i == digits {
			return fail()
		}
	}
	end := i
	for i < len(p.buffer) && p.buffer[i] == ' ' {
		i++
	}
	if i >= len(p.buffer) || p.buffer[i] != ')' {
		return fail()
	}

	result := p.buffer[p.cursor:end]
	p.cursor = end
	p.skipWhitespace()
	return result, true
}

// readKey attempts to read "name=" and returns the name. "interface type="
// is the one key containing a space.
func (p *Parser) readKey() (string, bool) {
	if p.hasPrefix("interface type=") {
		p.cursor += len("interface type=")
		return "interface type", true
	}
	i := p.cursor
	for i < len(p.buffer) && isKeyCharacter(p.buffer[i]) {
		i++
	}
	if i == p.cursor || i >= len(p.buffer) || p.buffer[i] != '=' {
		return "", false
	}
	key := p.buffer[p.cursor:i]
	p.cursor = i + 1
	return key, true
}

func isKeyCharacter(c byte) bool {
	return c == '_' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
