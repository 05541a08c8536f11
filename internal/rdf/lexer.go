package rdf

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIRI           // <...>
	tokPName         // prefix:local or :local
	tokString        // "..."
	tokLangTag       // @en
	tokPrefixDecl    // @prefix
	tokA             // a
	tokDot
	tokSemicolon
	tokComma
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokCarets // ^^
	tokNumber
	tokBool
)

type token struct {
	kind tokenKind
	text string
	line int
}

type lexer struct {
	input []rune
	pos   int
	line  int
}

func newLexer(input string) *lexer {
	return &lexer{input: []rune(input), line: 1}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, line: l.line}, nil
	}

	ch := l.input[l.pos]
	switch {
	case ch == '#':
		for l.pos < len(l.input) && l.input[l.pos] != '\n' {
			l.pos++
		}
		return l.next()
	case ch == '<':
		return l.lexIRI()
	case ch == '"':
		return l.lexString()
	case ch == '@':
		return l.lexAt()
	case ch == '.':
		l.pos++
		return token{kind: tokDot, line: l.line}, nil
	case ch == ';':
		l.pos++
		return token{kind: tokSemicolon, line: l.line}, nil
	case ch == ',':
		l.pos++
		return token{kind: tokComma, line: l.line}, nil
	case ch == '(':
		l.pos++
		return token{kind: tokLParen, line: l.line}, nil
	case ch == ')':
		l.pos++
		return token{kind: tokRParen, line: l.line}, nil
	case ch == '[':
		l.pos++
		return token{kind: tokLBracket, line: l.line}, nil
	case ch == ']':
		l.pos++
		return token{kind: tokRBracket, line: l.line}, nil
	case ch == '^':
		if l.pos+1 < len(l.input) && l.input[l.pos+1] == '^' {
			l.pos += 2
			return token{kind: tokCarets, line: l.line}, nil
		}
		return token{}, fmt.Errorf("line %d: stray '^'", l.line)
	case unicode.IsDigit(ch) || ch == '-' || ch == '+':
		return l.lexNumber()
	default:
		return l.lexName()
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\n' {
			l.line++
			l.pos++
		} else if unicode.IsSpace(ch) {
			l.pos++
		} else {
			return
		}
	}
}

func (l *lexer) lexIRI() (token, error) {
	start := l.pos + 1
	for i := start; i < len(l.input); i++ {
		if l.input[i] == '>' {
			iri := string(l.input[start:i])
			l.pos = i + 1
			return token{kind: tokIRI, text: iri, line: l.line}, nil
		}
	}
	return token{}, fmt.Errorf("line %d: unterminated IRI", l.line)
}

func (l *lexer) lexString() (token, error) {
	var b strings.Builder
	i := l.pos + 1
	for i < len(l.input) {
		ch := l.input[i]
		if ch == '\\' && i+1 < len(l.input) {
			switch l.input[i+1] {
			case 'n':
				b.WriteRune('\n')
			case 'r':
				b.WriteRune('\r')
			case 't':
				b.WriteRune('\t')
			case '"':
				b.WriteRune('"')
			case '\\':
				b.WriteRune('\\')
			default:
				b.WriteRune(l.input[i+1])
			}
			i += 2
			continue
		}
		if ch == '"' {
			l.pos = i + 1
			return token{kind: tokString, text: b.String(), line: l.line}, nil
		}
		if ch == '\n' {
			l.line++
		}
		b.WriteRune(ch)
		i++
	}
	return token{}, fmt.Errorf("line %d: unterminated string", l.line)
}

func (l *lexer) lexAt() (token, error) {
	start := l.pos + 1
	i := start
	for i < len(l.input) && (unicode.IsLetter(l.input[i]) || l.input[i] == '-') {
		i++
	}
	word := string(l.input[start:i])
	l.pos = i
	if word == "prefix" {
		return token{kind: tokPrefixDecl, line: l.line}, nil
	}
	if word == "" {
		return token{}, fmt.Errorf("line %d: stray '@'", l.line)
	}
	return token{kind: tokLangTag, text: word, line: l.line}, nil
}

func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	i := start
	if l.input[i] == '-' || l.input[i] == '+' {
		i++
	}
	for i < len(l.input) && (unicode.IsDigit(l.input[i]) || l.input[i] == '.') {
		// a trailing dot terminates the statement, not the number
		if l.input[i] == '.' && (i+1 >= len(l.input) || !unicode.IsDigit(l.input[i+1])) {
			break
		}
		i++
	}
	text := string(l.input[start:i])
	l.pos = i
	return token{kind: tokNumber, text: text, line: l.line}, nil
}

func isNameRune(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) ||
		ch == ':' || ch == '_' || ch == '-' || ch == '.' || ch == '%'
}

func (l *lexer) lexName() (token, error) {
	start := l.pos
	i := start
	for i < len(l.input) && isNameRune(l.input[i]) {
		// a trailing dot is the statement terminator
		if l.input[i] == '.' && (i+1 >= len(l.input) || !isNameRune(l.input[i+1])) {
			break
		}
		i++
	}
	if i == start {
		return token{}, fmt.Errorf("line %d: unexpected character %q", l.line, string(l.input[i]))
	}
	text := string(l.input[start:i])
	l.pos = i

	switch text {
	case "a":
		return token{kind: tokA, line: l.line}, nil
	case "true", "false":
		return token{kind: tokBool, text: text, line: l.line}, nil
	}
	if !strings.Contains(text, ":") {
		return token{}, fmt.Errorf("line %d: unexpected token %q", l.line, text)
	}
	return token{kind: tokPName, text: text, line: l.line}, nil
}
