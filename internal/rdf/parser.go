package rdf

import (
	"fmt"
	"strings"

	"aspectstudio/internal/vocabulary"
)

// object is one parsed Turtle object position.
type object struct {
	iri      string // expanded IRI, when a reference
	lit      string
	isLit    bool
	lang     string
	datatype string
	list     []object
	isList   bool
	blank    []predObj
	isBlank  bool
}

type predObj struct {
	pred string // expanded predicate IRI
	obj  object
}

// statement is one parsed subject block.
type statement struct {
	subject string
	typeIRI string
	preds   []predObj
}

type parser struct {
	lex      *lexer
	peeked   *token
	prefixes map[string]string
}

func newParser(input string) *parser {
	return &parser{lex: newLexer(input), prefixes: make(map[string]string)}
}

func (p *parser) next() (token, error) {
	if p.peeked != nil {
		t := *p.peeked
		p.peeked = nil
		return t, nil
	}
	return p.lex.next()
}

func (p *parser) peek() (token, error) {
	if p.peeked == nil {
		t, err := p.lex.next()
		if err != nil {
			return token{}, err
		}
		p.peeked = &t
	}
	return *p.peeked, nil
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t, err := p.next()
	if err != nil {
		return token{}, err
	}
	if t.kind != kind {
		return token{}, fmt.Errorf("line %d: expected %s", t.line, what)
	}
	return t, nil
}

// expand resolves a prefixed name to a full IRI and normalizes legacy
// namespaces to their current form.
func (p *parser) expand(pname string) (string, error) {
	i := strings.Index(pname, ":")
	if i < 0 {
		return "", fmt.Errorf("not a prefixed name: %q", pname)
	}
	prefix, local := pname[:i], pname[i+1:]
	ns, ok := p.prefixes[prefix]
	if !ok {
		return "", fmt.Errorf("unknown prefix %q", prefix)
	}
	return normalizeNamespace(ns) + local, nil
}

func normalizeNamespace(ns string) string {
	switch ns {
	case vocabulary.Bamm:
		return vocabulary.Samm
	case vocabulary.BammC:
		return vocabulary.SammC
	case vocabulary.BammE:
		return vocabulary.SammE
	}
	return ns
}

// parseDocument reads prefix declarations and statements until EOF.
func (p *parser) parseDocument() ([]statement, error) {
	var stmts []statement
	for {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch t.kind {
		case tokEOF:
			return stmts, nil
		case tokPrefixDecl:
			if err := p.parsePrefix(); err != nil {
				return nil, err
			}
		default:
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
		}
	}
}

func (p *parser) parsePrefix() error {
	if _, err := p.expect(tokPrefixDecl, "@prefix"); err != nil {
		return err
	}
	name, err := p.expect(tokPName, "prefix name")
	if err != nil {
		return err
	}
	label := strings.TrimSuffix(name.text, ":")
	iri, err := p.expect(tokIRI, "namespace IRI")
	if err != nil {
		return err
	}
	if _, err := p.expect(tokDot, "'.'"); err != nil {
		return err
	}
	p.prefixes[label] = iri.text
	return nil
}

func (p *parser) parseStatement() (statement, error) {
	var stmt statement
	subj, err := p.parseRef()
	if err != nil {
		return stmt, err
	}
	stmt.subject = subj

	for {
		t, err := p.next()
		if err != nil {
			return stmt, err
		}
		switch t.kind {
		case tokA:
			typeRef, err := p.parseRef()
			if err != nil {
				return stmt, err
			}
			stmt.typeIRI = typeRef
		case tokPName, tokIRI:
			pred := t.text
			if t.kind == tokPName {
				pred, err = p.expand(t.text)
				if err != nil {
					return stmt, fmt.Errorf("line %d: %w", t.line, err)
				}
			}
			for {
				obj, err := p.parseObject()
				if err != nil {
					return stmt, err
				}
				stmt.preds = append(stmt.preds, predObj{pred: pred, obj: obj})
				nxt, err := p.peek()
				if err != nil {
					return stmt, err
				}
				if nxt.kind != tokComma {
					break
				}
				p.next()
			}
		default:
			return stmt, fmt.Errorf("line %d: expected predicate", t.line)
		}

		sep, err := p.next()
		if err != nil {
			return stmt, err
		}
		if sep.kind == tokDot {
			return stmt, nil
		}
		if sep.kind != tokSemicolon {
			return stmt, fmt.Errorf("line %d: expected ';' or '.'", sep.line)
		}
		// allow trailing semicolon before the dot
		nxt, err := p.peek()
		if err != nil {
			return stmt, err
		}
		if nxt.kind == tokDot {
			p.next()
			return stmt, nil
		}
	}
}

func (p *parser) parseRef() (string, error) {
	t, err := p.next()
	if err != nil {
		return "", err
	}
	switch t.kind {
	case tokIRI:
		return UnescapeIRI(t.text), nil
	case tokPName:
		return p.expand(t.text)
	default:
		return "", fmt.Errorf("line %d: expected IRI or prefixed name", t.line)
	}
}

func (p *parser) parseObject() (object, error) {
	t, err := p.next()
	if err != nil {
		return object{}, err
	}
	switch t.kind {
	case tokIRI:
		return object{iri: UnescapeIRI(t.text)}, nil
	case tokPName:
		iri, err := p.expand(t.text)
		if err != nil {
			return object{}, fmt.Errorf("line %d: %w", t.line, err)
		}
		return object{iri: iri}, nil
	case tokString:
		obj := object{lit: t.text, isLit: true}
		nxt, err := p.peek()
		if err != nil {
			return object{}, err
		}
		if nxt.kind == tokLangTag {
			p.next()
			obj.lang = nxt.text
		} else if nxt.kind == tokCarets {
			p.next()
			dt, err := p.parseRef()
			if err != nil {
				return object{}, err
			}
			obj.datatype = dt
		}
		return obj, nil
	case tokNumber:
		return object{lit: t.text, isLit: true}, nil
	case tokBool:
		return object{lit: t.text, isLit: true}, nil
	case tokLParen:
		var items []object
		for {
			nxt, err := p.peek()
			if err != nil {
				return object{}, err
			}
			if nxt.kind == tokRParen {
				p.next()
				return object{list: items, isList: true}, nil
			}
			item, err := p.parseObject()
			if err != nil {
				return object{}, err
			}
			items = append(items, item)
		}
	case tokLBracket:
		var preds []predObj
		for {
			nxt, err := p.peek()
			if err != nil {
				return object{}, err
			}
			if nxt.kind == tokRBracket {
				p.next()
				return object{blank: preds, isBlank: true}, nil
			}
			if nxt.kind == tokSemicolon {
				p.next()
				continue
			}
			predTok, err := p.next()
			if err != nil {
				return object{}, err
			}
			if predTok.kind != tokPName && predTok.kind != tokIRI {
				return object{}, fmt.Errorf("line %d: expected predicate in blank node", predTok.line)
			}
			pred := predTok.text
			if predTok.kind == tokPName {
				pred, err = p.expand(predTok.text)
				if err != nil {
					return object{}, fmt.Errorf("line %d: %w", predTok.line, err)
				}
			}
			obj, err := p.parseObject()
			if err != nil {
				return object{}, err
			}
			preds = append(preds, predObj{pred: pred, obj: obj})
		}
	default:
		return object{}, fmt.Errorf("line %d: unexpected object token", t.line)
	}
}
