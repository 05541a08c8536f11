package rdf

import (
	"net/url"
	"strings"
)

// iriEscaper percent-escapes the characters Turtle forbids inside <...>.
var iriEscaper = strings.NewReplacer(
	" ", "%20",
	"\"", "%22",
	"<", "%3C",
	">", "%3E",
	"\\", "%5C",
	"^", "%5E",
	"`", "%60",
	"{", "%7B",
	"|", "%7C",
	"}", "%7D",
)

// EscapeIRI percent-escapes special characters so the IRI can be wrapped in
// angle brackets.
func EscapeIRI(iri string) string {
	return iriEscaper.Replace(iri)
}

// UnescapeIRI reverses EscapeIRI. Malformed escapes are returned unchanged.
func UnescapeIRI(iri string) string {
	out, err := url.PathUnescape(iri)
	if err != nil {
		return iri
	}
	return out
}

// escapeLiteral escapes a string for a quoted Turtle literal.
func escapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString("\\\"")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
