// Package vocabulary defines the RDF namespace prefixes, term IRIs, and
// scalar datatype catalog used when serializing and parsing aspect models.
//
// The current meta-model vocabulary uses the samm: prefix family; the legacy
// bamm: family is still accepted on parse and rewritten to samm: on
// serialization.
package vocabulary
