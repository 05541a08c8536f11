// Package rdf serializes the element graph to Turtle and parses Turtle
// documents back into element graphs.
//
// Serialization is deterministic: prefixes first, the aspect first, then
// elements in the aspect's declared order via a depth-first walk, then any
// remaining elements in store insertion order. Parsing accepts the current
// samm: prefix family and the legacy bamm: family.
package rdf
