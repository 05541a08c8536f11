// Package service implements the business logic of the aspect model editor.
//
// This package provides service layers that coordinate between the HTTP
// handlers and the model: the element graph, the visual graph adapter, the
// connection engine and the RDF serialization boundary.
//
// # Services
//
// EditorService owns every model-editing gesture: connecting selections,
// creating elements from the palette or an overlay affordance, deleting,
// renaming, collapse/expand, layout reformat, and Turtle import/export. Each
// gesture runs under one mutex inside a single adapter update transaction,
// so connected clients observe it atomically.
//
// ValidationService submits the serialized model to an external validator
// and maps the findings back to cell highlights. Starting a new run cancels
// the previous one; a cancelled run's late result never touches the model.
//
// # Event System
//
// All services publish events via EventBus for real-time updates to
// connected clients via Server-Sent Events (SSE). Event types include
// element creation, graph change batches, model imports and validation
// results.
package service
