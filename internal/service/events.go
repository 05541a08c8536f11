package service

// EventType defines the type of event
type EventType string

const (
	EventElementCreated     EventType = "element_created"
	EventElementUpdated     EventType = "element_updated"
	EventElementDeleted     EventType = "element_deleted"
	EventElementRenamed     EventType = "element_renamed"
	EventEdgeConnected      EventType = "edge_connected"
	EventEdgeRemoved        EventType = "edge_removed"
	EventGraphChanged       EventType = "graph_changed"
	EventModelImported      EventType = "model_imported"
	EventValidationFinished EventType = "validation_finished"
	EventNamespacesChanged  EventType = "namespaces_changed"
)

// Event represents an event that occurred in the system
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
