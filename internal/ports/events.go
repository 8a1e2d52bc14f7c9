package ports

// MessagePublisher sends a raw payload to a named queue.
type MessagePublisher interface {
	Publish(queue string, body []byte) error
}

// EventEmitter broadcasts progress and lifecycle events.
type EventEmitter interface {
	Emit(name string, payload any)
}
