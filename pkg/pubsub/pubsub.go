package pubsub

import (
	"context"
	"encoding/json"
)

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`   // Subscription topic (e.g., "solve_status", "matching")
	Type    string          `json:"type"`    // Event type (e.g., "parsing", "solving", "solved")
	Data    json.RawMessage `json:"data"`    // Event payload
	Version int             `json:"version"` // Version number for ordering
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	// Topic returns the subscription topic
	Topic() string

	// Events returns a channel for receiving events
	Events() <-chan Event

	// Close closes the subscription
	Close() error
}

// Publisher manages pub/sub subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic
	// Context cancellation will close the subscription
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data interface{}) error

	// Close shuts down the publisher and all subscriptions
	Close() error
}

// SolveStatus reports the progress of a matching run
type SolveStatus struct {
	State   string `json:"state"`   // parsing, formulating, solving, solved, failed
	Message string `json:"message"` // Human-readable status message
}

// MatchingData is the pushed result of a completed solve
type MatchingData struct {
	Status            string  `json:"status"`
	Objective         float64 `json:"objective"`
	IsSubgraph        bool    `json:"is_subgraph"`
	UnmatchedVertices []int   `json:"unmatched_vertices"`
	UnmatchedEdges    []int   `json:"unmatched_edges"`
	ElapsedMs         int64   `json:"elapsed_ms"`
}
