package gateway

import "github.com/terrence3333/Mindconnect-Demo/internal/models"

// Client is one authenticated connection attached to the hub. It abstracts the
// transport so the hub can fan out events without knowing about WebSockets.
// A Client only exists once authentication has resolved a user profile.
type Client interface {
	// UserID returns the authenticated user's identifier.
	UserID() string
	// UserName returns the authenticated user's display name.
	UserName() string

	// Deliver queues an event for this client without blocking. It reports
	// false when the client's buffer is full, which the hub treats as a dead
	// or hopelessly slow consumer and drops the client.
	Deliver(ev models.OutboundEvent) bool

	// Close releases the client's outbound resources. Called exactly once,
	// by the hub, when the client is removed.
	Close()
}
