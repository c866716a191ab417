// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

// CatalogQueueName is the durable queue catalog change events go to.
const CatalogQueueName = "catalog.changed"

// Actions and entities carried by CatalogChangedEvent.
const (
    ActionCreated = "created"
    ActionUpdated = "updated"

    EntityTravel = "travel"
    EntityTour   = "tour"
)

// CatalogChangedEvent is published after an admin creates or updates a
// travel or tour.  It carries enough for an audit trail without querying
// the primary database.
type CatalogChangedEvent struct {
    Action     string `json:"action"`
    Entity     string `json:"entity"`
    EntityID   uint64 `json:"entity_id"`
    TravelID   uint64 `json:"travel_id"`
    Name       string `json:"name"`
    ActorID    uint64 `json:"actor_id"`
    OccurredAt string `json:"occurred_at"`
}
