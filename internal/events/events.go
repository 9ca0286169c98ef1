// Package events carries travel-group change notifications to live
// dashboards and other services.
package events

import (
	"context"
	"time"
)

// Kind names what changed.
type Kind string

const (
	GroupCreated        Kind = "group.created"
	GroupUpdated        Kind = "group.updated"
	GroupDeleted        Kind = "group.deleted"
	MembersAdded        Kind = "members.added"
	MemberUpdated       Kind = "member.updated"
	MemberRemoved       Kind = "member.removed"
	SegmentChanged      Kind = "segment.changed"
	CoordinationApplied Kind = "coordination.applied"
)

// GroupEvent is one change notification. Payload is the changed record or
// a small summary of it.
type GroupEvent struct {
	Kind    Kind      `json:"kind"`
	GroupID string    `json:"group_id,omitempty"`
	EventID string    `json:"event_id,omitempty"`
	TourID  string    `json:"tour_id,omitempty"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}

// Scopes lists the subscription keys the event is delivered to.
func (e GroupEvent) Scopes() []string {
	scopes := []string{ScopeAll}
	if e.TourID != "" {
		scopes = append(scopes, TourScope(e.TourID))
	}
	if e.EventID != "" {
		scopes = append(scopes, EventScope(e.EventID))
	}
	return scopes
}

// ScopeAll receives every event.
const ScopeAll = "*"

func TourScope(id string) string  { return "tour:" + id }
func EventScope(id string) string { return "event:" + id }

// Publisher delivers events. Implementations must not block the caller on
// slow consumers; delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, ev GroupEvent)
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, GroupEvent) {}

// Fanout publishes to several publishers in order.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, ev GroupEvent) {
	for _, p := range f {
		p.Publish(ctx, ev)
	}
}
