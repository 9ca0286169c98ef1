package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"tourhub/internal/apperr"
	"tourhub/internal/coordination"
	"tourhub/internal/events"
	"tourhub/internal/metrics"
	"tourhub/internal/models"
	"tourhub/internal/store"
)

// Coordinator runs a CoordinationStrategy against a group and applies what
// it decides in a single transaction.
type Coordinator struct {
	store    *store.Store
	strategy coordination.CoordinationStrategy
	pub      events.Publisher
	metrics  *metrics.Metrics
}

func NewCoordinator(s *store.Store, strategy coordination.CoordinationStrategy, pub events.Publisher, m *metrics.Metrics) *Coordinator {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Coordinator{store: s, strategy: strategy, pub: pub, metrics: m}
}

// Outcome is the group after auto-coordination and what was booked.
type Outcome struct {
	Group  *models.TravelGroup `json:"group"`
	Result coordination.Result `json:"result"`
}

// AutoCoordinateGroup books flights, transfers and lodging for a group.
// Either every link the strategy chose is written or none is.
func (c *Coordinator) AutoCoordinateGroup(ctx context.Context, groupID string) (*Outcome, error) {
	log := logrus.WithField("group_id", groupID)

	g, err := c.store.GetGroup(ctx, groupID)
	if err != nil {
		c.metrics.AutoCoordinate.WithLabelValues("failed").Inc()
		return nil, err
	}
	if g.Status.Terminal() {
		c.metrics.AutoCoordinate.WithLabelValues("rejected").Inc()
		return nil, apperr.Validation("group %q is %s and cannot be coordinated", g.Name, g.Status)
	}
	cand, err := c.store.CoordinationCandidates(ctx, *g)
	if err != nil {
		c.metrics.AutoCoordinate.WithLabelValues("failed").Inc()
		return nil, err
	}

	res, err := c.strategy.Assign(ctx, *g, cand.Flights, cand.Rooms, cand.Vehicles)
	if err != nil {
		c.metrics.AutoCoordinate.WithLabelValues("strategy_error").Inc()
		log.WithError(err).Warn("Coordination strategy failed; nothing was written.")
		return nil, err
	}

	if res.Empty() {
		c.metrics.AutoCoordinate.WithLabelValues("noop").Inc()
		log.WithField("shortfalls", res.Errors).Info("Auto-coordinate found nothing to book.")
		return &Outcome{Group: g, Result: res}, nil
	}

	updated, err := c.store.ApplyCoordination(ctx, g.ID, res)
	if err != nil {
		c.metrics.AutoCoordinate.WithLabelValues(applyOutcome(err)).Inc()
		log.WithError(err).Warn("Applying coordination result failed; transaction rolled back.")
		return nil, err
	}

	c.metrics.SegmentsLinked.WithLabelValues("flight").Add(float64(len(res.BookedFlights)))
	c.metrics.SegmentsLinked.WithLabelValues("vehicle").Add(float64(len(res.BookedVehicles)))
	c.metrics.SegmentsLinked.WithLabelValues("lodging").Add(float64(len(res.BookedRooms)))
	outcome := "complete"
	if !updated.Complete() {
		outcome = "partial"
	}
	c.metrics.AutoCoordinate.WithLabelValues(outcome).Inc()

	log.WithFields(logrus.Fields{
		"flights":    len(res.BookedFlights),
		"vehicles":   len(res.BookedVehicles),
		"rooms":      len(res.BookedRooms),
		"status":     updated.CoordinationStatus,
		"shortfalls": len(res.Errors),
	}).Info("Auto-coordinate applied.")
	announce(ctx, c.pub, c.metrics, events.GroupEvent{
		Kind: events.CoordinationApplied, GroupID: updated.ID, EventID: updated.EventID, TourID: updated.TourID,
		Payload: Outcome{Group: updated, Result: res},
	})
	return &Outcome{Group: updated, Result: res}, nil
}

// applyOutcome names a failed apply by its error code, e.g. "conflict" or
// "timeout".
func applyOutcome(err error) string {
	return strings.ToLower(string(apperr.CodeOf(err)))
}
