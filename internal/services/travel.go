// Package services sits between the HTTP layer and the store. It owns the
// side effects of writes (change events, metrics) so the store stays a pure
// data layer.
package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"tourhub/internal/coordination"
	"tourhub/internal/events"
	"tourhub/internal/members"
	"tourhub/internal/metrics"
	"tourhub/internal/models"
	"tourhub/internal/store"
)

// TravelService performs travel-group writes and announces them.
type TravelService struct {
	store         *store.Store
	pub           events.Publisher
	metrics       *metrics.Metrics
	importMaxRows int
}

// NewTravelService wires the service. A nil publisher discards events.
func NewTravelService(s *store.Store, pub events.Publisher, m *metrics.Metrics, importMaxRows int) *TravelService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &TravelService{store: s, pub: pub, metrics: m, importMaxRows: importMaxRows}
}

// announce publishes after the write has committed. The request context may
// already be done by then, so cancellation is dropped.
func announce(ctx context.Context, pub events.Publisher, m *metrics.Metrics, ev events.GroupEvent) {
	ev.At = time.Now().UTC()
	pub.Publish(context.WithoutCancel(ctx), ev)
	m.EventsPublished.WithLabelValues(string(ev.Kind)).Inc()
}

func groupEvent(kind events.Kind, g *models.TravelGroup) events.GroupEvent {
	return events.GroupEvent{Kind: kind, GroupID: g.ID, EventID: g.EventID, TourID: g.TourID, Payload: g}
}

func (s *TravelService) CreateGroup(ctx context.Context, g *models.TravelGroup) error {
	if err := s.store.CreateTravelGroup(ctx, g); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"group_id": g.ID, "name": g.Name}).Info("Travel group created.")
	announce(ctx, s.pub, s.metrics, groupEvent(events.GroupCreated, g))
	return nil
}

func (s *TravelService) UpdateGroup(ctx context.Context, id string, patch store.GroupPatch) (*models.TravelGroup, error) {
	g, err := s.store.UpdateTravelGroup(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	announce(ctx, s.pub, s.metrics, groupEvent(events.GroupUpdated, g))
	return g, nil
}

func (s *TravelService) DeleteGroup(ctx context.Context, id string) error {
	g, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTravelGroup(ctx, id); err != nil {
		return err
	}
	logrus.WithField("group_id", id).Info("Travel group deleted.")
	announce(ctx, s.pub, s.metrics, events.GroupEvent{Kind: events.GroupDeleted, GroupID: id, EventID: g.EventID, TourID: g.TourID})
	return nil
}

// AddMembers creates members from structured input.
func (s *TravelService) AddMembers(ctx context.Context, groupID string, in []models.MemberInput) ([]models.TravelGroupMember, error) {
	created, err := s.store.BulkCreateGroupMembers(ctx, groupID, in)
	if err != nil {
		return nil, err
	}
	s.metrics.MembersImported.Add(float64(len(created)))
	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return created, err
	}
	logrus.WithFields(logrus.Fields{"group_id": groupID, "added": len(created)}).Info("Members added to travel group.")
	announce(ctx, s.pub, s.metrics, events.GroupEvent{
		Kind: events.MembersAdded, GroupID: groupID, EventID: g.EventID, TourID: g.TourID,
		Payload: map[string]int{"added": len(created), "total_members": g.TotalMembers},
	})
	return created, nil
}

// ImportResult reports a text import: the members created and the lines
// that were skipped.
type ImportResult struct {
	Members []models.TravelGroupMember `json:"members"`
	Skipped []members.RowError         `json:"skipped"`
}

// ImportMembers parses a member text blob and creates every valid line.
func (s *TravelService) ImportMembers(ctx context.Context, groupID, text string) (*ImportResult, error) {
	parsed, err := members.ParseMemberLines(text, members.Options{MaxRows: s.importMaxRows})
	if err != nil {
		return nil, err
	}
	if parsed.HasErrors() {
		logrus.WithFields(logrus.Fields{"group_id": groupID, "skipped": len(parsed.Errors)}).Warn("Member import skipped malformed lines.")
	}
	created, err := s.AddMembers(ctx, groupID, parsed.Members)
	if err != nil {
		return nil, err
	}
	return &ImportResult{Members: created, Skipped: parsed.Errors}, nil
}

func (s *TravelService) UpdateMemberStatus(ctx context.Context, memberID string, status models.MemberStatus) (*models.TravelGroupMember, error) {
	m, err := s.store.UpdateMemberStatus(ctx, memberID, status)
	if err != nil {
		return nil, err
	}
	s.announceMember(ctx, events.MemberUpdated, m)
	return m, nil
}

func (s *TravelService) DeleteMember(ctx context.Context, memberID string) error {
	m, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteGroupMember(ctx, memberID); err != nil {
		return err
	}
	s.announceMember(ctx, events.MemberRemoved, m)
	return nil
}

func (s *TravelService) announceMember(ctx context.Context, kind events.Kind, m *models.TravelGroupMember) {
	g, err := s.store.GetGroup(ctx, m.GroupID)
	if err != nil {
		logrus.WithError(err).WithField("group_id", m.GroupID).Warn("Could not load group for member event.")
		return
	}
	announce(ctx, s.pub, s.metrics, events.GroupEvent{Kind: kind, GroupID: g.ID, EventID: g.EventID, TourID: g.TourID, Payload: m})
}

// segmentChanged announces a flight, transfer or lodging write.
func (s *TravelService) segmentChanged(ctx context.Context, kind string, groupID *string, eventID, tourID string, payload any) {
	ev := events.GroupEvent{Kind: events.SegmentChanged, EventID: eventID, TourID: tourID, Payload: map[string]any{"segment": kind, "record": payload}}
	if groupID != nil {
		ev.GroupID = *groupID
	}
	announce(ctx, s.pub, s.metrics, ev)
}

func (s *TravelService) CreateFlight(ctx context.Context, f *models.FlightCoordination) error {
	if err := s.store.CreateFlight(ctx, f); err != nil {
		return err
	}
	s.segmentChanged(ctx, "flight", f.GroupID, f.EventID, f.TourID, f)
	return nil
}

func (s *TravelService) UpdateFlight(ctx context.Context, id string, mutate func(*models.FlightCoordination) error) (*models.FlightCoordination, error) {
	f, err := s.store.UpdateFlight(ctx, id, mutate)
	if err != nil {
		return nil, err
	}
	s.segmentChanged(ctx, "flight", f.GroupID, f.EventID, f.TourID, f)
	return f, nil
}

func (s *TravelService) DeleteFlight(ctx context.Context, id string) error {
	f, err := s.store.DeleteFlight(ctx, id)
	if err != nil {
		return err
	}
	s.segmentChanged(ctx, "flight", f.GroupID, f.EventID, f.TourID, map[string]string{"id": id, "deleted": "true"})
	return nil
}

func (s *TravelService) CreateTransportation(ctx context.Context, v *models.GroundTransportationCoordination) error {
	if err := s.store.CreateTransportation(ctx, v); err != nil {
		return err
	}
	s.segmentChanged(ctx, "transport", v.GroupID, v.EventID, v.TourID, v)
	return nil
}

func (s *TravelService) UpdateTransportation(ctx context.Context, id string, mutate func(*models.GroundTransportationCoordination) error) (*models.GroundTransportationCoordination, error) {
	v, err := s.store.UpdateTransportation(ctx, id, mutate)
	if err != nil {
		return nil, err
	}
	s.segmentChanged(ctx, "transport", v.GroupID, v.EventID, v.TourID, v)
	return v, nil
}

func (s *TravelService) DeleteTransportation(ctx context.Context, id string) error {
	v, err := s.store.DeleteTransportation(ctx, id)
	if err != nil {
		return err
	}
	s.segmentChanged(ctx, "transport", v.GroupID, v.EventID, v.TourID, map[string]string{"id": id, "deleted": "true"})
	return nil
}

func (s *TravelService) CreateLodgingBooking(ctx context.Context, b *models.LodgingBooking) error {
	if err := s.store.CreateLodgingBooking(ctx, b); err != nil {
		return err
	}
	s.segmentChanged(ctx, "lodging", b.GroupID, b.EventID, b.TourID, b)
	return nil
}

func (s *TravelService) UpdateLodgingBooking(ctx context.Context, id string, mutate func(*models.LodgingBooking) error) (*models.LodgingBooking, error) {
	b, err := s.store.UpdateLodgingBooking(ctx, id, mutate)
	if err != nil {
		return nil, err
	}
	s.segmentChanged(ctx, "lodging", b.GroupID, b.EventID, b.TourID, b)
	return b, nil
}

func (s *TravelService) DeleteLodgingBooking(ctx context.Context, id string) error {
	b, err := s.store.DeleteLodgingBooking(ctx, id)
	if err != nil {
		return err
	}
	s.segmentChanged(ctx, "lodging", b.GroupID, b.EventID, b.TourID, map[string]string{"id": id, "deleted": "true"})
	return nil
}

// GroupSummary is the coordination view of one group.
type GroupSummary struct {
	Group   *models.TravelGroup       `json:"group"`
	Summary coordination.Summary      `json:"summary"`
	Flags   models.CoordinationFlags  `json:"flags"`
	Label   models.CoordinationStatus `json:"coordination_status"`
	Badges  coordination.Badges       `json:"badges"`
	Percent int                       `json:"confirmation_percent"`
}

// Summary builds the coordination view of a group from live data.
func (s *TravelService) Summary(ctx context.Context, id string) (*GroupSummary, error) {
	g, sum, err := s.store.GroupSummary(ctx, id)
	if err != nil {
		return nil, err
	}
	flags := coordination.Flags(sum)
	return &GroupSummary{
		Group:   g,
		Summary: sum,
		Flags:   flags,
		Label:   flags.Label(),
		Badges:  coordination.BadgesFor(*g),
		Percent: coordination.ConfirmationPercent(g.ConfirmedMembers, g.TotalMembers),
	}, nil
}

// LogisticsProgress is a checklist with its completion score.
type LogisticsProgress struct {
	Logistics *models.TourLogistics `json:"logistics"`
	Percent   int                   `json:"progress_percent"`
}

func (s *TravelService) LogisticsProgress(ctx context.Context, id string) (*LogisticsProgress, error) {
	l, err := s.store.GetLogistics(ctx, id)
	if err != nil {
		return nil, err
	}
	return &LogisticsProgress{
		Logistics: l,
		Percent:   coordination.ComputeGroupProgressPercent(coordination.ChecklistOf(*l)),
	}, nil
}
