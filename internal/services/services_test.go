package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourhub/internal/apperr"
	"tourhub/internal/coordination"
	"tourhub/internal/events"
	"tourhub/internal/metrics"
	"tourhub/internal/models"
	"tourhub/internal/services"
	"tourhub/internal/store"
	tu "tourhub/internal/testutil"
)

type recorder struct {
	mu     sync.Mutex
	events []events.GroupEvent
}

func (r *recorder) Publish(_ context.Context, ev events.GroupEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []events.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Kind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

type stubStrategy struct {
	res coordination.Result
	err error
}

func (s stubStrategy) Assign(context.Context, models.TravelGroup, []models.FlightCoordination, []models.LodgingBooking, []models.GroundTransportationCoordination) (coordination.Result, error) {
	return s.res, s.err
}

type env struct {
	store   *store.Store
	fx      *tu.Fixtures
	rec     *recorder
	metrics *metrics.Metrics
	travel  *services.TravelService
}

func setup(t *testing.T) *env {
	t.Helper()
	s := tu.SetupStore(t)
	rec := &recorder{}
	m := metrics.New()
	return &env{
		store:   s,
		fx:      tu.NewFixtures(t, s),
		rec:     rec,
		metrics: m,
		travel:  services.NewTravelService(s, rec, m, 100),
	}
}

func TestAutoCoordinateGroup_LinkStrategy(t *testing.T) {
	ctx := tu.TestContext(t)
	e := setup(t)
	g := e.fx.Group(ctx, "Crew", "tour-1")
	e.fx.Members(ctx, g.ID, "A", "B", "C")
	e.fx.Flight(ctx, "tour-1", 2, 0)
	e.fx.Flight(ctx, "tour-1", 1, 0)
	e.fx.Vehicle(ctx, "tour-1", 8, 0)
	e.fx.Lodging(ctx, "tour-1", nil, 4)

	c := services.NewCoordinator(e.store, coordination.LinkStrategy{}, e.rec, e.metrics)
	out, err := c.AutoCoordinateGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, out.Result.BookedFlights, 2)
	assert.Empty(t, out.Result.Errors)
	assert.Equal(t, models.CoordinationComplete, out.Group.CoordinationStatus)

	flights, err := e.store.FetchFlights(ctx, store.SegmentFilter{GroupID: g.ID})
	require.NoError(t, err)
	seats := 0
	for _, f := range flights {
		seats += f.BookedSeats
	}
	assert.Equal(t, 3, seats)

	assert.Contains(t, e.rec.kinds(), events.CoordinationApplied)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.AutoCoordinate.WithLabelValues("complete")))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.metrics.SegmentsLinked.WithLabelValues("flight")))

	again, err := c.AutoCoordinateGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, again.Result.Empty(), "a fully served group books nothing more")
}

func TestAutoCoordinateGroup_AllOrNothing(t *testing.T) {
	ctx := tu.TestContext(t)
	e := setup(t)
	g := e.fx.Group(ctx, "Crew", "tour-1")
	e.fx.Members(ctx, g.ID, "A")
	ok := e.fx.Flight(ctx, "tour-1", 5, 0)
	v := e.fx.Vehicle(ctx, "tour-1", 4, 0)

	strategy := stubStrategy{res: coordination.Result{
		BookedFlights:  []coordination.FlightBooking{{FlightID: ok.ID, Seats: 1}},
		BookedVehicles: []coordination.VehicleBooking{{VehicleID: v.ID, Passengers: 1}},
		BookedRooms:    []string{"no-such-room"},
	}}
	c := services.NewCoordinator(e.store, strategy, e.rec, e.metrics)
	_, err := c.AutoCoordinateGroup(ctx, g.ID)
	assert.True(t, apperr.Is(err, apperr.CodeConflict))

	flights, err := e.store.FetchFlights(ctx, store.SegmentFilter{GroupID: g.ID})
	require.NoError(t, err)
	assert.Empty(t, flights)
	vehicles, err := e.store.FetchTransportation(ctx, store.SegmentFilter{GroupID: g.ID})
	require.NoError(t, err)
	assert.Empty(t, vehicles)

	got, err := e.store.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CoordinationPending, got.CoordinationStatus)
	assert.NotContains(t, e.rec.kinds(), events.CoordinationApplied)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.AutoCoordinate.WithLabelValues("conflict")))
}

func TestAutoCoordinateGroup_StrategyFailureWritesNothing(t *testing.T) {
	ctx := tu.TestContext(t)
	e := setup(t)
	g := e.fx.Group(ctx, "Crew", "tour-1")
	e.fx.Flight(ctx, "tour-1", 5, 0)

	c := services.NewCoordinator(e.store, stubStrategy{err: apperr.Network("coordination service unreachable", errors.New("dial"))}, e.rec, e.metrics)
	_, err := c.AutoCoordinateGroup(ctx, g.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNetwork))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.AutoCoordinate.WithLabelValues("strategy_error")))

	flights, err := e.store.FetchFlights(ctx, store.SegmentFilter{Unassigned: true})
	require.NoError(t, err)
	assert.Len(t, flights, 1)
}

func TestAutoCoordinateGroup_Rejections(t *testing.T) {
	ctx := tu.TestContext(t)
	e := setup(t)
	c := services.NewCoordinator(e.store, coordination.LinkStrategy{}, e.rec, e.metrics)

	_, err := c.AutoCoordinateGroup(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	g := e.fx.Group(ctx, "Crew", "tour-1")
	_, err = c.AutoCoordinateGroup(ctx, g.ID)
	assert.True(t, apperr.Is(err, apperr.CodeValidation), "a group without members cannot be coordinated")

	e.fx.Members(ctx, g.ID, "A")
	_, err = e.store.UpdateTravelGroup(ctx, g.ID, store.GroupPatch{Status: ptr(models.StatusCancelled)})
	require.NoError(t, err)
	_, err = c.AutoCoordinateGroup(ctx, g.ID)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func ptr[T any](v T) *T { return &v }

func TestImportMembers(t *testing.T) {
	ctx := tu.TestContext(t)
	e := setup(t)
	g := e.fx.Group(ctx, "Crew", "tour-1")

	res, err := e.travel.ImportMembers(ctx, g.ID, "name,email\nAna, ana@example.com\n, nobody@example.com\nBen\n\n")
	require.NoError(t, err)
	assert.Len(t, res.Members, 2)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 3, res.Skipped[0].Line)

	got, err := e.store.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalMembers)
	assert.Equal(t, 2.0, testutil.ToFloat64(e.metrics.MembersImported))
	assert.Equal(t, []events.Kind{events.MembersAdded}, e.rec.kinds())
}

func TestImportMembers_NothingValid(t *testing.T) {
	ctx := tu.TestContext(t)
	e := setup(t)
	g := e.fx.Group(ctx, "Crew", "tour-1")

	_, err := e.travel.ImportMembers(ctx, g.ID, "\n\n  \n")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
	assert.Empty(t, e.rec.kinds())
}

func TestGroupLifecycleEvents(t *testing.T) {
	ctx := tu.TestContext(t)
	e := setup(t)

	g := models.TravelGroup{Name: "Main Stage Crew", GroupType: models.GroupCrew, PriorityLevel: 1, TourID: "tour-1"}
	require.NoError(t, e.travel.CreateGroup(ctx, &g))
	_, err := e.travel.UpdateGroup(ctx, g.ID, store.GroupPatch{Status: ptr(models.StatusConfirmed)})
	require.NoError(t, err)
	members, err := e.travel.AddMembers(ctx, g.ID, []models.MemberInput{{Name: "Ana"}, {Name: "Ben"}})
	require.NoError(t, err)
	_, err = e.travel.UpdateMemberStatus(ctx, members[0].ID, models.MemberConfirmed)
	require.NoError(t, err)
	require.NoError(t, e.travel.DeleteMember(ctx, members[1].ID))
	require.NoError(t, e.travel.DeleteGroup(ctx, g.ID))

	assert.Equal(t, []events.Kind{
		events.GroupCreated,
		events.GroupUpdated,
		events.MembersAdded,
		events.MemberUpdated,
		events.MemberRemoved,
		events.GroupDeleted,
	}, e.rec.kinds())
	for _, ev := range e.rec.events {
		assert.Equal(t, "tour-1", ev.TourID)
		assert.False(t, ev.At.IsZero())
	}

	err = e.travel.DeleteGroup(ctx, g.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestSegmentEvents(t *testing.T) {
	ctx := tu.TestContext(t)
	e := setup(t)
	g := e.fx.Group(ctx, "Crew", "tour-1")

	f := models.FlightCoordination{GroupID: ptr(g.ID), TourID: "tour-1", TotalSeats: 4}
	require.NoError(t, e.travel.CreateFlight(ctx, &f))
	v := models.GroundTransportationCoordination{TourID: "tour-1", VehicleCapacity: 4}
	require.NoError(t, e.travel.CreateTransportation(ctx, &v))
	_, err := e.travel.UpdateTransportation(ctx, v.ID, func(x *models.GroundTransportationCoordination) error {
		x.GroupID = ptr(g.ID)
		return nil
	})
	require.NoError(t, err)
	b := models.LodgingBooking{TourID: "tour-1", HotelName: "Hotel Arena"}
	require.NoError(t, e.travel.CreateLodgingBooking(ctx, &b))
	require.NoError(t, e.travel.DeleteFlight(ctx, f.ID))

	assert.Len(t, e.rec.kinds(), 5)
	for _, k := range e.rec.kinds() {
		assert.Equal(t, events.SegmentChanged, k)
	}
	for _, ev := range e.rec.events {
		assert.Contains(t, ev.Scopes(), events.TourScope("tour-1"))
	}
	removed := e.rec.events[len(e.rec.events)-1]
	assert.Equal(t, g.ID, removed.GroupID)
	assert.Equal(t, "tour-1", removed.TourID)

	sum, err := e.travel.Summary(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, coordination.Summary{FlightsBooked: 0, TransportArranged: 1, HotelRoomsBooked: 1}, sum.Summary)
	assert.Equal(t, models.CoordinationHotelsBooked, sum.Label)
	assert.Equal(t, "medium", sum.Badges.Priority.Label)
}

func TestLogisticsProgress(t *testing.T) {
	ctx := tu.TestContext(t)
	e := setup(t)

	l := models.TourLogistics{TourID: "tour-1", Transportation: "confirmed", Accommodation: "pending"}
	require.NoError(t, e.store.CreateLogistics(ctx, &l))

	p, err := e.travel.LogisticsProgress(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, p.Percent)

	_, err = e.travel.LogisticsProgress(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}
