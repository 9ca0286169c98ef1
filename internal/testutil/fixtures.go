package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tourhub/internal/models"
	"tourhub/internal/store"
)

// Fixtures creates test records through the store so derived state stays
// consistent.
type Fixtures struct {
	t     *testing.T
	store *store.Store
}

func NewFixtures(t *testing.T, s *store.Store) *Fixtures {
	t.Helper()
	return &Fixtures{t: t, store: s}
}

// Group creates a crew group in the given tour.
func (f *Fixtures) Group(ctx context.Context, name, tourID string) models.TravelGroup {
	f.t.Helper()
	g := models.TravelGroup{Name: name, GroupType: models.GroupCrew, TourID: tourID}
	require.NoError(f.t, f.store.CreateTravelGroup(ctx, &g))
	return g
}

// EventGroup creates a crew group attached to an event.
func (f *Fixtures) EventGroup(ctx context.Context, name, eventID string) models.TravelGroup {
	f.t.Helper()
	g := models.TravelGroup{Name: name, GroupType: models.GroupCrew, EventID: eventID}
	require.NoError(f.t, f.store.CreateTravelGroup(ctx, &g))
	return g
}

// Members adds one pending member per name.
func (f *Fixtures) Members(ctx context.Context, groupID string, names ...string) []models.TravelGroupMember {
	f.t.Helper()
	in := make([]models.MemberInput, 0, len(names))
	for _, n := range names {
		in = append(in, models.MemberInput{Name: n})
	}
	out, err := f.store.BulkCreateGroupMembers(ctx, groupID, in)
	require.NoError(f.t, err)
	return out
}

// Flight creates an unassigned flight in the tour with the given capacity.
func (f *Fixtures) Flight(ctx context.Context, tourID string, total, booked int) models.FlightCoordination {
	f.t.Helper()
	fl := models.FlightCoordination{
		TourID: tourID, Airline: "Test Air", FlightNumber: "TA100",
		DepartureAirport: "LHR", ArrivalAirport: "BER",
		TotalSeats: total, BookedSeats: booked,
	}
	require.NoError(f.t, f.store.CreateFlight(ctx, &fl))
	return fl
}

// Vehicle creates an unassigned transfer in the tour.
func (f *Fixtures) Vehicle(ctx context.Context, tourID string, capacity, assigned int) models.GroundTransportationCoordination {
	f.t.Helper()
	v := models.GroundTransportationCoordination{
		TourID: tourID, Provider: "Coach Co", VehicleType: "bus",
		VehicleCapacity: capacity, AssignedPassengers: assigned,
	}
	require.NoError(f.t, f.store.CreateTransportation(ctx, &v))
	return v
}

// Lodging creates a lodging booking in the tour, optionally tied to a group.
func (f *Fixtures) Lodging(ctx context.Context, tourID string, groupID *string, guests int) models.LodgingBooking {
	f.t.Helper()
	b := models.LodgingBooking{
		TourID: tourID, GroupID: groupID, HotelName: "Hotel Arena",
		CheckInDate: "2026-06-01", CheckOutDate: "2026-06-03",
		RoomsBooked: (guests + 1) / 2, Guests: guests,
	}
	require.NoError(f.t, f.store.CreateLodgingBooking(ctx, &b))
	return b
}
