package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourhub/internal/apperr"
)

func validGroup() *TravelGroup {
	g := &TravelGroup{Name: "Main Stage Crew", GroupType: GroupCrew, PriorityLevel: 1}
	g.Normalize()
	return g
}

func TestTravelGroup_NormalizeDefaults(t *testing.T) {
	g := &TravelGroup{Name: "  Horn Section ", GroupType: GroupArtists,
		DietaryRestrictions: []string{"vegan", " Vegan", "", "nut-free"}}
	g.Normalize()

	assert.Equal(t, "Horn Section", g.Name)
	assert.Equal(t, DefaultPriority, g.PriorityLevel)
	assert.Equal(t, StatusPlanning, g.Status)
	assert.Equal(t, []string{"nut-free", "vegan"}, g.DietaryRestrictions)
	assert.Equal(t, []string{}, g.SpecialRequirements)
}

func TestTravelGroup_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(g *TravelGroup)
		ok     bool
	}{
		{"valid", func(g *TravelGroup) {}, true},
		{"empty name", func(g *TravelGroup) { g.Name = "" }, false},
		{"bad type", func(g *TravelGroup) { g.GroupType = "roadies" }, false},
		{"priority too high", func(g *TravelGroup) { g.PriorityLevel = 6 }, false},
		{"both scopes", func(g *TravelGroup) { g.EventID = "e1"; g.TourID = "t1" }, false},
		{"tour only", func(g *TravelGroup) { g.TourID = "t1" }, true},
		{"departure before arrival", func(g *TravelGroup) {
			g.ArrivalDate = "2026-06-10"
			g.DepartureDate = "2026-06-01"
		}, false},
		{"bad date", func(g *TravelGroup) { g.ArrivalDate = "10/06/2026" }, false},
		{"confirmed over total", func(g *TravelGroup) { g.ConfirmedMembers = 1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGroup()
			tt.mutate(g)
			err := g.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperr.Is(err, apperr.CodeValidation), "got %v", err)
			}
		})
	}
}

func TestGroupStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to GroupStatus
		want     bool
	}{
		{StatusPlanning, StatusConfirmed, true},
		{StatusConfirmed, StatusInTransit, true},
		{StatusInTransit, StatusArrived, true},
		{StatusArrived, StatusDeparted, true},
		{StatusPlanning, StatusInTransit, false},
		{StatusArrived, StatusConfirmed, false},
		{StatusInTransit, StatusCancelled, true},
		{StatusDeparted, StatusCancelled, false},
		{StatusCancelled, StatusPlanning, false},
		{StatusPlanning, "boarding", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestCoordinationFlags_Label(t *testing.T) {
	assert.Equal(t, CoordinationPending, CoordinationFlags{}.Label())
	assert.Equal(t, CoordinationHotelsBooked, CoordinationFlags{HotelsDone: true}.Label())
	assert.Equal(t, CoordinationFlightsBooked, CoordinationFlags{FlightsDone: true, TransportDone: true}.Label())
	assert.Equal(t, CoordinationComplete, CoordinationFlags{FlightsDone: true, HotelsDone: true, TransportDone: true}.Label())
}

func TestMemberInput_ToMember(t *testing.T) {
	m, err := MemberInput{Name: " John Smith ", Email: "john@example.com", Role: "Sound Engineer"}.ToMember("g1")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", m.MemberName)
	assert.Equal(t, "g1", m.GroupID)
	assert.Equal(t, MemberPending, m.Status)

	_, err = MemberInput{Name: "  "}.ToMember("g1")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestFlight_Validate(t *testing.T) {
	empty := ""
	f := &FlightCoordination{GroupID: &empty, DepartureAirport: "lhr", TotalSeats: 10, BookedSeats: 4}
	require.NoError(t, f.Validate())
	assert.Nil(t, f.GroupID)
	assert.Equal(t, "LHR", f.DepartureAirport)
	assert.Equal(t, SegmentPlanned, f.Status)
	assert.Equal(t, 6, f.AvailableSeats())

	f.BookedSeats = 11
	assert.True(t, apperr.Is(f.Validate(), apperr.CodeValidation))
}

func TestTransport_RouteAndCapacity(t *testing.T) {
	v := &GroundTransportationCoordination{VehicleCapacity: 12, AssignedPassengers: 12}
	require.NoError(t, v.Validate())
	assert.Equal(t, 0, v.AvailableSpaces())

	require.NoError(t, v.SetRoute(`{"type":"LineString","coordinates":[[0,0],[1,1]]}`))
	assert.NotEmpty(t, v.Route)
	assert.InDelta(t, 157.2, v.RouteKm, 1)

	v.RouteGeoJSON = ""
	require.NoError(t, v.Validate())
	assert.Nil(t, v.Route)

	err := v.SetRoute(`{"type":"Point","coordinates":[0,0]}`)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestLodging_Validate(t *testing.T) {
	b := &LodgingBooking{HotelName: "Hotel Arena", CheckInDate: "2026-06-01", CheckOutDate: "2026-06-03"}
	require.NoError(t, b.Validate())

	b.HotelName = ""
	assert.Error(t, b.Validate())
}
