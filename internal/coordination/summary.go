// Package coordination derives per-group coordination progress from the
// flight, ground-transport and lodging records, and defines the strategy
// used to auto-coordinate a group.
package coordination

import (
	"math"
	"strings"

	"tourhub/internal/models"
)

// Summary counts the segments associated with one group.
type Summary struct {
	FlightsBooked     int `json:"flights_booked"`
	TransportArranged int `json:"transport_arranged"`
	HotelRoomsBooked  int `json:"hotel_rooms_booked"`
}

// ComputeCoordinationSummary counts the flights and transfers assigned to the
// group and the lodging bookings that belong to it. Lodging with an explicit
// group id matches on that id only; lodging without one falls back to the
// group's event or tour.
func ComputeCoordinationSummary(
	group models.TravelGroup,
	flights []models.FlightCoordination,
	transportation []models.GroundTransportationCoordination,
	lodging []models.LodgingBooking,
) Summary {
	var s Summary
	for _, f := range flights {
		if refersTo(f.GroupID, group.ID) {
			s.FlightsBooked++
		}
	}
	for _, v := range transportation {
		if refersTo(v.GroupID, group.ID) {
			s.TransportArranged++
		}
	}
	for _, b := range lodging {
		if LodgingMatchesGroup(b, group) {
			s.HotelRoomsBooked++
		}
	}
	return s
}

// LodgingMatchesGroup applies the lodging-to-group matching rule.
func LodgingMatchesGroup(b models.LodgingBooking, group models.TravelGroup) bool {
	if b.GroupID != nil {
		return *b.GroupID == group.ID
	}
	if group.EventID != "" && b.EventID == group.EventID {
		return true
	}
	return group.TourID != "" && b.TourID == group.TourID
}

func refersTo(ref *string, id string) bool {
	return ref != nil && id != "" && *ref == id
}

// Flags turns a summary into the three independent coordination flags.
func Flags(s Summary) models.CoordinationFlags {
	return models.CoordinationFlags{
		FlightsDone:   s.FlightsBooked > 0,
		HotelsDone:    s.HotelRoomsBooked > 0,
		TransportDone: s.TransportArranged > 0,
	}
}

// Checklist is the four-slot logistics checklist scored by ComputeGroupProgressPercent.
type Checklist struct {
	Transportation string
	Accommodation  string
	Equipment      string
	Crew           int
}

// ChecklistOf extracts the checklist from a logistics record.
func ChecklistOf(l models.TourLogistics) Checklist {
	return Checklist{
		Transportation: l.Transportation,
		Accommodation:  l.Accommodation,
		Equipment:      l.Equipment,
		Crew:           l.Crew,
	}
}

const checklistSlots = 4

// ComputeGroupProgressPercent scores the checklist: each slot is worth 25%.
// A text slot counts when it is non-empty and not "pending"; crew counts
// when positive.
func ComputeGroupProgressPercent(c Checklist) int {
	done := 0
	for _, v := range []string{c.Transportation, c.Accommodation, c.Equipment} {
		if slotSet(v) {
			done++
		}
	}
	if c.Crew > 0 {
		done++
	}
	return int(math.Round(float64(done) / checklistSlots * 100))
}

func slotSet(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, "pending")
}
