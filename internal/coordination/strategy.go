package coordination

import (
	"context"
	"fmt"

	"tourhub/internal/apperr"
	"tourhub/internal/models"
)

// FlightBooking reserves seats for the group on one flight.
type FlightBooking struct {
	FlightID string `json:"flight_id"`
	Seats    int    `json:"seats"`
}

// VehicleBooking reserves spaces for the group on one transfer.
type VehicleBooking struct {
	VehicleID  string `json:"vehicle_id"`
	Passengers int    `json:"passengers"`
}

// Result is what a strategy decided to book. Errors lists shortfalls that did
// not prevent the rest of the result from being applied.
type Result struct {
	BookedFlights  []FlightBooking  `json:"booked_flights"`
	BookedRooms    []string         `json:"booked_rooms"`
	BookedVehicles []VehicleBooking `json:"booked_vehicles"`
	Errors         []string         `json:"errors"`
}

// Empty reports whether the result books nothing.
func (r Result) Empty() bool {
	return len(r.BookedFlights) == 0 && len(r.BookedRooms) == 0 && len(r.BookedVehicles) == 0
}

// CoordinationStrategy decides which available segments a group should take.
// Implementations must not write anything; the caller applies the result.
type CoordinationStrategy interface {
	Assign(
		ctx context.Context,
		group models.TravelGroup,
		flights []models.FlightCoordination,
		rooms []models.LodgingBooking,
		vehicles []models.GroundTransportationCoordination,
	) (Result, error)
}

// InScope reports whether a segment scoped by eventID/tourID belongs to the
// same event or tour as the group.
func InScope(group models.TravelGroup, eventID, tourID string) bool {
	if group.EventID != "" && eventID == group.EventID {
		return true
	}
	return group.TourID != "" && tourID == group.TourID
}

// LinkStrategy is a first-fit linker: it walks the available segments in the
// order given and claims unassigned, non-cancelled ones in the group's scope
// until every traveller has a seat, a vehicle space and a bed.
type LinkStrategy struct{}

func (LinkStrategy) Assign(
	ctx context.Context,
	group models.TravelGroup,
	flights []models.FlightCoordination,
	rooms []models.LodgingBooking,
	vehicles []models.GroundTransportationCoordination,
) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, apperr.Timeout("auto-coordinate cancelled", err)
	}
	if group.TotalMembers == 0 {
		return Result{}, apperr.Validation("group %q has no members to coordinate", group.Name)
	}
	if group.EventID == "" && group.TourID == "" {
		return Result{}, apperr.Validation("group %q is not attached to an event or tour", group.Name)
	}

	res := Result{BookedFlights: []FlightBooking{}, BookedRooms: []string{}, BookedVehicles: []VehicleBooking{}, Errors: []string{}}
	travellers := group.TotalMembers

	need := travellers
	for _, f := range flights {
		if refersTo(f.GroupID, group.ID) {
			need -= f.BookedSeats
		}
	}
	for _, f := range flights {
		if need <= 0 {
			break
		}
		if f.GroupID != nil || f.Status == models.SegmentCancelled || !InScope(group, f.EventID, f.TourID) {
			continue
		}
		if seats := min(f.AvailableSeats(), need); seats > 0 {
			res.BookedFlights = append(res.BookedFlights, FlightBooking{FlightID: f.ID, Seats: seats})
			need -= seats
		}
	}
	if need > 0 {
		res.Errors = append(res.Errors, fmt.Sprintf("%d travellers still need flight seats", need))
	}

	need = travellers
	for _, v := range vehicles {
		if refersTo(v.GroupID, group.ID) {
			need -= v.AssignedPassengers
		}
	}
	for _, v := range vehicles {
		if need <= 0 {
			break
		}
		if v.GroupID != nil || v.Status == models.SegmentCancelled || !InScope(group, v.EventID, v.TourID) {
			continue
		}
		if spaces := min(v.AvailableSpaces(), need); spaces > 0 {
			res.BookedVehicles = append(res.BookedVehicles, VehicleBooking{VehicleID: v.ID, Passengers: spaces})
			need -= spaces
		}
	}
	if need > 0 {
		res.Errors = append(res.Errors, fmt.Sprintf("%d travellers still need ground transport", need))
	}

	need = travellers
	for _, b := range rooms {
		if refersTo(b.GroupID, group.ID) {
			need -= b.Guests
		}
	}
	for _, b := range rooms {
		if need <= 0 {
			break
		}
		if b.GroupID != nil || b.Status == models.SegmentCancelled || b.Guests <= 0 || !InScope(group, b.EventID, b.TourID) {
			continue
		}
		res.BookedRooms = append(res.BookedRooms, b.ID)
		need -= b.Guests
	}
	if need > 0 {
		res.Errors = append(res.Errors, fmt.Sprintf("%d travellers still need a bed", need))
	}

	return res, nil
}
