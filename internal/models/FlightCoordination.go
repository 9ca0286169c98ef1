package models

import (
	"strings"
	"time"

	"tourhub/internal/apperr"
)

// SegmentStatus is the booking state of a flight, transfer or lodging record.
type SegmentStatus string

const (
	SegmentPlanned   SegmentStatus = "planned"
	SegmentHeld      SegmentStatus = "held"
	SegmentBooked    SegmentStatus = "booked"
	SegmentConfirmed SegmentStatus = "confirmed"
	SegmentCancelled SegmentStatus = "cancelled"
)

func (s SegmentStatus) Valid() bool {
	switch s {
	case SegmentPlanned, SegmentHeld, SegmentBooked, SegmentConfirmed, SegmentCancelled:
		return true
	}
	return false
}

func normalizeSegmentStatus(s *SegmentStatus) error {
	if *s == "" {
		*s = SegmentPlanned
	}
	if !s.Valid() {
		return apperr.Validation("invalid status %q", *s)
	}
	return nil
}

// normalizeGroupRef turns an empty group reference into "unassigned".
func normalizeGroupRef(id *string) *string {
	if id == nil {
		return nil
	}
	v := strings.TrimSpace(*id)
	if v == "" {
		return nil
	}
	return &v
}

// FlightCoordination is a booked or planned flight, optionally assigned to a group.
type FlightCoordination struct {
	Base
	GroupID          *string       `json:"group_id" gorm:"size:36;index"`
	EventID          string        `json:"event_id" gorm:"size:64;index"`
	TourID           string        `json:"tour_id" gorm:"size:64;index"`
	Airline          string        `json:"airline"`
	FlightNumber     string        `json:"flight_number" gorm:"size:16"`
	DepartureAirport string        `json:"departure_airport" gorm:"size:8"`
	ArrivalAirport   string        `json:"arrival_airport" gorm:"size:8"`
	DepartureTime    *time.Time    `json:"departure_time"`
	ArrivalTime      *time.Time    `json:"arrival_time"`
	TotalSeats       int           `json:"total_seats"`
	BookedSeats      int           `json:"booked_seats"`
	Status           SegmentStatus `json:"status" gorm:"size:20;not null"`
}

// AvailableSeats is the unbooked capacity of the flight.
func (f *FlightCoordination) AvailableSeats() int {
	return f.TotalSeats - f.BookedSeats
}

func (f *FlightCoordination) Validate() error {
	f.GroupID = normalizeGroupRef(f.GroupID)
	f.DepartureAirport = strings.ToUpper(strings.TrimSpace(f.DepartureAirport))
	f.ArrivalAirport = strings.ToUpper(strings.TrimSpace(f.ArrivalAirport))
	if err := normalizeSegmentStatus(&f.Status); err != nil {
		return err
	}
	if f.DepartureTime != nil && f.ArrivalTime != nil && f.ArrivalTime.Before(*f.DepartureTime) {
		return apperr.Validation("arrival_time must not be before departure_time")
	}
	return validCapacity("booked_seats", f.BookedSeats, "total_seats", f.TotalSeats)
}

func (f *FlightCoordination) GroupRef() *string       { return f.GroupID }
func (f *FlightCoordination) Scope() (string, string) { return f.EventID, f.TourID }
