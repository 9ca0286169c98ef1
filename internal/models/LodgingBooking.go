package models

import "tourhub/internal/apperr"

// LodgingBooking is a hotel booking scoped to an event or tour. GroupID is
// optional; when it is unset the booking is matched to groups through the
// shared event or tour.
type LodgingBooking struct {
	Base
	GroupID      *string       `json:"group_id" gorm:"size:36;index"`
	EventID      string        `json:"event_id" gorm:"size:64;index"`
	TourID       string        `json:"tour_id" gorm:"size:64;index"`
	HotelName    string        `json:"hotel_name" gorm:"not null"`
	Address      string        `json:"address"`
	CheckInDate  string        `json:"check_in_date" gorm:"size:10"`
	CheckOutDate string        `json:"check_out_date" gorm:"size:10"`
	RoomsBooked  int           `json:"rooms_booked"`
	Guests       int           `json:"guests"`
	Status       SegmentStatus `json:"status" gorm:"size:20;not null"`
}

func (b *LodgingBooking) Validate() error {
	b.GroupID = normalizeGroupRef(b.GroupID)
	if b.HotelName == "" {
		return apperr.Validation("hotel_name is required")
	}
	if b.RoomsBooked < 0 || b.Guests < 0 {
		return apperr.Validation("rooms_booked and guests must not be negative")
	}
	if err := normalizeSegmentStatus(&b.Status); err != nil {
		return err
	}
	return validDateRange("check_in_date", b.CheckInDate, "check_out_date", b.CheckOutDate)
}

func (b *LodgingBooking) GroupRef() *string       { return b.GroupID }
func (b *LodgingBooking) Scope() (string, string) { return b.EventID, b.TourID }
