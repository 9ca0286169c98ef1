package models

import (
	"strings"

	"gorm.io/gorm"

	"tourhub/internal/apperr"
)

// GroupType classifies the people travelling together.
type GroupType string

const (
	GroupCrew       GroupType = "crew"
	GroupArtists    GroupType = "artists"
	GroupStaff      GroupType = "staff"
	GroupVendors    GroupType = "vendors"
	GroupGuests     GroupType = "guests"
	GroupVIP        GroupType = "vip"
	GroupMedia      GroupType = "media"
	GroupSecurity   GroupType = "security"
	GroupCatering   GroupType = "catering"
	GroupTechnical  GroupType = "technical"
	GroupManagement GroupType = "management"
)

func (t GroupType) Valid() bool {
	switch t {
	case GroupCrew, GroupArtists, GroupStaff, GroupVendors, GroupGuests, GroupVIP,
		GroupMedia, GroupSecurity, GroupCatering, GroupTechnical, GroupManagement:
		return true
	}
	return false
}

// GroupStatus is the physical travel state of a group.
type GroupStatus string

const (
	StatusPlanning  GroupStatus = "planning"
	StatusConfirmed GroupStatus = "confirmed"
	StatusInTransit GroupStatus = "in_transit"
	StatusArrived   GroupStatus = "arrived"
	StatusDeparted  GroupStatus = "departed"
	StatusCancelled GroupStatus = "cancelled"
)

// travelSequence is the forward path a group moves along.
var travelSequence = []GroupStatus{StatusPlanning, StatusConfirmed, StatusInTransit, StatusArrived, StatusDeparted}

func (s GroupStatus) Valid() bool {
	return s == StatusCancelled || s.position() >= 0
}

// Terminal reports whether no further transition is possible.
func (s GroupStatus) Terminal() bool {
	return s == StatusDeparted || s == StatusCancelled
}

func (s GroupStatus) position() int {
	for i, v := range travelSequence {
		if v == s {
			return i
		}
	}
	return -1
}

// CanTransitionTo allows one step forward along the travel sequence, or
// cancellation from any non-terminal state.
func (s GroupStatus) CanTransitionTo(next GroupStatus) bool {
	if s.Terminal() || !next.Valid() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return next.position() == s.position()+1
}

// CoordinationStatus is the display label derived from CoordinationFlags.
type CoordinationStatus string

const (
	CoordinationPending           CoordinationStatus = "pending"
	CoordinationFlightsBooked     CoordinationStatus = "flights_booked"
	CoordinationHotelsBooked      CoordinationStatus = "hotels_booked"
	CoordinationTransportArranged CoordinationStatus = "transport_arranged"
	CoordinationComplete          CoordinationStatus = "complete"
)

// CoordinationFlags records which parts of the logistics stack are arranged.
// The three parts are independent; a group can have hotels before flights.
type CoordinationFlags struct {
	FlightsDone   bool `json:"flights_done"`
	HotelsDone    bool `json:"hotels_done"`
	TransportDone bool `json:"transport_done"`
}

func (f CoordinationFlags) Complete() bool {
	return f.FlightsDone && f.HotelsDone && f.TransportDone
}

// Label collapses the flags into a single display label. When more than one
// but not all parts are done, the first in flights, hotels, transport order wins.
func (f CoordinationFlags) Label() CoordinationStatus {
	switch {
	case f.Complete():
		return CoordinationComplete
	case f.FlightsDone:
		return CoordinationFlightsBooked
	case f.HotelsDone:
		return CoordinationHotelsBooked
	case f.TransportDone:
		return CoordinationTransportArranged
	default:
		return CoordinationPending
	}
}

// TravelGroup is a named cohort of travellers sharing itinerary constraints.
type TravelGroup struct {
	Base
	Name              string    `json:"name" gorm:"size:200;not null"`
	Description       string    `json:"description"`
	GroupType         GroupType `json:"group_type" gorm:"size:20;not null;index"`
	Department        string    `json:"department"`
	PriorityLevel     int       `json:"priority_level" gorm:"not null"`
	ArrivalDate       string    `json:"arrival_date" gorm:"size:10"`
	DepartureDate     string    `json:"departure_date" gorm:"size:10"`
	ArrivalLocation   string    `json:"arrival_location"`
	DepartureLocation string    `json:"departure_location"`
	LeaderID          string    `json:"leader_id" gorm:"size:64"`
	BackupContactID   string    `json:"backup_contact_id" gorm:"size:64"`

	SpecialRequirements []string `json:"special_requirements" gorm:"serializer:json"`
	DietaryRestrictions []string `json:"dietary_restrictions" gorm:"serializer:json"`
	AccessibilityNeeds  []string `json:"accessibility_needs" gorm:"serializer:json"`

	EventID string `json:"event_id" gorm:"size:64;index"`
	TourID  string `json:"tour_id" gorm:"size:64;index"`

	// Derived from membership rows; recomputed on every membership write.
	TotalMembers     int `json:"total_members" gorm:"not null;default:0"`
	ConfirmedMembers int `json:"confirmed_members" gorm:"not null;default:0"`

	Status GroupStatus `json:"status" gorm:"size:20;not null;index"`
	CoordinationFlags  `gorm:"embedded"`
	CoordinationStatus CoordinationStatus `json:"coordination_status" gorm:"-"`

	Members []TravelGroupMember `json:"members,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

// DefaultPriority is applied when a group is created without a priority.
const DefaultPriority = 3

// AfterFind fills the derived coordination label.
func (g *TravelGroup) AfterFind(tx *gorm.DB) error {
	g.CoordinationStatus = g.CoordinationFlags.Label()
	return nil
}

// AfterSave keeps the derived label in step with the stored flags.
func (g *TravelGroup) AfterSave(tx *gorm.DB) error {
	g.CoordinationStatus = g.CoordinationFlags.Label()
	return nil
}

// Normalize trims text fields, cleans tag lists and applies creation defaults.
func (g *TravelGroup) Normalize() {
	g.Name = strings.TrimSpace(g.Name)
	g.EventID = strings.TrimSpace(g.EventID)
	g.TourID = strings.TrimSpace(g.TourID)
	g.SpecialRequirements = NormalizeTags(g.SpecialRequirements)
	g.DietaryRestrictions = NormalizeTags(g.DietaryRestrictions)
	g.AccessibilityNeeds = NormalizeTags(g.AccessibilityNeeds)
	if g.PriorityLevel == 0 {
		g.PriorityLevel = DefaultPriority
	}
	if g.Status == "" {
		g.Status = StatusPlanning
	}
}

// Validate checks the group against the data-model rules.
func (g *TravelGroup) Validate() error {
	if g.Name == "" {
		return apperr.Validation("name is required")
	}
	if !g.GroupType.Valid() {
		return apperr.Validation("invalid group_type %q", g.GroupType)
	}
	if g.PriorityLevel < 1 || g.PriorityLevel > 5 {
		return apperr.Validation("priority_level must be between 1 and 5")
	}
	if !g.Status.Valid() {
		return apperr.Validation("invalid status %q", g.Status)
	}
	if g.ConfirmedMembers > g.TotalMembers {
		return apperr.Validation("confirmed_members exceeds total_members")
	}
	if err := validScope(g.EventID, g.TourID); err != nil {
		return err
	}
	return validDateRange("arrival_date", g.ArrivalDate, "departure_date", g.DepartureDate)
}
