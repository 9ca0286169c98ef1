package models

import (
	"strings"

	"tourhub/internal/apperr"
)

// MemberStatus is an individual traveller's confirmation state.
type MemberStatus string

const (
	MemberPending   MemberStatus = "pending"
	MemberConfirmed MemberStatus = "confirmed"
	MemberDeclined  MemberStatus = "declined"
	MemberCancelled MemberStatus = "cancelled"
)

func (s MemberStatus) Valid() bool {
	switch s {
	case MemberPending, MemberConfirmed, MemberDeclined, MemberCancelled:
		return true
	}
	return false
}

// TravelGroupMember is one traveller belonging to exactly one TravelGroup.
type TravelGroupMember struct {
	Base
	GroupID            string       `json:"group_id" gorm:"size:36;not null;index"`
	MemberName         string       `json:"member_name" gorm:"not null"`
	MemberRole         string       `json:"member_role"`
	Email              string       `json:"email"`
	Phone              string       `json:"phone"`
	SeatPreference     string       `json:"seat_preference"`
	MealPreference     string       `json:"meal_preference"`
	SpecialAssistance  bool         `json:"special_assistance"`
	WheelchairRequired bool         `json:"wheelchair_required"`
	Status             MemberStatus `json:"status" gorm:"size:20;not null;index"`
}

// MemberInput is the payload for creating one member, either from JSON or
// from a bulk-import line.
type MemberInput struct {
	Name               string `json:"member_name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Role               string `json:"member_role"`
	SeatPreference     string `json:"seat_preference"`
	MealPreference     string `json:"meal_preference"`
	SpecialAssistance  bool   `json:"special_assistance"`
	WheelchairRequired bool   `json:"wheelchair_required"`
}

// ToMember builds a pending member of the given group.
func (in MemberInput) ToMember(groupID string) (TravelGroupMember, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return TravelGroupMember{}, apperr.Validation("member_name is required")
	}
	return TravelGroupMember{
		GroupID:            groupID,
		MemberName:         name,
		MemberRole:         strings.TrimSpace(in.Role),
		Email:              strings.TrimSpace(in.Email),
		Phone:              strings.TrimSpace(in.Phone),
		SeatPreference:     in.SeatPreference,
		MealPreference:     in.MealPreference,
		SpecialAssistance:  in.SpecialAssistance,
		WheelchairRequired: in.WheelchairRequired,
		Status:             MemberPending,
	}, nil
}
