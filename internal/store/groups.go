package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tourhub/internal/apperr"
	"tourhub/internal/models"
)

const groupKind = "travel group"

// FetchGroups lists groups in the filter's scope, most critical first.
func (s *Store) FetchGroups(ctx context.Context, f Filter, p Page) ([]models.TravelGroup, error) {
	p = p.Normalized()
	groups := []models.TravelGroup{}
	q := f.apply(s.db.WithContext(ctx).Model(&models.TravelGroup{}), "travel_groups")
	err := q.Order("priority_level ASC, name ASC, id ASC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&groups).Error
	if err != nil {
		return nil, translate(err, groupKind, "")
	}
	return groups, nil
}

// GetGroup loads one group.
func (s *Store) GetGroup(ctx context.Context, id string) (*models.TravelGroup, error) {
	var g models.TravelGroup
	if err := s.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, translate(err, groupKind, id)
	}
	return &g, nil
}

// CreateTravelGroup inserts a new group in the planning state with zeroed
// counters and no coordination progress.
func (s *Store) CreateTravelGroup(ctx context.Context, g *models.TravelGroup) error {
	g.Status = models.StatusPlanning
	g.TotalMembers, g.ConfirmedMembers = 0, 0
	g.CoordinationFlags = models.CoordinationFlags{}
	g.Members = nil
	g.Normalize()
	if err := g.Validate(); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(g).Error; err != nil {
			return translate(err, groupKind, g.ID)
		}
		// Lodging already booked for the event or tour counts immediately.
		if err := refreshGroup(tx, g.ID); err != nil {
			return err
		}
		return translate(tx.First(g, "id = ?", g.ID).Error, groupKind, g.ID)
	})
}

// GroupPatch is a partial update; nil fields are left unchanged.
type GroupPatch struct {
	Name                *string             `json:"name"`
	Description         *string             `json:"description"`
	GroupType           *models.GroupType   `json:"group_type"`
	Department          *string             `json:"department"`
	PriorityLevel       *int                `json:"priority_level"`
	ArrivalDate         *string             `json:"arrival_date"`
	DepartureDate       *string             `json:"departure_date"`
	ArrivalLocation     *string             `json:"arrival_location"`
	DepartureLocation   *string             `json:"departure_location"`
	LeaderID            *string             `json:"leader_id"`
	BackupContactID     *string             `json:"backup_contact_id"`
	SpecialRequirements *[]string           `json:"special_requirements"`
	DietaryRestrictions *[]string           `json:"dietary_restrictions"`
	AccessibilityNeeds  *[]string           `json:"accessibility_needs"`
	EventID             *string             `json:"event_id"`
	TourID              *string             `json:"tour_id"`
	Status              *models.GroupStatus `json:"status"`
}

func (p GroupPatch) apply(g *models.TravelGroup) error {
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setString(&g.Name, p.Name)
	setString(&g.Description, p.Description)
	setString(&g.Department, p.Department)
	setString(&g.ArrivalDate, p.ArrivalDate)
	setString(&g.DepartureDate, p.DepartureDate)
	setString(&g.ArrivalLocation, p.ArrivalLocation)
	setString(&g.DepartureLocation, p.DepartureLocation)
	setString(&g.LeaderID, p.LeaderID)
	setString(&g.BackupContactID, p.BackupContactID)
	setString(&g.EventID, p.EventID)
	setString(&g.TourID, p.TourID)
	if p.GroupType != nil {
		g.GroupType = *p.GroupType
	}
	if p.PriorityLevel != nil {
		if *p.PriorityLevel == 0 {
			return apperr.Validation("priority_level must be between 1 and 5")
		}
		g.PriorityLevel = *p.PriorityLevel
	}
	if p.SpecialRequirements != nil {
		g.SpecialRequirements = *p.SpecialRequirements
	}
	if p.DietaryRestrictions != nil {
		g.DietaryRestrictions = *p.DietaryRestrictions
	}
	if p.AccessibilityNeeds != nil {
		g.AccessibilityNeeds = *p.AccessibilityNeeds
	}
	if p.Status != nil && *p.Status != g.Status {
		if !g.Status.CanTransitionTo(*p.Status) {
			return apperr.Validation("cannot move group from %s to %s", g.Status, *p.Status)
		}
		g.Status = *p.Status
	}
	return nil
}

// UpdateTravelGroup applies a partial update. Changing the event or tour
// re-derives the coordination flags, since lodging matching depends on it.
func (s *Store) UpdateTravelGroup(ctx context.Context, id string, patch GroupPatch) (*models.TravelGroup, error) {
	var g models.TravelGroup
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&g, "id = ?", id).Error; err != nil {
			return translate(err, groupKind, id)
		}
		prevEvent, prevTour := g.EventID, g.TourID
		if err := patch.apply(&g); err != nil {
			return err
		}
		g.Normalize()
		if err := g.Validate(); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&g).Error; err != nil {
			return translate(err, groupKind, id)
		}
		if g.EventID != prevEvent || g.TourID != prevTour {
			if err := refreshGroup(tx, g.ID); err != nil {
				return err
			}
			return translate(tx.First(&g, "id = ?", id).Error, groupKind, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// DeleteTravelGroup removes a group and its members. Flights, transfers and
// lodging bookings are detached rather than deleted: they may be shared or
// billed independently of the group.
func (s *Store) DeleteTravelGroup(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *gorm.DB) error {
		var g models.TravelGroup
		if err := tx.First(&g, "id = ?", id).Error; err != nil {
			return translate(err, groupKind, id)
		}
		if err := tx.Where("group_id = ?", id).Delete(&models.TravelGroupMember{}).Error; err != nil {
			return translate(err, "member", "")
		}
		detached := []any{
			&models.FlightCoordination{},
			&models.GroundTransportationCoordination{},
			&models.LodgingBooking{},
		}
		for _, m := range detached {
			if err := tx.Model(m).Where("group_id = ?", id).Update("group_id", nil).Error; err != nil {
				return translate(err, "segment", "")
			}
		}
		if err := tx.Delete(&models.TravelGroup{}, "id = ?", id).Error; err != nil {
			return translate(err, groupKind, id)
		}
		// Detached lodging now falls back to scope matching for sibling groups.
		return refreshScope(tx, g.EventID, g.TourID)
	})
}
