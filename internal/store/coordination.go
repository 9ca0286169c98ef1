package store

import (
	"context"

	"gorm.io/gorm"

	"tourhub/internal/apperr"
	"tourhub/internal/coordination"
	"tourhub/internal/models"
)

// inGroupScope restricts q to segments in the group's event or tour. A group
// with neither matches nothing.
func inGroupScope(q *gorm.DB, g models.TravelGroup) *gorm.DB {
	switch {
	case g.EventID != "":
		return q.Where("event_id = ?", g.EventID)
	case g.TourID != "":
		return q.Where("tour_id = ?", g.TourID)
	}
	return q.Where("1 = 0")
}

// groupOrUnassigned selects lodging explicitly assigned to the group plus
// unassigned lodging in the group's event or tour.
func groupOrUnassigned(q *gorm.DB, g models.TravelGroup) *gorm.DB {
	switch {
	case g.EventID != "":
		return q.Where("group_id = ? OR (group_id IS NULL AND event_id = ?)", g.ID, g.EventID)
	case g.TourID != "":
		return q.Where("group_id = ? OR (group_id IS NULL AND tour_id = ?)", g.ID, g.TourID)
	}
	return q.Where("group_id = ?", g.ID)
}

func loadSummary(tx *gorm.DB, g models.TravelGroup) (coordination.Summary, error) {
	var flights []models.FlightCoordination
	if err := tx.Select("id", "group_id").Where("group_id = ?", g.ID).Find(&flights).Error; err != nil {
		return coordination.Summary{}, translate(err, "flight", "")
	}
	var vehicles []models.GroundTransportationCoordination
	if err := tx.Select("id", "group_id").Where("group_id = ?", g.ID).Find(&vehicles).Error; err != nil {
		return coordination.Summary{}, translate(err, "transport", "")
	}
	var lodging []models.LodgingBooking
	if err := groupOrUnassigned(tx.Select("id", "group_id", "event_id", "tour_id"), g).Find(&lodging).Error; err != nil {
		return coordination.Summary{}, translate(err, "lodging booking", "")
	}
	return coordination.ComputeCoordinationSummary(g, flights, vehicles, lodging), nil
}

// refreshGroup re-derives the coordination flags of one group from its
// segments. A nil or unknown id is ignored.
func refreshGroup(tx *gorm.DB, id string) error {
	if id == "" {
		return nil
	}
	var g models.TravelGroup
	err := tx.Where("id = ?", id).Limit(1).Find(&g).Error
	if err != nil {
		return translate(err, groupKind, id)
	}
	if g.ID == "" {
		return nil
	}
	summary, err := loadSummary(tx, g)
	if err != nil {
		return err
	}
	flags := coordination.Flags(summary)
	if flags == g.CoordinationFlags {
		return nil
	}
	err = tx.Model(&models.TravelGroup{}).Where("id = ?", id).Updates(map[string]any{
		"flights_done":   flags.FlightsDone,
		"hotels_done":    flags.HotelsDone,
		"transport_done": flags.TransportDone,
	}).Error
	return translate(err, groupKind, id)
}

func refreshGroupRefs(tx *gorm.DB, refs ...*string) error {
	seen := map[string]bool{}
	for _, r := range refs {
		if r == nil || seen[*r] {
			continue
		}
		seen[*r] = true
		if err := refreshGroup(tx, *r); err != nil {
			return err
		}
	}
	return nil
}

// refreshScope re-derives flags for every group in an event or tour.
func refreshScope(tx *gorm.DB, eventID, tourID string) error {
	if eventID == "" && tourID == "" {
		return nil
	}
	var ids []string
	q := Filter{EventID: eventID, TourID: tourID}.apply(tx.Model(&models.TravelGroup{}), "travel_groups")
	if err := q.Pluck("id", &ids).Error; err != nil {
		return translate(err, groupKind, "")
	}
	for _, id := range ids {
		if err := refreshGroup(tx, id); err != nil {
			return err
		}
	}
	return nil
}

// GroupSummary returns a group with its coordination summary.
func (s *Store) GroupSummary(ctx context.Context, id string) (*models.TravelGroup, coordination.Summary, error) {
	g, err := s.GetGroup(ctx, id)
	if err != nil {
		return nil, coordination.Summary{}, err
	}
	summary, err := loadSummary(s.db.WithContext(ctx), *g)
	if err != nil {
		return nil, coordination.Summary{}, err
	}
	return g, summary, nil
}

// Candidates are the segments a strategy may consider for a group: those
// already assigned to it and the unassigned ones in its event or tour.
type Candidates struct {
	Flights  []models.FlightCoordination
	Rooms    []models.LodgingBooking
	Vehicles []models.GroundTransportationCoordination
}

// CoordinationCandidates loads the candidate segments for a group.
func (s *Store) CoordinationCandidates(ctx context.Context, g models.TravelGroup) (Candidates, error) {
	db := s.db.WithContext(ctx)
	var c Candidates
	if err := groupOrUnassigned(db, g).Order("departure_time ASC, created_at ASC, id ASC").Find(&c.Flights).Error; err != nil {
		return Candidates{}, translate(err, "flight", "")
	}
	if err := groupOrUnassigned(db, g).Order("pickup_time ASC, created_at ASC, id ASC").Find(&c.Vehicles).Error; err != nil {
		return Candidates{}, translate(err, "transport", "")
	}
	if err := groupOrUnassigned(db, g).Order("check_in_date ASC, created_at ASC, id ASC").Find(&c.Rooms).Error; err != nil {
		return Candidates{}, translate(err, "lodging booking", "")
	}
	return c, nil
}

// ApplyCoordination writes a strategy result in one transaction. Each claim
// is a conditional update that only succeeds while the segment is still
// unassigned (or already ours), lies in the group's event or tour and has the
// capacity; if any claim fails the whole result is rolled back.
func (s *Store) ApplyCoordination(ctx context.Context, groupID string, res coordination.Result) (*models.TravelGroup, error) {
	var g models.TravelGroup
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&g, "id = ?", groupID).Error; err != nil {
			return translate(err, groupKind, groupID)
		}
		for _, fb := range res.BookedFlights {
			if fb.Seats <= 0 {
				return apperr.Validation("flight %s: seats must be positive", fb.FlightID)
			}
			q := inGroupScope(tx.Model(&models.FlightCoordination{}), g).
				Where("id = ? AND (group_id IS NULL OR group_id = ?) AND status <> ? AND total_seats - booked_seats >= ?",
					fb.FlightID, groupID, models.SegmentCancelled, fb.Seats).
				Updates(map[string]any{
					"group_id":     groupID,
					"booked_seats": gorm.Expr("booked_seats + ?", fb.Seats),
				})
			if q.Error != nil {
				return translate(q.Error, "flight", fb.FlightID)
			}
			if q.RowsAffected != 1 {
				return apperr.Conflict("flight "+fb.FlightID+" is no longer available", nil)
			}
		}
		for _, vb := range res.BookedVehicles {
			if vb.Passengers <= 0 {
				return apperr.Validation("vehicle %s: passengers must be positive", vb.VehicleID)
			}
			q := inGroupScope(tx.Model(&models.GroundTransportationCoordination{}), g).
				Where("id = ? AND (group_id IS NULL OR group_id = ?) AND status <> ? AND vehicle_capacity - assigned_passengers >= ?",
					vb.VehicleID, groupID, models.SegmentCancelled, vb.Passengers).
				Updates(map[string]any{
					"group_id":            groupID,
					"assigned_passengers": gorm.Expr("assigned_passengers + ?", vb.Passengers),
				})
			if q.Error != nil {
				return translate(q.Error, "transport", vb.VehicleID)
			}
			if q.RowsAffected != 1 {
				return apperr.Conflict("vehicle "+vb.VehicleID+" is no longer available", nil)
			}
		}
		for _, roomID := range res.BookedRooms {
			q := inGroupScope(tx.Model(&models.LodgingBooking{}), g).
				Where("id = ? AND (group_id IS NULL OR group_id = ?) AND status <> ?", roomID, groupID, models.SegmentCancelled).
				Update("group_id", groupID)
			if q.Error != nil {
				return translate(q.Error, "lodging booking", roomID)
			}
			if q.RowsAffected != 1 {
				return apperr.Conflict("lodging booking "+roomID+" is no longer available", nil)
			}
		}
		// Claimed lodging stops matching sibling groups by scope.
		if len(res.BookedRooms) > 0 {
			if err := refreshScope(tx, g.EventID, g.TourID); err != nil {
				return err
			}
		}
		if err := refreshGroup(tx, groupID); err != nil {
			return err
		}
		return translate(tx.First(&g, "id = ?", groupID).Error, groupKind, groupID)
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}
