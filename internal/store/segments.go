package store

import (
	"context"

	"gorm.io/gorm"

	"tourhub/internal/apperr"
	"tourhub/internal/models"
)

// SegmentFilter scopes flight, transport and lodging listings. GroupID and
// Unassigned narrow the event/tour filter further.
type SegmentFilter struct {
	Filter
	GroupID    string `form:"group_id" json:"group_id"`
	Unassigned bool   `form:"unassigned" json:"unassigned"`
}

func (f SegmentFilter) apply(q *gorm.DB, table string) *gorm.DB {
	q = f.Filter.apply(q, table)
	switch {
	case f.GroupID != "":
		q = q.Where(table+".group_id = ?", f.GroupID)
	case f.Unassigned:
		q = q.Where(table + ".group_id IS NULL")
	}
	return q
}

// segment is what the generic write path needs from a flight, transfer or
// lodging record.
type segment interface {
	PrimaryKey() string
	GroupRef() *string
	Scope() (eventID, tourID string)
	Validate() error
}

const (
	flightKind    = "flight"
	transportKind = "transport"
	lodgingKind   = "lodging booking"
)

// FetchFlights lists flights ordered by departure.
func (s *Store) FetchFlights(ctx context.Context, f SegmentFilter) ([]models.FlightCoordination, error) {
	out := []models.FlightCoordination{}
	err := f.apply(s.db.WithContext(ctx).Model(&models.FlightCoordination{}), "flight_coordinations").
		Order("departure_time ASC, id ASC").Find(&out).Error
	if err != nil {
		return nil, translate(err, flightKind, "")
	}
	return out, nil
}

// FetchTransportation lists transfers ordered by pickup time.
func (s *Store) FetchTransportation(ctx context.Context, f SegmentFilter) ([]models.GroundTransportationCoordination, error) {
	out := []models.GroundTransportationCoordination{}
	err := f.apply(s.db.WithContext(ctx).Model(&models.GroundTransportationCoordination{}), "ground_transportation").
		Order("pickup_time ASC, id ASC").Find(&out).Error
	if err != nil {
		return nil, translate(err, transportKind, "")
	}
	return out, nil
}

// FetchLodgingBookings lists lodging ordered by check-in date.
func (s *Store) FetchLodgingBookings(ctx context.Context, f SegmentFilter) ([]models.LodgingBooking, error) {
	out := []models.LodgingBooking{}
	err := f.apply(s.db.WithContext(ctx).Model(&models.LodgingBooking{}), "lodging_bookings").
		Order("check_in_date ASC, id ASC").Find(&out).Error
	if err != nil {
		return nil, translate(err, lodgingKind, "")
	}
	return out, nil
}

func (s *Store) CreateFlight(ctx context.Context, f *models.FlightCoordination) error {
	return s.createSegment(ctx, flightKind, f, false)
}

func (s *Store) CreateTransportation(ctx context.Context, v *models.GroundTransportationCoordination) error {
	return s.createSegment(ctx, transportKind, v, false)
}

func (s *Store) CreateLodgingBooking(ctx context.Context, b *models.LodgingBooking) error {
	return s.createSegment(ctx, lodgingKind, b, true)
}

// UpdateFlight loads the flight, applies mutate and saves it. mutate must not
// change the id.
func (s *Store) UpdateFlight(ctx context.Context, id string, mutate func(*models.FlightCoordination) error) (*models.FlightCoordination, error) {
	var f models.FlightCoordination
	if err := s.updateSegment(ctx, flightKind, id, &f, func() error { return mutate(&f) }, false); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *Store) UpdateTransportation(ctx context.Context, id string, mutate func(*models.GroundTransportationCoordination) error) (*models.GroundTransportationCoordination, error) {
	var v models.GroundTransportationCoordination
	if err := s.updateSegment(ctx, transportKind, id, &v, func() error { return mutate(&v) }, false); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store) UpdateLodgingBooking(ctx context.Context, id string, mutate func(*models.LodgingBooking) error) (*models.LodgingBooking, error) {
	var b models.LodgingBooking
	if err := s.updateSegment(ctx, lodgingKind, id, &b, func() error { return mutate(&b) }, true); err != nil {
		return nil, err
	}
	return &b, nil
}

// DeleteFlight removes a flight and returns the record as it was.
func (s *Store) DeleteFlight(ctx context.Context, id string) (*models.FlightCoordination, error) {
	var f models.FlightCoordination
	if err := s.deleteSegment(ctx, flightKind, id, &f, false); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *Store) DeleteTransportation(ctx context.Context, id string) (*models.GroundTransportationCoordination, error) {
	var v models.GroundTransportationCoordination
	if err := s.deleteSegment(ctx, transportKind, id, &v, false); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store) DeleteLodgingBooking(ctx context.Context, id string) (*models.LodgingBooking, error) {
	var b models.LodgingBooking
	if err := s.deleteSegment(ctx, lodgingKind, id, &b, true); err != nil {
		return nil, err
	}
	return &b, nil
}

// requireGroup rejects references to groups that do not exist.
func requireGroup(tx *gorm.DB, ref *string) error {
	if ref == nil {
		return nil
	}
	var n int64
	if err := tx.Model(&models.TravelGroup{}).Where("id = ?", *ref).Count(&n).Error; err != nil {
		return translate(err, groupKind, *ref)
	}
	if n == 0 {
		return apperr.NotFound(groupKind, *ref)
	}
	return nil
}

// refreshAfter re-derives flags for the groups a segment write touched.
// Lodging also matches by scope, so its event or tour is refreshed as well.
func refreshAfter(tx *gorm.DB, lodging bool, touched ...segment) error {
	refs := make([]*string, 0, len(touched))
	for _, seg := range touched {
		refs = append(refs, seg.GroupRef())
	}
	if err := refreshGroupRefs(tx, refs...); err != nil {
		return err
	}
	if !lodging {
		return nil
	}
	for _, seg := range touched {
		eventID, tourID := seg.Scope()
		if err := refreshScope(tx, eventID, tourID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) createSegment(ctx context.Context, kind string, rec segment, lodging bool) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *gorm.DB) error {
		if err := requireGroup(tx, rec.GroupRef()); err != nil {
			return err
		}
		if err := tx.Create(rec).Error; err != nil {
			return translate(err, kind, "")
		}
		return refreshAfter(tx, lodging, rec)
	})
}

// snapshot keeps the pre-update group reference and scope of a segment.
type snapshot struct {
	id          string
	group       *string
	event, tour string
}

func (p snapshot) PrimaryKey() string      { return p.id }
func (p snapshot) GroupRef() *string       { return p.group }
func (p snapshot) Scope() (string, string) { return p.event, p.tour }
func (p snapshot) Validate() error         { return nil }

func snapshotOf(rec segment) snapshot {
	p := snapshot{id: rec.PrimaryKey()}
	if ref := rec.GroupRef(); ref != nil {
		v := *ref
		p.group = &v
	}
	p.event, p.tour = rec.Scope()
	return p
}

func (s *Store) updateSegment(ctx context.Context, kind, id string, rec segment, mutate func() error, lodging bool) error {
	return s.inTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(rec, "id = ?", id).Error; err != nil {
			return translate(err, kind, id)
		}
		before := snapshotOf(rec)
		if err := mutate(); err != nil {
			return err
		}
		if rec.PrimaryKey() != id {
			return apperr.Validation("id cannot be changed")
		}
		if err := rec.Validate(); err != nil {
			return err
		}
		if err := requireGroup(tx, rec.GroupRef()); err != nil {
			return err
		}
		if err := tx.Save(rec).Error; err != nil {
			return translate(err, kind, id)
		}
		return refreshAfter(tx, lodging, before, rec)
	})
}

func (s *Store) deleteSegment(ctx context.Context, kind, id string, rec segment, lodging bool) error {
	return s.inTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(rec, "id = ?", id).Error; err != nil {
			return translate(err, kind, id)
		}
		if err := tx.Delete(rec).Error; err != nil {
			return translate(err, kind, id)
		}
		return refreshAfter(tx, lodging, rec)
	})
}
