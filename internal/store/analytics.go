package store

import (
	"context"
	"math"

	"tourhub/internal/models"
)

// Analytics aggregates travel coordination across an event or tour.
type Analytics struct {
	TotalGroups         int64                        `json:"total_groups"`
	TotalMembers        int64                        `json:"total_members"`
	ConfirmedMembers    int64                        `json:"confirmed_members"`
	GroupsByStatus      map[models.GroupStatus]int64 `json:"groups_by_status"`
	CoordinatedGroups   int64                        `json:"coordinated_groups"`
	CoordinationPercent int                          `json:"coordination_percent"`
	FlightSeatsTotal    int64                        `json:"flight_seats_total"`
	FlightSeatsBooked   int64                        `json:"flight_seats_booked"`
	TransportCapacity   int64                        `json:"transport_capacity"`
	TransportAssigned   int64                        `json:"transport_assigned"`
	LodgingBookings     int64                        `json:"lodging_bookings"`
	LodgingRoomsBooked  int64                        `json:"lodging_rooms_booked"`
}

type groupTotals struct {
	GroupCount       int64
	MemberCount      int64
	ConfirmedCount   int64
	CoordinatedCount int64
}

type capacityTotals struct {
	Total int64
	Used  int64
}

type statusCount struct {
	Status models.GroupStatus
	N      int64
}

// FetchAnalytics computes the aggregates with a handful of grouped queries.
func (s *Store) FetchAnalytics(ctx context.Context, f Filter) (*Analytics, error) {
	db := s.db.WithContext(ctx)
	out := &Analytics{GroupsByStatus: map[models.GroupStatus]int64{}}

	var gt groupTotals
	err := f.apply(db.Model(&models.TravelGroup{}), "travel_groups").
		Select(`COUNT(*) AS group_count,
			COALESCE(SUM(total_members), 0) AS member_count,
			COALESCE(SUM(confirmed_members), 0) AS confirmed_count,
			COALESCE(SUM(CASE WHEN flights_done AND hotels_done AND transport_done THEN 1 ELSE 0 END), 0) AS coordinated_count`).
		Scan(&gt).Error
	if err != nil {
		return nil, translate(err, groupKind, "")
	}
	out.TotalGroups, out.TotalMembers, out.ConfirmedMembers, out.CoordinatedGroups = gt.GroupCount, gt.MemberCount, gt.ConfirmedCount, gt.CoordinatedCount
	if gt.GroupCount > 0 {
		out.CoordinationPercent = int(math.Round(float64(gt.CoordinatedCount) / float64(gt.GroupCount) * 100))
	}

	var byStatus []statusCount
	err = f.apply(db.Model(&models.TravelGroup{}), "travel_groups").
		Select("status, COUNT(*) AS n").Group("status").Scan(&byStatus).Error
	if err != nil {
		return nil, translate(err, groupKind, "")
	}
	for _, sc := range byStatus {
		out.GroupsByStatus[sc.Status] = sc.N
	}

	var seats capacityTotals
	err = f.apply(db.Model(&models.FlightCoordination{}), "flight_coordinations").
		Where("status <> ?", models.SegmentCancelled).
		Select("COALESCE(SUM(total_seats), 0) AS total, COALESCE(SUM(booked_seats), 0) AS used").
		Scan(&seats).Error
	if err != nil {
		return nil, translate(err, flightKind, "")
	}
	out.FlightSeatsTotal, out.FlightSeatsBooked = seats.Total, seats.Used

	var vehicles capacityTotals
	err = f.apply(db.Model(&models.GroundTransportationCoordination{}), "ground_transportation").
		Where("status <> ?", models.SegmentCancelled).
		Select("COALESCE(SUM(vehicle_capacity), 0) AS total, COALESCE(SUM(assigned_passengers), 0) AS used").
		Scan(&vehicles).Error
	if err != nil {
		return nil, translate(err, transportKind, "")
	}
	out.TransportCapacity, out.TransportAssigned = vehicles.Total, vehicles.Used

	var rooms capacityTotals
	err = f.apply(db.Model(&models.LodgingBooking{}), "lodging_bookings").
		Where("status <> ?", models.SegmentCancelled).
		Select("COUNT(*) AS total, COALESCE(SUM(rooms_booked), 0) AS used").
		Scan(&rooms).Error
	if err != nil {
		return nil, translate(err, lodgingKind, "")
	}
	out.LodgingBookings, out.LodgingRoomsBooked = rooms.Total, rooms.Used
	return out, nil
}
