package models

import (
	"time"

	"gorm.io/gorm"

	"tourhub/internal/apperr"
	"tourhub/internal/geo"
)

// GroundTransportationCoordination is a vehicle transfer, optionally assigned to a group.
type GroundTransportationCoordination struct {
	Base
	GroupID            *string       `json:"group_id" gorm:"size:36;index"`
	EventID            string        `json:"event_id" gorm:"size:64;index"`
	TourID             string        `json:"tour_id" gorm:"size:64;index"`
	Provider           string        `json:"provider"`
	VehicleType        string        `json:"vehicle_type"`
	PickupLocation     string        `json:"pickup_location"`
	DropoffLocation    string        `json:"dropoff_location"`
	PickupTime         *time.Time    `json:"pickup_time"`
	VehicleCapacity    int           `json:"vehicle_capacity"`
	AssignedPassengers int           `json:"assigned_passengers"`
	Status             SegmentStatus `json:"status" gorm:"size:20;not null"`

	// Route is stored as WKB; RouteGeoJSON is the API representation.
	Route        []byte  `json:"-" gorm:"type:bytea"`
	RouteGeoJSON string  `json:"route_geometry,omitempty" gorm:"-"`
	RouteKm      float64 `json:"route_km,omitempty" gorm:"-"`
}

// TableName keeps the table name short.
func (GroundTransportationCoordination) TableName() string {
	return "ground_transportation"
}

// AvailableSpaces is the unassigned capacity of the vehicle.
func (v *GroundTransportationCoordination) AvailableSpaces() int {
	return v.VehicleCapacity - v.AssignedPassengers
}

// SetRoute parses a GeoJSON LineString into the stored column. An empty
// string clears the route.
func (v *GroundTransportationCoordination) SetRoute(geojson string) error {
	b, err := geo.LineStringToWKB(geojson)
	if err != nil {
		return apperr.Validation("invalid route_geometry: %v", err)
	}
	km, err := geo.LengthKm(b)
	if err != nil {
		return apperr.Validation("invalid route_geometry: %v", err)
	}
	v.Route = b
	v.RouteGeoJSON = geojson
	v.RouteKm = km
	return nil
}

// AfterFind renders the stored route back to GeoJSON.
func (v *GroundTransportationCoordination) AfterFind(tx *gorm.DB) error {
	s, err := geo.WKBToGeoJSON(v.Route)
	if err != nil {
		return err
	}
	v.RouteGeoJSON = s
	v.RouteKm, err = geo.LengthKm(v.Route)
	return err
}

// Validate normalizes the record and re-encodes RouteGeoJSON into Route.
func (v *GroundTransportationCoordination) Validate() error {
	v.GroupID = normalizeGroupRef(v.GroupID)
	if err := v.SetRoute(v.RouteGeoJSON); err != nil {
		return err
	}
	if err := normalizeSegmentStatus(&v.Status); err != nil {
		return err
	}
	return validCapacity("assigned_passengers", v.AssignedPassengers, "vehicle_capacity", v.VehicleCapacity)
}

func (v *GroundTransportationCoordination) GroupRef() *string { return v.GroupID }
func (v *GroundTransportationCoordination) Scope() (string, string) {
	return v.EventID, v.TourID
}
