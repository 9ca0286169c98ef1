package models

import "tourhub/internal/apperr"

// TourLogistics is the logistics checklist of a tour date or event. Each of
// the four slots is either arranged or not; see coordination.ComputeGroupProgressPercent.
type TourLogistics struct {
	Base
	EventID        string `json:"event_id" gorm:"size:64;index"`
	TourID         string `json:"tour_id" gorm:"size:64;index"`
	Title          string `json:"title"`
	Transportation string `json:"transportation"`
	Accommodation  string `json:"accommodation"`
	Equipment      string `json:"equipment"`
	Crew           int    `json:"crew"`
}

// TableName avoids the awkward plural gorm would pick.
func (TourLogistics) TableName() string {
	return "tour_logistics"
}

func (l *TourLogistics) Validate() error {
	if l.Crew < 0 {
		return apperr.Validation("crew must not be negative")
	}
	return validScope(l.EventID, l.TourID)
}
