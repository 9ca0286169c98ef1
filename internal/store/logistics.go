package store

import (
	"context"

	"gorm.io/gorm"

	"tourhub/internal/models"
)

const logisticsKind = "logistics"

// FetchLogistics lists checklists in scope, newest first.
func (s *Store) FetchLogistics(ctx context.Context, f Filter) ([]models.TourLogistics, error) {
	out := []models.TourLogistics{}
	err := f.apply(s.db.WithContext(ctx).Model(&models.TourLogistics{}), "tour_logistics").
		Order("created_at DESC, id ASC").Find(&out).Error
	if err != nil {
		return nil, translate(err, logisticsKind, "")
	}
	return out, nil
}

func (s *Store) GetLogistics(ctx context.Context, id string) (*models.TourLogistics, error) {
	var l models.TourLogistics
	if err := s.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, translate(err, logisticsKind, id)
	}
	return &l, nil
}

func (s *Store) CreateLogistics(ctx context.Context, l *models.TourLogistics) error {
	if err := l.Validate(); err != nil {
		return err
	}
	return translate(s.db.WithContext(ctx).Create(l).Error, logisticsKind, "")
}

// UpdateLogistics loads the checklist, applies mutate and saves it.
func (s *Store) UpdateLogistics(ctx context.Context, id string, mutate func(*models.TourLogistics) error) (*models.TourLogistics, error) {
	var l models.TourLogistics
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&l, "id = ?", id).Error; err != nil {
			return translate(err, logisticsKind, id)
		}
		if err := mutate(&l); err != nil {
			return err
		}
		l.ID = id
		if err := l.Validate(); err != nil {
			return err
		}
		return translate(tx.Save(&l).Error, logisticsKind, id)
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}
