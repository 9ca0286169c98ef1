package store

import (
	"context"

	"gorm.io/gorm"

	"tourhub/internal/apperr"
	"tourhub/internal/models"
)

const memberKind = "member"

// MemberFilter selects members of one group, or of every group in an event
// or tour.
type MemberFilter struct {
	GroupID string `form:"group_id"`
	EventID string `form:"event_id"`
	TourID  string `form:"tour_id"`
}

// FetchGroupMembers lists members ordered by name.
func (s *Store) FetchGroupMembers(ctx context.Context, f MemberFilter) ([]models.TravelGroupMember, error) {
	members := []models.TravelGroupMember{}
	q := s.db.WithContext(ctx).Model(&models.TravelGroupMember{})
	if f.GroupID != "" {
		q = q.Where("travel_group_members.group_id = ?", f.GroupID)
	}
	if f.EventID != "" || f.TourID != "" {
		q = q.Joins("JOIN travel_groups ON travel_groups.id = travel_group_members.group_id")
		q = Filter{EventID: f.EventID, TourID: f.TourID}.apply(q, "travel_groups")
	}
	err := q.Order("travel_group_members.member_name ASC, travel_group_members.id ASC").Find(&members).Error
	if err != nil {
		return nil, translate(err, memberKind, "")
	}
	return members, nil
}

// GetMember loads one member.
func (s *Store) GetMember(ctx context.Context, id string) (*models.TravelGroupMember, error) {
	var m models.TravelGroupMember
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, memberKind, id)
	}
	return &m, nil
}

// BulkCreateGroupMembers inserts all members as pending and refreshes the
// group's counters, atomically. An input with a missing name rejects the
// whole batch.
func (s *Store) BulkCreateGroupMembers(ctx context.Context, groupID string, in []models.MemberInput) ([]models.TravelGroupMember, error) {
	if len(in) == 0 {
		return nil, apperr.Validation("at least one member is required")
	}
	rows := make([]models.TravelGroupMember, 0, len(in))
	for i, m := range in {
		row, err := m.ToMember(groupID)
		if err != nil {
			return nil, apperr.Validation("member %d: member_name is required", i+1)
		}
		rows = append(rows, row)
	}
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		var g models.TravelGroup
		if err := tx.Select("id").First(&g, "id = ?", groupID).Error; err != nil {
			return translate(err, groupKind, groupID)
		}
		if err := tx.CreateInBatches(&rows, 100).Error; err != nil {
			return translate(err, memberKind, "")
		}
		return recomputeCounters(tx, groupID)
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateMemberStatus changes one member's confirmation state.
func (s *Store) UpdateMemberStatus(ctx context.Context, memberID string, status models.MemberStatus) (*models.TravelGroupMember, error) {
	if !status.Valid() {
		return nil, apperr.Validation("invalid member status %q", status)
	}
	var m models.TravelGroupMember
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&m, "id = ?", memberID).Error; err != nil {
			return translate(err, memberKind, memberID)
		}
		if m.Status == status {
			return nil
		}
		if err := tx.Model(&m).Update("status", status).Error; err != nil {
			return translate(err, memberKind, memberID)
		}
		m.Status = status
		return recomputeCounters(tx, m.GroupID)
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteGroupMember removes a member and refreshes the group's counters.
func (s *Store) DeleteGroupMember(ctx context.Context, memberID string) error {
	return s.inTx(ctx, func(tx *gorm.DB) error {
		var m models.TravelGroupMember
		if err := tx.First(&m, "id = ?", memberID).Error; err != nil {
			return translate(err, memberKind, memberID)
		}
		if err := tx.Delete(&m).Error; err != nil {
			return translate(err, memberKind, memberID)
		}
		return recomputeCounters(tx, m.GroupID)
	})
}

// recomputeCounters derives total and confirmed member counts from the
// membership rows.
func recomputeCounters(tx *gorm.DB, groupID string) error {
	var total, confirmed int64
	base := tx.Model(&models.TravelGroupMember{}).Where("group_id = ?", groupID)
	if err := base.Count(&total).Error; err != nil {
		return translate(err, memberKind, "")
	}
	err := tx.Model(&models.TravelGroupMember{}).
		Where("group_id = ? AND status = ?", groupID, models.MemberConfirmed).
		Count(&confirmed).Error
	if err != nil {
		return translate(err, memberKind, "")
	}
	err = tx.Model(&models.TravelGroup{}).Where("id = ?", groupID).Updates(map[string]any{
		"total_members":     total,
		"confirmed_members": confirmed,
	}).Error
	return translate(err, groupKind, groupID)
}
