package services

import (
	"context"

	"github.com/mohibbulwara/orjon/models"
	"github.com/pkg/errors"
)

func (s *Service) Notifications(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var notes []models.Notification
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Find(&notes).Error
	return notes, errors.Wrap(err, "list notifications")
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).Count(&n).Error
	return n, errors.Wrap(err, "count unread notifications")
}

// MarkNotificationRead only flips notifications the user owns.
func (s *Service) MarkNotificationRead(ctx context.Context, userID, id string) error {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return errors.Wrap(res.Error, "mark notification read")
	}
	if res.RowsAffected == 0 {
		var n int64
		s.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ? AND user_id = ?", id, userID).Count(&n)
		if n == 0 {
			return newError(ErrNotFound, "notification not found")
		}
	}
	return nil
}

func (s *Service) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, errors.Wrap(res.Error, "mark notifications read")
}
