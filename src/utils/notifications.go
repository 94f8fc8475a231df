package utils

import (
	"camphub/src/db"
	"camphub/src/models"
	"camphub/src/models/scopes"
	"camphub/src/types"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func createNotification(tx *gorm.DB, userID uuid.UUID, kind types.NotificationType, title, message string, bookingID uint) error {
	notification := models.Notification{
		UserID:      userID,
		Type:        kind,
		Title:       title,
		Message:     message,
		ReferenceID: &bookingID,
	}
	if err := tx.Create(&notification).Error; err != nil {
		log.Printf("[Notification] could not create %s for %s: %s\n", kind, userID, err.Error())
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

func ListNotifications(userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	q := db.GetDb().Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	if err := q.Scopes(scopes.Newest).Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("error retrieving notifications: %w", err)
	}
	return notifications, nil
}

func MarkNotificationRead(userID uuid.UUID, id uuid.UUID) error {
	result := db.GetDb().
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("error updating notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return newActionError(ErrNotFound, "notification not found")
	}
	return nil
}

func MarkAllNotificationsRead(userID uuid.UUID) (int64, error) {
	result := db.GetDb().
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("error updating notifications: %w", result.Error)
	}
	return result.RowsAffected, nil
}
