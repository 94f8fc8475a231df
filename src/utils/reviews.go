package utils

import (
	"camphub/src/db"
	"camphub/src/models"
	"camphub/src/models/scopes"
	"camphub/src/types"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func campsiteExists(tx *gorm.DB, id uint) error {
	var campsite models.Campsite
	if err := tx.Select("id").Scopes(scopes.WithID(id)).First(&campsite).Error; err != nil {
		return notFoundOr(err, "campsite")
	}
	return nil
}

// CreateReview is open to renters with a completed stay at the campsite,
// once per campsite.
func CreateReview(userID uuid.UUID, campsiteID uint, params *types.CreateReviewRequestBody) (*models.Review, error) {
	if params.Rating < 1 || params.Rating > 5 {
		return nil, newActionError(ErrValidation, "rating must be between 1 and 5")
	}
	review := models.Review{
		CampsiteID: campsiteID,
		UserID:     userID,
		Rating:     params.Rating,
		Body:       strings.TrimSpace(params.Body),
	}
	err := db.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := campsiteExists(tx, campsiteID); err != nil {
			return err
		}
		var stays int64
		err := tx.Model(&models.Booking{}).
			Where("campsite_id = ? AND user_id = ? AND status = ?", campsiteID, userID, types.BOOKING_COMPLETED).
			Count(&stays).
			Error
		if err != nil {
			return fmt.Errorf("error retrieving bookings: %w", err)
		}
		if stays == 0 {
			return newActionError(ErrValidation, "you can only review campsites you have stayed at")
		}
		var existing models.Review
		err = tx.Where("campsite_id = ? AND user_id = ?", campsiteID, userID).First(&existing).Error
		if err == nil {
			return newActionError(ErrConflict, "you have already reviewed this campsite")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("error retrieving reviews: %w", err)
		}
		if err := tx.Create(&review).Error; err != nil {
			return fmt.Errorf("error creating review: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func ListReviews(campsiteID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := db.GetDb().Preload("User").Scopes(scopes.WithCampsite(campsiteID), scopes.Newest).Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("error retrieving reviews: %w", err)
	}
	return reviews, nil
}

func DeleteReview(userID uuid.UUID, id uint) error {
	var review models.Review
	if err := db.GetDb().Scopes(scopes.WithID(id)).First(&review).Error; err != nil {
		return notFoundOr(err, "review")
	}
	if review.UserID != userID {
		return newActionError(ErrForbidden, "you can only delete your own reviews")
	}
	if err := db.GetDb().Delete(&review).Error; err != nil {
		return fmt.Errorf("error deleting review: %w", err)
	}
	return nil
}

func CreateComment(userID uuid.UUID, campsiteID uint, params *types.CreateCommentRequestBody) (*models.Comment, error) {
	body := strings.TrimSpace(params.Body)
	if body == "" {
		return nil, newActionError(ErrValidation, "comment cannot be empty")
	}
	if err := campsiteExists(db.GetDb(), campsiteID); err != nil {
		return nil, err
	}
	comment := models.Comment{CampsiteID: campsiteID, UserID: userID, Body: body}
	if err := db.GetDb().Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("error creating comment: %w", err)
	}
	return &comment, nil
}

func ListComments(campsiteID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := db.GetDb().Preload("User").Scopes(scopes.WithCampsite(campsiteID), scopes.Newest).Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("error retrieving comments: %w", err)
	}
	return comments, nil
}

func DeleteComment(userID uuid.UUID, id uint) error {
	var comment models.Comment
	if err := db.GetDb().Scopes(scopes.WithID(id)).First(&comment).Error; err != nil {
		return notFoundOr(err, "comment")
	}
	if comment.UserID != userID {
		return newActionError(ErrForbidden, "you can only delete your own comments")
	}
	if err := db.GetDb().Delete(&comment).Error; err != nil {
		return fmt.Errorf("error deleting comment: %w", err)
	}
	return nil
}

// ToggleFavorite adds the campsite to the user's favorites, or removes it if
// it is already there. It returns whether the campsite is now a favorite.
func ToggleFavorite(userID uuid.UUID, campsiteID uint) (bool, error) {
	favorited := false
	err := db.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := campsiteExists(tx, campsiteID); err != nil {
			return err
		}
		result := tx.Where("user_id = ? AND campsite_id = ?", userID, campsiteID).Delete(&models.Favorite{})
		if result.Error != nil {
			return fmt.Errorf("error removing favorite: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			return nil
		}
		if err := tx.Create(&models.Favorite{UserID: userID, CampsiteID: campsiteID}).Error; err != nil {
			return fmt.Errorf("error adding favorite: %w", err)
		}
		favorited = true
		return nil
	})
	return favorited, err
}

func ListFavorites(userID uuid.UUID) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := db.GetDb().Preload("Campsite").Where("user_id = ?", userID).Order("created_at DESC").Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("error retrieving favorites: %w", err)
	}
	return favorites, nil
}
