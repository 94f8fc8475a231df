package utils

import (
	"camphub/src/db"
	"camphub/src/lib"
	"camphub/src/models"
	"camphub/src/models/scopes"
	"camphub/src/types"
	"context"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func uniqueCampsiteSlug(tx *gorm.DB, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "campsite"
	}
	var count int64
	if err := tx.Unscoped().Model(&models.Campsite{}).Where("slug = ?", base).Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return base, nil
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}

func CreateCampsite(ownerID uuid.UUID, params *types.CreateCampsiteRequestBody) (*models.Campsite, error) {
	if params.PricePerNight <= 0 {
		return nil, newActionError(ErrValidation, "price per night must be greater than zero")
	}
	campsite := models.Campsite{
		OwnerID:       ownerID,
		Name:          strings.TrimSpace(params.Name),
		Description:   params.Description,
		Location:      strings.TrimSpace(params.Location),
		PricePerNight: decimal.NewFromFloat(params.PricePerNight),
		Images:        types.StringArray{},
		Status:        types.CAMPSITE_PUBLISHED,
	}
	err := db.GetDb().Transaction(func(tx *gorm.DB) error {
		s, err := uniqueCampsiteSlug(tx, campsite.Name)
		if err != nil {
			return fmt.Errorf("error generating slug: %w", err)
		}
		campsite.Slug = s
		if err := tx.Create(&campsite).Error; err != nil {
			return fmt.Errorf("error creating campsite: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Campsite] %s created campsite %d (%s)\n", ownerID, campsite.ID, campsite.Slug)
	return &campsite, nil
}

// ListCampsites returns published campsites, or every campsite of ownerID
// when filters.Owned is set.
func ListCampsites(ownerID uuid.UUID, filters *types.CampsiteQueryFilters) ([]models.Campsite, error) {
	var campsites []models.Campsite
	q := db.GetDb().Model(&models.Campsite{})
	if filters.Owned {
		q = q.Where("owner_id = ?", ownerID)
	} else {
		q = q.Where("status = ?", types.CAMPSITE_PUBLISHED)
	}
	if filters.Query != "" {
		like := "%" + strings.ToLower(filters.Query) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if filters.Location != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(filters.Location)+"%")
	}
	if filters.Limit > 0 {
		q = q.Limit(filters.Limit)
	}
	if err := q.Scopes(scopes.Newest).Find(&campsites).Error; err != nil {
		return nil, fmt.Errorf("error retrieving campsites: %w", err)
	}
	return campsites, nil
}

func GetCampsite(id uint) (*models.Campsite, error) {
	var campsite models.Campsite
	err := db.GetDb().
		Preload("Zones", func(tx *gorm.DB) *gorm.DB { return tx.Order("name ASC") }).
		Preload("Owner").
		Scopes(scopes.WithID(id)).
		First(&campsite).
		Error
	if err != nil {
		return nil, notFoundOr(err, "campsite")
	}
	return &campsite, nil
}

// ownedCampsite loads a campsite and checks that ownerID owns it.
func ownedCampsite(tx *gorm.DB, ownerID uuid.UUID, id uint) (*models.Campsite, error) {
	var campsite models.Campsite
	if err := tx.Scopes(scopes.WithID(id)).First(&campsite).Error; err != nil {
		return nil, notFoundOr(err, "campsite")
	}
	if campsite.OwnerID != ownerID {
		return nil, newActionError(ErrForbidden, "you do not own this campsite")
	}
	return &campsite, nil
}

func UpdateCampsite(ownerID uuid.UUID, id uint, params *types.UpdateCampsiteRequestBody) (*models.Campsite, error) {
	campsite, err := ownedCampsite(db.GetDb(), ownerID, id)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if params.Name != nil {
		fields["name"] = strings.TrimSpace(*params.Name)
	}
	if params.Description != nil {
		fields["description"] = *params.Description
	}
	if params.Location != nil {
		fields["location"] = strings.TrimSpace(*params.Location)
	}
	if params.PricePerNight != nil {
		if *params.PricePerNight <= 0 {
			return nil, newActionError(ErrValidation, "price per night must be greater than zero")
		}
		fields["price_per_night"] = decimal.NewFromFloat(*params.PricePerNight)
	}
	if params.Status != nil {
		fields["status"] = types.CampsiteStatus(*params.Status)
	}
	if len(fields) == 0 {
		return campsite, nil
	}
	if err := db.GetDb().Model(campsite).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("error updating campsite: %w", err)
	}
	return GetCampsite(id)
}

func countActiveBookings(tx *gorm.DB, campsiteID uint) (int64, error) {
	var count int64
	err := tx.Model(&models.Booking{}).
		Scopes(scopes.WithCampsite(campsiteID)).
		Where("status IN ?", []types.BookingStatus{types.BOOKING_PENDING, types.BOOKING_CONFIRMED}).
		Count(&count).
		Error
	return count, err
}

func DeleteCampsite(ownerID uuid.UUID, id uint) error {
	return db.GetDb().Transaction(func(tx *gorm.DB) error {
		campsite, err := ownedCampsite(tx, ownerID, id)
		if err != nil {
			return err
		}
		active, err := countActiveBookings(tx, campsite.ID)
		if err != nil {
			return fmt.Errorf("error retrieving bookings: %w", err)
		}
		if active > 0 {
			return newActionError(ErrConflict, "campsite has %d active bookings", active)
		}
		if err := tx.Where("campsite_id = ?", campsite.ID).Delete(&models.Zone{}).Error; err != nil {
			return fmt.Errorf("error deleting zones: %w", err)
		}
		if err := tx.Delete(campsite).Error; err != nil {
			return fmt.Errorf("error deleting campsite: %w", err)
		}
		return nil
	})
}

func AddCampsiteImage(ctx context.Context, storage lib.ObjectStorage, ownerID uuid.UUID, id uint, file *FileUpload) (*models.Campsite, error) {
	campsite, err := ownedCampsite(db.GetDb(), ownerID, id)
	if err != nil {
		return nil, err
	}
	url, err := uploadImage(ctx, storage, ObjectKey("campsites", campsite.ID, file.Filename), file)
	if err != nil {
		return nil, err
	}
	images := append(slices.Clone(campsite.Images), url)
	if err := db.GetDb().Model(campsite).Update("images", images).Error; err != nil {
		discardUpload(storage, url)
		return nil, fmt.Errorf("error updating campsite images: %w", err)
	}
	campsite.Images = images
	return campsite, nil
}

func RemoveCampsiteImage(ctx context.Context, storage lib.ObjectStorage, ownerID uuid.UUID, id uint, url string) (*models.Campsite, error) {
	campsite, err := ownedCampsite(db.GetDb(), ownerID, id)
	if err != nil {
		return nil, err
	}
	images, err := removeImage(ctx, storage, campsite.Images, url)
	if err != nil {
		return nil, err
	}
	if err := db.GetDb().Model(campsite).Update("images", images).Error; err != nil {
		return nil, fmt.Errorf("error updating campsite images: %w", err)
	}
	campsite.Images = images
	return campsite, nil
}

// removeImage deletes url from storage and returns images without it.
func removeImage(ctx context.Context, storage lib.ObjectStorage, images types.StringArray, url string) (types.StringArray, error) {
	i := slices.Index(images, url)
	if i < 0 {
		return nil, newActionError(ErrNotFound, "image not found")
	}
	if storage == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}
	if err := storage.Delete(ctx, url); err != nil {
		return nil, fmt.Errorf("error deleting image: %w", err)
	}
	return slices.Delete(slices.Clone(images), i, i+1), nil
}
