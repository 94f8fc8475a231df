package utils

import (
	"camphub/src/db"
	"camphub/src/lib"
	"camphub/src/models"
	"camphub/src/types"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func ListZones(campsiteID uint) ([]models.Zone, error) {
	var zones []models.Zone
	if err := db.GetDb().Where("campsite_id = ?", campsiteID).Order("name ASC").Find(&zones).Error; err != nil {
		return nil, fmt.Errorf("error retrieving zones: %w", err)
	}
	return zones, nil
}

func zoneNameTaken(tx *gorm.DB, campsiteID uint, name string, exceptID uint) error {
	var existing models.Zone
	err := tx.Where("campsite_id = ? AND name = ? AND id <> ?", campsiteID, name, exceptID).First(&existing).Error
	if err == nil {
		return newActionError(ErrConflict, "zone %q already exists", name)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return fmt.Errorf("error retrieving zones: %w", err)
}

// zoneInUse reports whether pending or confirmed bookings still name the zone.
func zoneInUse(tx *gorm.DB, campsiteID uint, name string) (bool, error) {
	var bookings []models.Booking
	err := tx.
		Select("id", "notes").
		Where("campsite_id = ? AND status IN ?", campsiteID, []types.BookingStatus{types.BOOKING_PENDING, types.BOOKING_CONFIRMED}).
		Find(&bookings).
		Error
	if err != nil {
		return false, fmt.Errorf("error retrieving bookings: %w", err)
	}
	for _, b := range bookings {
		if zone, ok := ExtractZoneName(b.Notes); ok && zone == name {
			return true, nil
		}
	}
	return false, nil
}

// cleanZoneName trims the name. Bookings carry it on a single notes line, so
// line breaks and other control characters are rejected.
func cleanZoneName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", newActionError(ErrValidation, "zone name is required")
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return "", newActionError(ErrValidation, "zone name cannot contain line breaks or control characters")
	}
	return name, nil
}

func CreateZone(ownerID uuid.UUID, campsiteID uint, params *types.CreateZoneRequestBody) (*models.Zone, error) {
	name, err := cleanZoneName(params.Name)
	if err != nil {
		return nil, err
	}
	zone := models.Zone{
		CampsiteID:  campsiteID,
		Name:        name,
		Capacity:    params.Capacity,
		Width:       params.Width,
		Length:      params.Length,
		Description: params.Description,
		Images:      types.StringArray{},
	}
	err = db.GetDb().Transaction(func(tx *gorm.DB) error {
		if _, err := ownedCampsite(tx, ownerID, campsiteID); err != nil {
			return err
		}
		if err := zoneNameTaken(tx, campsiteID, name, 0); err != nil {
			return err
		}
		if err := tx.Create(&zone).Error; err != nil {
			return fmt.Errorf("error creating zone: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

func ownedZone(tx *gorm.DB, ownerID uuid.UUID, campsiteID, zoneID uint) (*models.Zone, error) {
	if _, err := ownedCampsite(tx, ownerID, campsiteID); err != nil {
		return nil, err
	}
	var zone models.Zone
	if err := tx.Where("id = ? AND campsite_id = ?", zoneID, campsiteID).First(&zone).Error; err != nil {
		return nil, notFoundOr(err, "zone")
	}
	return &zone, nil
}

// UpdateZone refuses to rename a zone while active bookings refer to the old
// name, since bookings only know their zone by name.
func UpdateZone(ownerID uuid.UUID, campsiteID, zoneID uint, params *types.UpdateZoneRequestBody) (*models.Zone, error) {
	var zone *models.Zone
	err := db.GetDb().Transaction(func(tx *gorm.DB) error {
		var err error
		zone, err = ownedZone(tx, ownerID, campsiteID, zoneID)
		if err != nil {
			return err
		}
		fields := map[string]any{}
		if params.Name != nil {
			name, err := cleanZoneName(*params.Name)
			if err != nil {
				return err
			}
			if name != zone.Name {
				if err := zoneNameTaken(tx, campsiteID, name, zone.ID); err != nil {
					return err
				}
				inUse, err := zoneInUse(tx, campsiteID, zone.Name)
				if err != nil {
					return err
				}
				if inUse {
					return newActionError(ErrConflict, "zone %q has active bookings and cannot be renamed", zone.Name)
				}
				fields["name"] = name
			}
		}
		if params.Capacity != nil {
			fields["capacity"] = *params.Capacity
		}
		if params.Width != nil {
			fields["width"] = *params.Width
		}
		if params.Length != nil {
			fields["length"] = *params.Length
		}
		if params.Description != nil {
			fields["description"] = *params.Description
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(zone).Updates(fields).Error; err != nil {
			return fmt.Errorf("error updating zone: %w", err)
		}
		return tx.First(zone, zone.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return zone, nil
}

func DeleteZone(ownerID uuid.UUID, campsiteID, zoneID uint) error {
	return db.GetDb().Transaction(func(tx *gorm.DB) error {
		zone, err := ownedZone(tx, ownerID, campsiteID, zoneID)
		if err != nil {
			return err
		}
		inUse, err := zoneInUse(tx, campsiteID, zone.Name)
		if err != nil {
			return err
		}
		if inUse {
			return newActionError(ErrConflict, "zone %q has active bookings", zone.Name)
		}
		if err := tx.Delete(zone).Error; err != nil {
			return fmt.Errorf("error deleting zone: %w", err)
		}
		return nil
	})
}

func AddZoneImage(ctx context.Context, storage lib.ObjectStorage, ownerID uuid.UUID, campsiteID, zoneID uint, file *FileUpload) (*models.Zone, error) {
	zone, err := ownedZone(db.GetDb(), ownerID, campsiteID, zoneID)
	if err != nil {
		return nil, err
	}
	url, err := uploadImage(ctx, storage, ObjectKey("zones", zone.ID, file.Filename), file)
	if err != nil {
		return nil, err
	}
	images := append(slices.Clone(zone.Images), url)
	if err := db.GetDb().Model(zone).Update("images", images).Error; err != nil {
		discardUpload(storage, url)
		return nil, fmt.Errorf("error updating zone images: %w", err)
	}
	zone.Images = images
	return zone, nil
}

func RemoveZoneImage(ctx context.Context, storage lib.ObjectStorage, ownerID uuid.UUID, campsiteID, zoneID uint, url string) (*models.Zone, error) {
	zone, err := ownedZone(db.GetDb(), ownerID, campsiteID, zoneID)
	if err != nil {
		return nil, err
	}
	images, err := removeImage(ctx, storage, zone.Images, url)
	if err != nil {
		return nil, err
	}
	if err := db.GetDb().Model(zone).Update("images", images).Error; err != nil {
		return nil, fmt.Errorf("error updating zone images: %w", err)
	}
	zone.Images = images
	return zone, nil
}
