package utils

import (
	"camphub/src/db"
	"camphub/src/lib"
	"camphub/src/models"
	"camphub/src/models/scopes"
	"camphub/src/types"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func ListEquipment(campsiteID *uint, ownerID *uuid.UUID) ([]models.Equipment, error) {
	var items []models.Equipment
	q := db.GetDb().Model(&models.Equipment{})
	if campsiteID != nil {
		q = q.Where("campsite_id = ?", *campsiteID)
	}
	if ownerID != nil {
		q = q.Where("owner_id = ?", *ownerID)
	}
	if err := q.Scopes(scopes.Newest).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("error retrieving equipment: %w", err)
	}
	return items, nil
}

func GetEquipment(id uint) (*models.Equipment, error) {
	var item models.Equipment
	if err := db.GetDb().Preload("Campsite").Scopes(scopes.WithID(id)).First(&item).Error; err != nil {
		return nil, notFoundOr(err, "equipment")
	}
	return &item, nil
}

func CreateEquipment(ownerID uuid.UUID, params *types.CreateEquipmentRequestBody) (*models.Equipment, error) {
	if params.PricePerDay <= 0 {
		return nil, newActionError(ErrValidation, "price per day must be greater than zero")
	}
	if params.CampsiteID != nil {
		if _, err := ownedCampsite(db.GetDb(), ownerID, *params.CampsiteID); err != nil {
			return nil, err
		}
	}
	item := models.Equipment{
		OwnerID:     ownerID,
		CampsiteID:  params.CampsiteID,
		Name:        strings.TrimSpace(params.Name),
		Description: params.Description,
		PricePerDay: decimal.NewFromFloat(params.PricePerDay),
		Quantity:    params.Quantity,
		Images:      types.StringArray{},
	}
	if err := db.GetDb().Create(&item).Error; err != nil {
		return nil, fmt.Errorf("error creating equipment: %w", err)
	}
	return &item, nil
}

func ownedEquipment(tx *gorm.DB, ownerID uuid.UUID, id uint) (*models.Equipment, error) {
	var item models.Equipment
	if err := tx.Scopes(scopes.WithID(id)).First(&item).Error; err != nil {
		return nil, notFoundOr(err, "equipment")
	}
	if item.OwnerID != ownerID {
		return nil, newActionError(ErrForbidden, "you do not own this equipment")
	}
	return &item, nil
}

func UpdateEquipment(ownerID uuid.UUID, id uint, params *types.UpdateEquipmentRequestBody) (*models.Equipment, error) {
	item, err := ownedEquipment(db.GetDb(), ownerID, id)
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
	if params.PricePerDay != nil {
		if *params.PricePerDay <= 0 {
			return nil, newActionError(ErrValidation, "price per day must be greater than zero")
		}
		fields["price_per_day"] = decimal.NewFromFloat(*params.PricePerDay)
	}
	if params.Quantity != nil {
		fields["quantity"] = *params.Quantity
	}
	if len(fields) > 0 {
		if err := db.GetDb().Model(item).Updates(fields).Error; err != nil {
			return nil, fmt.Errorf("error updating equipment: %w", err)
		}
	}
	return GetEquipment(id)
}

func DeleteEquipment(ownerID uuid.UUID, id uint) error {
	item, err := ownedEquipment(db.GetDb(), ownerID, id)
	if err != nil {
		return err
	}
	if err := db.GetDb().Delete(item).Error; err != nil {
		return fmt.Errorf("error deleting equipment: %w", err)
	}
	return nil
}

func AddEquipmentImage(ctx context.Context, storage lib.ObjectStorage, ownerID uuid.UUID, id uint, file *FileUpload) (*models.Equipment, error) {
	item, err := ownedEquipment(db.GetDb(), ownerID, id)
	if err != nil {
		return nil, err
	}
	url, err := uploadImage(ctx, storage, ObjectKey("equipment", item.ID, file.Filename), file)
	if err != nil {
		return nil, err
	}
	images := append(slices.Clone(item.Images), url)
	if err := db.GetDb().Model(item).Update("images", images).Error; err != nil {
		discardUpload(storage, url)
		return nil, fmt.Errorf("error updating equipment images: %w", err)
	}
	item.Images = images
	return item, nil
}

func RemoveEquipmentImage(ctx context.Context, storage lib.ObjectStorage, ownerID uuid.UUID, id uint, url string) (*models.Equipment, error) {
	item, err := ownedEquipment(db.GetDb(), ownerID, id)
	if err != nil {
		return nil, err
	}
	images, err := removeImage(ctx, storage, item.Images, url)
	if err != nil {
		return nil, err
	}
	if err := db.GetDb().Model(item).Update("images", images).Error; err != nil {
		return nil, fmt.Errorf("error updating equipment images: %w", err)
	}
	item.Images = images
	return item, nil
}
