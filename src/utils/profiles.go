package utils

import (
	"camphub/src/db"
	"camphub/src/models"
	"camphub/src/types"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// EnsureProfile creates the profile row for an authenticated user the first
// time they show up.
func EnsureProfile(id uuid.UUID, email string) (*models.Profile, error) {
	profile := models.Profile{ID: id, Email: email, Role: "user"}
	err := db.GetDb().Clauses(clause.OnConflict{DoNothing: true}).Create(&profile).Error
	if err != nil {
		return nil, fmt.Errorf("error creating profile: %w", err)
	}
	return GetProfile(id)
}

func GetProfile(id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := db.GetDb().Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, notFoundOr(err, "profile")
	}
	return &profile, nil
}

func UpdateProfile(id uuid.UUID, params *types.UpdateProfileRequestBody) (*models.Profile, error) {
	fields := map[string]any{}
	if params.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*params.FullName)
	}
	if params.Phone != nil {
		fields["phone"] = strings.TrimSpace(*params.Phone)
	}
	if params.AvatarURL != nil {
		fields["avatar_url"] = *params.AvatarURL
	}
	if len(fields) > 0 {
		err := db.GetDb().Model(&models.Profile{}).Where("id = ?", id).Updates(fields).Error
		if err != nil {
			return nil, fmt.Errorf("error updating profile: %w", err)
		}
	}
	return GetProfile(id)
}
