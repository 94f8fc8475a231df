package utils

import (
	"camphub/src/config"
	"camphub/src/db"
	"camphub/src/models"
	"camphub/src/models/scopes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

var zoneNotePattern = regexp.MustCompile(`โซนที่จอง:\s*([^\r\n]+)`)

// BuildBookingNotes puts the zone line first, followed by the renter's notes.
func BuildBookingNotes(zoneName, notes string) string {
	line := config.ZONE_NOTE_PREFIX + strings.TrimSpace(zoneName)
	if notes = strings.TrimSpace(notes); notes != "" {
		return line + "\n" + notes
	}
	return line
}

func ExtractZoneName(notes string) (string, bool) {
	m := zoneNotePattern.FindStringSubmatch(notes)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	return name, name != ""
}

type AvailabilityResult struct {
	Available bool             `json:"available"`
	Message   string           `json:"message"`
	Conflicts []models.Booking `json:"conflicts"`
}

// CheckZoneAvailability looks for non-cancelled bookings of zoneName that
// overlap [checkIn, checkOut). Pass a transaction to have the check share it
// with the insert that follows.
func CheckZoneAvailability(tx *gorm.DB, campsiteID uint, zoneName string, checkIn, checkOut time.Time) (*AvailabilityResult, error) {
	checkIn, checkOut = TruncateDate(checkIn), TruncateDate(checkOut)
	if !checkOut.After(checkIn) {
		return nil, newActionError(ErrValidation, "check-out date must be after check-in date")
	}
	zoneName = strings.TrimSpace(zoneName)

	// loose pre-filter, the strict half-open test runs below
	var candidates []models.Booking
	err := tx.
		Model(&models.Booking{}).
		Scopes(scopes.WithCampsite(campsiteID), scopes.WithActiveStatus).
		Where("check_in_date <= ? AND check_out_date >= ?", checkOut, checkIn).
		Order("check_in_date asc").
		Find(&candidates).
		Error
	if err != nil {
		return nil, fmt.Errorf("error retrieving bookings for campsite [%d]: %w", campsiteID, err)
	}

	conflicts := make([]models.Booking, 0)
	for _, b := range candidates {
		name, ok := ExtractZoneName(b.Notes)
		if !ok || name != zoneName {
			continue
		}
		if RangesOverlap(b.CheckInDate, b.CheckOutDate, checkIn, checkOut) {
			conflicts = append(conflicts, b)
		}
	}
	if len(conflicts) > 0 {
		return &AvailabilityResult{
			Available: false,
			Message:   fmt.Sprintf("zone %q is already booked for the selected dates", zoneName),
			Conflicts: conflicts,
		}, nil
	}
	return &AvailabilityResult{
		Available: true,
		Message:   fmt.Sprintf("zone %q is available for the selected dates", zoneName),
		Conflicts: conflicts,
	}, nil
}

// GetZoneAvailability validates the campsite and zone before checking.
func GetZoneAvailability(campsiteID uint, zoneName string, checkIn, checkOut string) (*AvailabilityResult, error) {
	in, out, err := ParseDateRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	db := db.GetDb()
	if _, err := findZone(db, campsiteID, zoneName); err != nil {
		return nil, err
	}
	return CheckZoneAvailability(db, campsiteID, zoneName, in, out)
}

func findZone(tx *gorm.DB, campsiteID uint, zoneName string) (*models.Zone, error) {
	var zone models.Zone
	err := tx.
		Where(&models.Zone{CampsiteID: campsiteID, Name: strings.TrimSpace(zoneName)}).
		First(&zone).
		Error
	if err != nil {
		return nil, notFoundOr(err, "zone")
	}
	return &zone, nil
}
