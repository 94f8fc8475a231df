package utils

import (
	"camphub/src/db"
	"camphub/src/lib"
	"camphub/src/models"
	"camphub/src/types"
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testStorageBase = "https://storage.test/camphub"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	// every connection to :memory: is a new database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = gormDB.AutoMigrate(
		&models.Profile{},
		&models.Campsite{},
		&models.Zone{},
		&models.Booking{},
		&models.Payment{},
		&models.Notification{},
		&models.Equipment{},
		&models.Review{},
		&models.Comment{},
		&models.Favorite{},
	)
	require.NoError(t, err)
	db.NewDB(gormDB)
	return gormDB
}

type fixture struct {
	db       *gorm.DB
	owner    uuid.UUID
	renter   uuid.UUID
	stranger uuid.UUID
	campsite models.Campsite
	zone     models.Zone
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:       setupTestDB(t),
		owner:    uuid.New(),
		renter:   uuid.New(),
		stranger: uuid.New(),
	}
	for _, id := range []uuid.UUID{f.owner, f.renter, f.stranger} {
		require.NoError(t, f.db.Create(&models.Profile{ID: id, Email: id.String() + "@camphub.test"}).Error)
	}
	f.campsite = models.Campsite{
		OwnerID:       f.owner,
		Name:          "Pine Ridge",
		Slug:          "pine-ridge",
		Location:      "Chiang Mai",
		PricePerNight: decimal.NewFromInt(500),
		Images:        types.StringArray{},
		Status:        types.CAMPSITE_PUBLISHED,
	}
	require.NoError(t, f.db.Create(&f.campsite).Error)
	f.zone = models.Zone{CampsiteID: f.campsite.ID, Name: "Zone A", Capacity: 4, Images: types.StringArray{}}
	require.NoError(t, f.db.Create(&f.zone).Error)
	return f
}

func (f *fixture) book(t *testing.T, checkIn, checkOut string) *models.Booking {
	t.Helper()
	booking, err := CreateBooking(context.Background(), f.renter, &types.CreateBookingRequestBody{
		CampsiteID: f.campsite.ID,
		Zone:       f.zone.Name,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     2,
	})
	require.NoError(t, err)
	return booking
}

func (f *fixture) reload(t *testing.T, id uint) models.Booking {
	t.Helper()
	var booking models.Booking
	require.NoError(t, f.db.First(&booking, id).Error)
	return booking
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := ParseDate(value)
	require.NoError(t, err)
	return d
}

type memoryStorage struct {
	objects map[string][]byte
	deleted []string
}

var _ lib.ObjectStorage = (*memoryStorage)(nil)

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (m *memoryStorage) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	url := lib.PublicObjectURL(testStorageBase, key)
	m.objects[url] = b
	return url, nil
}

func (m *memoryStorage) Delete(ctx context.Context, objectURL string) error {
	if _, err := lib.ObjectKeyFromURL(testStorageBase, objectURL); err != nil {
		return err
	}
	delete(m.objects, objectURL)
	m.deleted = append(m.deleted, objectURL)
	return nil
}
