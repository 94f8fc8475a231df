package boot

import (
	"camphub/src/config"
	"camphub/src/db"
	"camphub/src/lib"
	"camphub/src/lib/aws"
	"camphub/src/models"
	"camphub/src/utils"
	"log"
	"time"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
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
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitStorage returns nil when no bucket is configured; upload routes then
// answer with an error.
func InitStorage() lib.ObjectStorage {
	cfg := config.GetStorageConfig()
	if cfg.Bucket == "" {
		log.Println("[Storage] S3_ASSETS_BUCKET is not set, uploads are disabled")
		return nil
	}
	storage, err := aws.NewS3ObjectStorage(cfg)
	if err != nil {
		log.Printf("[Storage] could not initialize object storage: %s\n", err.Error())
		return nil
	}
	return storage
}

func completeElapsedBookings() {
	if _, err := utils.CompleteElapsedBookings(time.Now()); err != nil {
		log.Printf("[Completion] run failed: %s\n", err.Error())
	}
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	if _, err := lib.CreateCronJob("CompleteElapsedBookings", completeElapsedBookings, config.COMPLETION_INTERVAL); err != nil {
		log.Printf("Error scheduling job: %s\n", err.Error())
		return
	}
	sched.Start()
	log.Println("Jobs in queue:", len(sched.Jobs()))
}
