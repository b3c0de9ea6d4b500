package boot

import (
	"hms/src/db"
	"hms/src/lib"
	"hms/src/models"
	"hms/src/types"
	"log"
	"time"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	database := db.GetDb()

	err := database.AutoMigrate(
		&models.Staff{},
		&models.Floor{},
		&models.RoomClass{},
		&models.Room{},
		&models.Customer{},
		&models.Reservation{},
		&models.Asset{},
		&models.RestaurantOrder{},
		&models.RestaurantOrderItem{},
		&models.HousekeepingTask{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	// Exclusion constraint closes the check-then-act window between the
	// overlap check and the insert for concurrent creates on the same room.
	if err := database.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		log.Printf("Error creating EXTENSION btree_gist: %s\n", err.Error())
	}
	if err := database.Exec(`
	ALTER TABLE reservations ADD CONSTRAINT reservations_no_overlap
	EXCLUDE USING gist (
		room_id WITH =,
		daterange(check_in_date::date, check_out_date::date) WITH &&
	) WHERE (status IN ('confirmed', 'checked_in'))
	`).Error; err != nil {
		log.Printf("Error creating CONSTRAINT reservations_no_overlap: %s\n", err.Error())
	}

	return database
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	id, err := lib.CreateDailyJob(NightAudit, 4, 0)
	if err != nil {
		log.Printf("Error scheduling night audit: %s\n", err.Error())
		return
	}
	log.Printf("Scheduled night audit job: %s\n", *id)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}

// NightAudit releases rooms stuck in cleaning with no open housekeeping
// task and reports overdue checked-in stays. It never transitions
// reservations itself.
func NightAudit() {
	database := db.GetDb()
	err := database.Transaction(func(tx *gorm.DB) error {
		var openRoomIDs []uint
		if err := tx.
			Model(&models.HousekeepingTask{}).
			Where("status IN ?", []types.HousekeepingStatus{types.HOUSEKEEPING_PENDING, types.HOUSEKEEPING_IN_PROGRESS}).
			Pluck("room_id", &openRoomIDs).
			Error; err != nil {
			return err
		}
		q := tx.
			Model(&models.Room{}).
			Where("status = ?", types.ROOM_CLEANING)
		if len(openRoomIDs) > 0 {
			q = q.Where("id NOT IN ?", openRoomIDs)
		}
		if err := q.Update("status", types.ROOM_AVAILABLE).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("[night-audit] Error releasing cleaned rooms: %s\n", err.Error())
	}

	var overdue []models.Reservation
	if err := database.
		Model(&models.Reservation{}).
		Where("status = ?", types.RESERVATION_CHECKED_IN).
		Where("check_out_date < ?", time.Now()).
		Select("id", "booking_number", "room_id", "check_out_date").
		Find(&overdue).
		Error; err != nil {
		log.Printf("[night-audit] Error listing overdue stays: %s\n", err.Error())
		return
	}
	for _, r := range overdue {
		log.Printf("[night-audit] Overdue stay %s (reservation %d, room %d), due out %s\n",
			r.BookingNumber, r.ID, r.RoomID, r.CheckOutDate.Format("2006-01-02"))
	}
}
