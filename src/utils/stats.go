package utils

import (
	"context"
	"encoding/json"
	"hms/src/db"
	"hms/src/lib"
	"hms/src/models"
	"hms/src/types"
	"log"
	"time"

	"gorm.io/gorm"
)

const statsCacheKey = "reservations:stats"

type ReservationStats struct {
	Total      int64   `json:"total"`
	Confirmed  int64   `json:"confirmed"`
	CheckedIn  int64   `json:"checked_in"`
	CheckedOut int64   `json:"checked_out"`
	Cancelled  int64   `json:"cancelled"`
	Revenue    float64 `json:"revenue"`
}

// GetReservationStats serves the list-page stats block, cached for a minute.
// A cache miss or an unreachable redis falls through to the database.
func GetReservationStats() (*ReservationStats, error) {
	rd := lib.GetRedisClient()
	if rd != nil {
		cached := rd.Get(context.Background(), statsCacheKey).Val()
		if cached != "" {
			var stats ReservationStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	var stats ReservationStats
	database := db.GetDb()
	err := database.Transaction(func(tx *gorm.DB) error {
		counts := map[types.ReservationStatus]*int64{
			types.RESERVATION_CONFIRMED:   &stats.Confirmed,
			types.RESERVATION_CHECKED_IN:  &stats.CheckedIn,
			types.RESERVATION_CHECKED_OUT: &stats.CheckedOut,
			types.RESERVATION_CANCELLED:   &stats.Cancelled,
		}
		for status, target := range counts {
			if err := tx.
				Model(&models.Reservation{}).
				Where("status = ?", status).
				Count(target).
				Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Reservation{}).Count(&stats.Total).Error; err != nil {
			return err
		}
		var revenue *float64
		if err := tx.
			Model(&models.Reservation{}).
			Where("status <> ?", types.RESERVATION_CANCELLED).
			Select("SUM(total_amount)").
			Scan(&revenue).
			Error; err != nil {
			return err
		}
		if revenue != nil {
			stats.Revenue = *revenue
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if rd != nil {
		if b, err := json.Marshal(&stats); err == nil {
			if err := rd.Set(context.Background(), statsCacheKey, string(b), time.Minute).Err(); err != nil {
				log.Printf("[redis] Error caching reservation stats: %s\n", err.Error())
			}
		}
	}
	return &stats, nil
}

func InvalidateReservationStats() {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	if err := rd.Del(context.Background(), statsCacheKey).Err(); err != nil {
		log.Printf("[redis] Error invalidating reservation stats: %s\n", err.Error())
	}
}
