package utils

import (
	"errors"
	"fmt"
	"hms/src/config"
	"hms/src/db"
	"hms/src/models"
	"hms/src/types"
	"log"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrInvalidDateRange = errors.New("check-in date must be before check-out date")
	ErrRoomUnavailable  = errors.New("room is not available for the selected dates")
	ErrImmutable        = errors.New("reservation can no longer be modified")
	ErrAlreadyCancelled = errors.New("reservation is already cancelled")
)

// ParseStayDate accepts the date-only wire format and full RFC 3339
// timestamps, keeping only the calendar day.
func ParseStayDate(s string) (time.Time, error) {
	if t, err := time.Parse(config.DATE_PARSE_FORMAT, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func BookingNumberPrefix(now time.Time) string {
	return "BK" + now.Format("060102")
}

// FallbackBookingNumber is the degraded path: unique enough to never block
// a creation, but out of sequence. Callers log when they take it.
func FallbackBookingNumber(now time.Time) string {
	return fmt.Sprintf("%s%06d", BookingNumberPrefix(now), now.UnixMilli()%1_000_000)
}

// ParseBookingSequence extracts the numeric suffix of a daily booking
// number, e.g. BK250615007 -> 7.
func ParseBookingSequence(number, prefix string) (int, error) {
	if !strings.HasPrefix(number, prefix) {
		return 0, fmt.Errorf("booking number %q does not carry prefix %q", number, prefix)
	}
	return strconv.Atoi(number[len(prefix):])
}

func nextDailyNumber(tx *gorm.DB, table, column, prefix string) (string, error) {
	var numbers []string
	// Longer suffixes sort first so BK2506151000 beats BK250615999; a plain
	// lexicographic max would wrap back to a duplicate past sequence 999.
	err := tx.
		Table(table).
		Where(column+" LIKE ?", prefix+"%").
		Order("length(" + column + ") desc, " + column + " desc").
		Limit(1).
		Pluck(column, &numbers).
		Error
	if err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return fmt.Sprintf("%s%03d", prefix, 1), nil
	}
	seq, err := ParseBookingSequence(numbers[0], prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", prefix, seq+1), nil
}

// NextBookingNumber returns the next day-sequential booking identifier.
// When the sequence lookup fails it degrades to a timestamp suffix so that
// reservation creation never blocks on the generator.
func NextBookingNumber(tx *gorm.DB, now time.Time) string {
	number, err := nextDailyNumber(tx, "reservations", "booking_number", BookingNumberPrefix(now))
	if err != nil {
		log.Printf("[booking-number] degraded: sequencing lost, falling back to timestamp suffix: %s\n", err.Error())
		return FallbackBookingNumber(now)
	}
	return number
}

func NextOrderNumber(tx *gorm.DB, now time.Time) string {
	prefix := "RO" + now.Format("060102")
	number, err := nextDailyNumber(tx, "restaurant_orders", "order_number", prefix)
	if err != nil {
		log.Printf("[order-number] degraded: sequencing lost, falling back to timestamp suffix: %s\n", err.Error())
		return fmt.Sprintf("%s%06d", prefix, now.UnixMilli()%1_000_000)
	}
	return number
}

// RoomHasOverlap reports whether any confirmed or checked-in reservation
// for the room intersects the half-open [checkIn, checkOut) interval.
func RoomHasOverlap(tx *gorm.DB, roomID uint, checkIn, checkOut time.Time, excludeID uint) (bool, error) {
	q := tx.
		Model(&models.Reservation{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", []types.ReservationStatus{types.RESERVATION_CONFIRMED, types.RESERVATION_CHECKED_IN}).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateNewReservation validates the payload, prices the stay, assigns a
// booking number and inserts the row. The availability check, the insert and
// the room status flip all happen in one transaction.
func CreateNewReservation(body *types.CreateReservationRequestBody) (*models.Reservation, error) {
	checkIn, err := ParseStayDate(body.CheckInDate)
	if err != nil {
		return nil, err
	}
	checkOut, err := ParseStayDate(body.CheckOutDate)
	if err != nil {
		return nil, err
	}
	if !checkIn.Before(checkOut) {
		return nil, ErrInvalidDateRange
	}

	nights := NightsBetween(checkIn, checkOut)
	discountType := types.DiscountType(body.DiscountType)
	if discountType == "" {
		discountType = types.DISCOUNT_NONE
	}
	pricing, err := ComputePricing(PricingInput{
		BaseRoomRate:   *body.BaseRoomRate,
		NumberOfNights: nights,
		ExtraCharges:   body.ExtraCharges,
		DiscountType:   discountType,
		DiscountValue:  body.DiscountValue,
		ServiceCharge:  body.ServiceCharge,
		Tax:            body.Tax,
		AdvanceAmount:  body.AdvanceAmount,
	})
	if err != nil {
		return nil, err
	}

	defaults := config.DefaultStay()
	checkInTime := body.CheckInTime
	if checkInTime == "" {
		checkInTime = defaults.CheckInTime
	}
	checkOutTime := body.CheckOutTime
	if checkOutTime == "" {
		checkOutTime = defaults.CheckOutTime
	}
	adults := body.Adults
	if adults < 1 {
		adults = 1
	}

	reservation := models.Reservation{
		CustomerID:      body.CustomerID,
		RoomID:          body.RoomID,
		RoomClassID:     body.RoomClassID,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		CheckInTime:     checkInTime,
		CheckOutTime:    checkOutTime,
		Adults:          adults,
		Children:        body.Children,
		Infants:         body.Infants,
		NumberOfNights:  nights,
		BaseRoomRate:    *body.BaseRoomRate,
		TotalRoomCharge: pricing.TotalRoomCharge,
		ExtraCharges:    body.ExtraCharges,
		DiscountType:    discountType,
		DiscountValue:   body.DiscountValue,
		DiscountAmount:  pricing.DiscountAmount,
		ServiceCharge:   body.ServiceCharge,
		Tax:             body.Tax,
		TotalAmount:     pricing.TotalAmount,
		AdvanceAmount:   body.AdvanceAmount,
		BalanceAmount:   pricing.BalanceAmount,
		PaymentStatus:   pricing.PaymentStatus,
		PaymentMethod:   body.PaymentMethod,
		Status:          types.RESERVATION_CONFIRMED,
	}

	database := db.GetDb()
	err = database.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Where(&models.Room{ID: body.RoomID}).First(&room).Error; err != nil {
			return err
		}
		overlap, err := RoomHasOverlap(tx, body.RoomID, checkIn, checkOut, 0)
		if err != nil {
			return err
		}
		if overlap {
			return ErrRoomUnavailable
		}
		reservation.BookingNumber = NextBookingNumber(tx, time.Now())
		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}
		if !checkIn.After(time.Now()) {
			if err := tx.
				Model(&models.Room{}).
				Where("id = ?", room.ID).
				Update("status", types.ROOM_OCCUPIED).
				Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	InvalidateReservationStats()
	return &reservation, nil
}

// ApplyReservationUpdate merges a patch into a persisted reservation.
// Omitted fields keep their stored values; the discount is the exception
// and is cleared whenever the patch omits it or names "none".
func ApplyReservationUpdate(id uint, patch *types.ReservationPatch) (*models.Reservation, error) {
	var reservation models.Reservation
	database := db.GetDb()
	err := database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&models.Reservation{ID: id}).First(&reservation).Error; err != nil {
			return err
		}
		if reservation.Status == types.RESERVATION_CHECKED_OUT || reservation.Status == types.RESERVATION_CANCELLED {
			return ErrImmutable
		}

		checkIn := reservation.CheckInDate
		checkOut := reservation.CheckOutDate
		if patch.CheckInDate != nil {
			parsed, err := ParseStayDate(*patch.CheckInDate)
			if err != nil {
				return err
			}
			checkIn = parsed
		}
		if patch.CheckOutDate != nil {
			parsed, err := ParseStayDate(*patch.CheckOutDate)
			if err != nil {
				return err
			}
			checkOut = parsed
		}
		if !checkIn.Before(checkOut) {
			return ErrInvalidDateRange
		}
		reservation.CheckInDate = checkIn
		reservation.CheckOutDate = checkOut
		if patch.CheckInDate != nil && patch.CheckOutDate != nil {
			reservation.NumberOfNights = NightsBetween(checkIn, checkOut)
		}

		if patch.CheckInTime != nil {
			reservation.CheckInTime = *patch.CheckInTime
		}
		if patch.CheckOutTime != nil {
			reservation.CheckOutTime = *patch.CheckOutTime
		}
		if patch.Adults != nil {
			reservation.Adults = *patch.Adults
		}
		if patch.Children != nil {
			reservation.Children = *patch.Children
		}
		if patch.Infants != nil {
			reservation.Infants = *patch.Infants
		}
		if patch.BaseRoomRate != nil {
			reservation.BaseRoomRate = *patch.BaseRoomRate
		}
		if patch.ExtraCharges != nil {
			reservation.ExtraCharges = *patch.ExtraCharges
		}
		if patch.ServiceCharge != nil {
			reservation.ServiceCharge = *patch.ServiceCharge
		}
		if patch.Tax != nil {
			reservation.Tax = *patch.Tax
		}
		if patch.AdvanceAmount != nil {
			reservation.AdvanceAmount = *patch.AdvanceAmount
		}
		if patch.PaymentMethod != nil {
			reservation.PaymentMethod = *patch.PaymentMethod
		}

		// Clear-discount rule: an absent or "none" discount type zeroes the
		// discount fields, it does not keep the previous discount.
		if patch.DiscountType == nil || types.DiscountType(*patch.DiscountType) == types.DISCOUNT_NONE {
			reservation.DiscountType = types.DISCOUNT_NONE
			reservation.DiscountValue = 0
			reservation.DiscountAmount = 0
		} else {
			reservation.DiscountType = types.DiscountType(*patch.DiscountType)
			if patch.DiscountValue != nil {
				reservation.DiscountValue = *patch.DiscountValue
			}
		}

		pricing, err := ComputePricing(PricingInput{
			BaseRoomRate:   reservation.BaseRoomRate,
			NumberOfNights: reservation.NumberOfNights,
			ExtraCharges:   reservation.ExtraCharges,
			DiscountType:   reservation.DiscountType,
			DiscountValue:  reservation.DiscountValue,
			ServiceCharge:  reservation.ServiceCharge,
			Tax:            reservation.Tax,
			AdvanceAmount:  reservation.AdvanceAmount,
		})
		if err != nil {
			return err
		}
		reservation.TotalRoomCharge = pricing.TotalRoomCharge
		reservation.DiscountAmount = pricing.DiscountAmount
		reservation.TotalAmount = pricing.TotalAmount
		reservation.BalanceAmount = pricing.BalanceAmount
		reservation.PaymentStatus = pricing.PaymentStatus

		if patch.RoomID != nil && *patch.RoomID != reservation.RoomID {
			var newRoom models.Room
			if err := tx.Where(&models.Room{ID: *patch.RoomID}).First(&newRoom).Error; err != nil {
				return err
			}
			if newRoom.Status != types.ROOM_AVAILABLE {
				return ErrRoomUnavailable
			}
			oldRoomID := reservation.RoomID
			if reservation.Status == types.RESERVATION_CONFIRMED {
				if err := tx.
					Model(&models.Room{}).
					Where("id = ?", oldRoomID).
					Update("status", types.ROOM_AVAILABLE).
					Error; err != nil {
					return err
				}
			}
			newStatus := types.ROOM_AVAILABLE
			if reservation.Status == types.RESERVATION_CHECKED_IN {
				newStatus = types.ROOM_OCCUPIED
			}
			if err := tx.
				Model(&models.Room{}).
				Where("id = ?", newRoom.ID).
				Update("status", newStatus).
				Error; err != nil {
				return err
			}
			reservation.RoomID = *patch.RoomID
		}

		if patch.Customer != nil {
			changes := patch.Customer.Changes()
			if len(changes) > 0 {
				if err := tx.
					Model(&models.Customer{}).
					Where("id = ?", reservation.CustomerID).
					Updates(changes).
					Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Save(&reservation).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	InvalidateReservationStats()
	return &reservation, nil
}

// CancelReservation is a soft status change: the row is never deleted.
// Freeing the room happens in the same transaction.
func CancelReservation(id uint, reason string) (*models.Reservation, error) {
	var reservation models.Reservation
	database := db.GetDb()
	err := database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&models.Reservation{ID: id}).First(&reservation).Error; err != nil {
			return err
		}
		if reservation.Status == types.RESERVATION_CANCELLED {
			return ErrAlreadyCancelled
		}
		if reservation.Status == types.RESERVATION_CHECKED_OUT {
			return ErrImmutable
		}
		now := time.Now()
		reservation.Status = types.RESERVATION_CANCELLED
		reservation.CancellationReason = &reason
		reservation.CancelledAt = &now
		if err := tx.Save(&reservation).Error; err != nil {
			return err
		}
		if err := tx.
			Model(&models.Room{}).
			Where("id = ?", reservation.RoomID).
			Update("status", types.ROOM_AVAILABLE).
			Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	InvalidateReservationStats()
	return &reservation, nil
}

// CheckInReservation moves a confirmed stay to checked_in and occupies the
// room.
func CheckInReservation(id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	database := db.GetDb()
	err := database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&models.Reservation{ID: id}).First(&reservation).Error; err != nil {
			return err
		}
		if reservation.Status != types.RESERVATION_CONFIRMED {
			return ErrImmutable
		}
		reservation.Status = types.RESERVATION_CHECKED_IN
		if err := tx.Save(&reservation).Error; err != nil {
			return err
		}
		if err := tx.
			Model(&models.Room{}).
			Where("id = ?", reservation.RoomID).
			Update("status", types.ROOM_OCCUPIED).
			Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	InvalidateReservationStats()
	return &reservation, nil
}

// CheckOutReservation closes the stay. The room goes to cleaning and a
// housekeeping task is queued; when withHousekeeping is false the room is
// released straight to available.
func CheckOutReservation(id uint, withHousekeeping bool) (*models.Reservation, error) {
	var reservation models.Reservation
	database := db.GetDb()
	err := database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&models.Reservation{ID: id}).First(&reservation).Error; err != nil {
			return err
		}
		if reservation.Status != types.RESERVATION_CHECKED_IN {
			return ErrImmutable
		}
		reservation.Status = types.RESERVATION_CHECKED_OUT
		if err := tx.Save(&reservation).Error; err != nil {
			return err
		}
		roomStatus := types.ROOM_AVAILABLE
		if withHousekeeping {
			roomStatus = types.ROOM_CLEANING
			task := models.HousekeepingTask{
				RoomID:   reservation.RoomID,
				TaskType: "cleaning",
				Status:   types.HOUSEKEEPING_PENDING,
				Notes:    fmt.Sprintf("Post-checkout cleaning for booking %s", reservation.BookingNumber),
			}
			if err := tx.Create(&task).Error; err != nil {
				return err
			}
		}
		if err := tx.
			Model(&models.Room{}).
			Where("id = ?", reservation.RoomID).
			Update("status", roomStatus).
			Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	InvalidateReservationStats()
	return &reservation, nil
}
