package main

import (
	"errors"
	"fmt"
	"hms/src/db"
	"hms/src/models"
	"hms/src/types"
	"hms/src/utils"
	"log"
	"math"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// reservationErrResponse maps a failed reservation operation onto the wire
// contract: 404 for a missing row, 400 for every business-rule rejection.
func reservationErrResponse(ctx *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "reservation or referenced record not found", "details": err.Error()})
		return
	}
	ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
}

func reservationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/reservations", func(ctx *gin.Context) {
			var query struct {
				Page        int    `form:"page,default=1"`
				Limit       int    `form:"limit,default=20"`
				Status      string `form:"status"`
				RoomClassID uint   `form:"roomClassId"`
				DateFrom    string `form:"dateFrom"`
				DateTo      string `form:"dateTo"`
				Search      string `form:"search"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			if query.Page < 1 {
				query.Page = 1
			}
			if query.Limit < 1 || query.Limit > 100 {
				query.Limit = 20
			}

			database := db.GetDb()
			q := database.Model(&models.Reservation{})
			if query.Status != "" {
				q = q.Where("reservations.status = ?", query.Status)
			}
			if query.RoomClassID > 0 {
				q = q.Where("reservations.room_class_id = ?", query.RoomClassID)
			}
			if query.DateFrom != "" {
				from, err := utils.ParseStayDate(query.DateFrom)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
					return
				}
				q = q.Where("reservations.check_in_date >= ?", from)
			}
			if query.DateTo != "" {
				to, err := utils.ParseStayDate(query.DateTo)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
					return
				}
				q = q.Where("reservations.check_in_date <= ?", to)
			}
			if query.Search != "" {
				pattern := "%" + query.Search + "%"
				q = q.
					Joins("LEFT JOIN customers ON customers.id = reservations.customer_id").
					Where("reservations.booking_number ILIKE ? OR customers.first_name ILIKE ? OR customers.last_name ILIKE ?", pattern, pattern, pattern)
			}

			var total int64
			if err := q.Count(&total).Error; err != nil {
				log.Printf("Error counting reservations: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "something went wrong", "details": err.Error()})
				return
			}
			var reservations []models.Reservation
			if err := q.
				Preload("Customer").
				Preload("Room").
				Preload("RoomClass").
				Order("reservations.check_in_date desc").
				Offset((query.Page - 1) * query.Limit).
				Limit(query.Limit).
				Find(&reservations).
				Error; err != nil {
				log.Printf("Error listing reservations: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "something went wrong", "details": err.Error()})
				return
			}
			stats, err := utils.GetReservationStats()
			if err != nil {
				log.Printf("Error computing reservation stats: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "something went wrong", "details": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"success":      true,
				"reservations": reservations,
				"stats":        stats,
				"pagination": types.Pagination{
					Page:       query.Page,
					Limit:      query.Limit,
					Total:      total,
					TotalPages: int(math.Ceil(float64(total) / float64(query.Limit))),
				},
			})
		}).
		POST("/reservations", func(ctx *gin.Context) {
			var body types.CreateReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			if missing := body.MissingFields(); len(missing) > 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   fmt.Sprintf("missing required fields: %v", missing),
				})
				return
			}
			reservation, err := utils.CreateNewReservation(&body)
			if err != nil {
				log.Printf("Error creating reservation: %s\n", err.Error())
				reservationErrResponse(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{
				"success":     true,
				"reservation": reservation,
				"message":     fmt.Sprintf("Reservation %s created", reservation.BookingNumber),
			})
		}).
		PUT("/reservations", func(ctx *gin.Context) {
			var body types.UpdateReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			if body.ID == 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing reservation id"})
				return
			}
			reservation, err := utils.ApplyReservationUpdate(body.ID, &body.ReservationPatch)
			if err != nil {
				log.Printf("Error updating reservation %d: %s\n", body.ID, err.Error())
				reservationErrResponse(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"success":     true,
				"reservation": reservation,
				"message":     "Reservation updated",
			})
		}).
		DELETE("/reservations", func(ctx *gin.Context) {
			idParam := ctx.Query("id")
			if idParam == "" {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing reservation id"})
				return
			}
			atoi, err := strconv.Atoi(idParam)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			reason := ctx.Query("reason")
			reservation, err := utils.CancelReservation(uint(atoi), reason)
			if err != nil {
				log.Printf("Error cancelling reservation %d: %s\n", atoi, err.Error())
				reservationErrResponse(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"success":     true,
				"reservation": reservation,
				"message":     fmt.Sprintf("Reservation %s cancelled", reservation.BookingNumber),
			})
		}).
		GET("/reservations/:id/edit", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			database := db.GetDb()
			var reservation models.Reservation
			if err := database.
				Model(&models.Reservation{}).
				Where(&models.Reservation{ID: params.ID}).
				Preload("Customer").
				Preload("Room").
				Preload("RoomClass").
				First(&reservation).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "reservation not found", "details": err.Error()})
				return
			}
			if reservation.Status == types.RESERVATION_CHECKED_OUT || reservation.Status == types.RESERVATION_CANCELLED {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": utils.ErrImmutable.Error()})
				return
			}
			var availableRooms []models.Room
			if err := database.
				Model(&models.Room{}).
				Where("status = ? OR id = ?", types.ROOM_AVAILABLE, reservation.RoomID).
				Where("is_active = ?", true).
				Order("room_number asc").
				Find(&availableRooms).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "something went wrong", "details": err.Error()})
				return
			}
			var roomClasses []models.RoomClass
			if err := database.Order("name asc").Find(&roomClasses).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "something went wrong", "details": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"success":         true,
				"reservation":     reservation,
				"available_rooms": availableRooms,
				"room_classes":    roomClasses,
			})
		}).
		PUT("/reservations/:id/edit", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			var patch types.ReservationPatch
			if err := ctx.ShouldBindJSON(&patch); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			reservation, err := utils.ApplyReservationUpdate(params.ID, &patch)
			if err != nil {
				log.Printf("Error applying edit to reservation %d: %s\n", params.ID, err.Error())
				reservationErrResponse(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"success":     true,
				"reservation": reservation,
				"message":     "Reservation updated",
			})
		}).
		POST("/reservations/:id/checkin", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			reservation, err := utils.CheckInReservation(params.ID)
			if err != nil {
				log.Printf("Error checking in reservation %d: %s\n", params.ID, err.Error())
				reservationErrResponse(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"success":     true,
				"reservation": reservation,
				"message":     fmt.Sprintf("Guest checked in for %s", reservation.BookingNumber),
			})
		}).
		POST("/reservations/:id/checkout", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			withHousekeeping := os.Getenv("HOUSEKEEPING_DISABLED") != "true"
			reservation, err := utils.CheckOutReservation(params.ID, withHousekeeping)
			if err != nil {
				log.Printf("Error checking out reservation %d: %s\n", params.ID, err.Error())
				reservationErrResponse(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"success":     true,
				"reservation": reservation,
				"message":     fmt.Sprintf("Guest checked out for %s", reservation.BookingNumber),
			})
		})
	return g
}
