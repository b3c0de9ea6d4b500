package main

import (
	"errors"
	"hms/src/db"
	"hms/src/models"
	"hms/src/types"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var roomStatuses = []types.RoomStatus{
	types.ROOM_AVAILABLE,
	types.ROOM_OCCUPIED,
	types.ROOM_MAINTENANCE,
	types.ROOM_CLEANING,
	types.ROOM_OUT_OF_ORDER,
}

func validRoomStatus(s types.RoomStatus) bool {
	for _, known := range roomStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func roomHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/rooms", func(ctx *gin.Context) {
			var query struct {
				Status      string `form:"status"`
				FloorID     uint   `form:"floorId"`
				RoomClassID uint   `form:"roomClassId"`
				Active      *bool  `form:"active"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			database := db.GetDb()
			q := database.Model(&models.Room{})
			if query.Status != "" {
				q = q.Where("status = ?", query.Status)
			}
			if query.FloorID > 0 {
				q = q.Where("floor_id = ?", query.FloorID)
			}
			if query.RoomClassID > 0 {
				q = q.Where("room_class_id = ?", query.RoomClassID)
			}
			if query.Active != nil {
				q = q.Where("is_active = ?", *query.Active)
			}
			var rooms []models.Room
			if err := q.
				Preload("RoomClass").
				Preload("Floor").
				Order("room_number asc").
				Find(&rooms).
				Error; err != nil {
				log.Printf("Error listing rooms: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "something went wrong", "details": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "rooms": rooms, "count": len(rooms)})
		}).
		POST("/rooms", func(ctx *gin.Context) {
			var body types.CreateRoomRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			room := models.Room{
				RoomNumber:     body.RoomNumber,
				RoomClassID:    body.RoomClassID,
				FloorID:        body.FloorID,
				HasBalcony:     body.HasBalcony,
				HasSeaView:     body.HasSeaView,
				HasKitchenette: body.HasKitchenette,
				Status:         types.ROOM_AVAILABLE,
				IsActive:       true,
			}
			database := db.GetDb()
			if err := database.Transaction(func(tx *gorm.DB) error {
				var class models.RoomClass
				if err := tx.Where(&models.RoomClass{ID: body.RoomClassID}).First(&class).Error; err != nil {
					return err
				}
				var floor models.Floor
				if err := tx.Where(&models.Floor{ID: body.FloorID}).First(&floor).Error; err != nil {
					return err
				}
				if err := tx.Create(&room).Error; err != nil {
					return err
				}
				return nil
			}); err != nil {
				log.Printf("Error creating room %s: %s\n", body.RoomNumber, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"success": true, "room": room, "message": "Room created"})
		}).
		PATCH("/rooms/:id/status", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			var body struct {
				NewStatus types.RoomStatus `json:"new_status" binding:"required"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			if !validRoomStatus(body.NewStatus) {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid room status"})
				return
			}
			database := db.GetDb()
			if err := database.Transaction(func(tx *gorm.DB) error {
				var room models.Room
				if err := tx.Where(&models.Room{ID: params.ID}).First(&room).Error; err != nil {
					return err
				}
				if err := tx.
					Model(&models.Room{}).
					Where("id = ?", params.ID).
					Update("status", body.NewStatus).
					Error; err != nil {
					return err
				}
				return nil
			}); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "room not found"})
					return
				}
				log.Printf("Error updating room %d status: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Room status updated"})
		}).
		DELETE("/rooms/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			database := db.GetDb()
			if err := database.Transaction(func(tx *gorm.DB) error {
				var active int64
				if err := tx.
					Model(&models.Reservation{}).
					Where("room_id = ?", params.ID).
					Where("status IN ?", []types.ReservationStatus{types.RESERVATION_CONFIRMED, types.RESERVATION_CHECKED_IN}).
					Count(&active).
					Error; err != nil {
					return err
				}
				if active > 0 {
					return errors.New("room has active reservations")
				}
				if err := tx.Delete(&models.Room{}, params.ID).Error; err != nil {
					return err
				}
				return nil
			}); err != nil {
				log.Printf("Error deleting room %d: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Room deleted"})
		}).
		GET("/room-classes", func(ctx *gin.Context) {
			var classes []models.RoomClass
			database := db.GetDb()
			if err := database.Order("name asc").Find(&classes).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "something went wrong", "details": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "room_classes": classes})
		}).
		POST("/room-classes", func(ctx *gin.Context) {
			var body types.CreateRoomClassRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			class := models.RoomClass{
				Name:        body.Name,
				Code:        slug.Make(body.Name),
				BaseRate:    body.BaseRate,
				MaxAdults:   body.MaxAdults,
				MaxChildren: body.MaxChildren,
			}
			database := db.GetDb()
			if err := database.Create(&class).Error; err != nil {
				log.Printf("Error creating room class %s: %s\n", body.Name, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"success": true, "room_class": class, "message": "Room class created"})
		}).
		GET("/floors", func(ctx *gin.Context) {
			var floors []models.Floor
			database := db.GetDb()
			if err := database.Order("level asc").Find(&floors).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "something went wrong", "details": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "floors": floors})
		}).
		POST("/floors", func(ctx *gin.Context) {
			var body types.CreateFloorRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			floor := models.Floor{Name: body.Name, Level: body.Level}
			database := db.GetDb()
			if err := database.Create(&floor).Error; err != nil {
				log.Printf("Error creating floor %s: %s\n", body.Name, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"success": true, "floor": floor, "message": "Floor created"})
		})
	return g
}
