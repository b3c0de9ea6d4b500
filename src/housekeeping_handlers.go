package main

import (
	"errors"
	"hms/src/db"
	"hms/src/models"
	"hms/src/types"
	"hms/src/utils"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func housekeepingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/housekeeping/tasks", func(ctx *gin.Context) {
			var query struct {
				Status string `form:"status"`
				RoomID uint   `form:"roomId"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			database := db.GetDb()
			q := database.Model(&models.HousekeepingTask{})
			if query.Status != "" {
				q = q.Where("status = ?", query.Status)
			}
			if query.RoomID > 0 {
				q = q.Where("room_id = ?", query.RoomID)
			}
			var tasks []models.HousekeepingTask
			if err := q.
				Preload("Room").
				Preload("Assignee").
				Order("created_at desc").
				Find(&tasks).
				Error; err != nil {
				log.Printf("Error listing housekeeping tasks: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "something went wrong", "details": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "tasks": tasks, "count": len(tasks)})
		}).
		POST("/housekeeping/tasks", func(ctx *gin.Context) {
			var body types.CreateHousekeepingTaskRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			task := models.HousekeepingTask{
				RoomID:     body.RoomID,
				Status:     types.HOUSEKEEPING_PENDING,
				AssignedTo: body.AssignedTo,
				Notes:      body.Notes,
			}
			if body.TaskType != "" {
				task.TaskType = body.TaskType
			}
			if body.ScheduledFor != nil {
				parsed, err := utils.ParseStayDate(*body.ScheduledFor)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
					return
				}
				task.ScheduledFor = &parsed
			}
			database := db.GetDb()
			if err := database.Transaction(func(tx *gorm.DB) error {
				var room models.Room
				if err := tx.Where(&models.Room{ID: body.RoomID}).First(&room).Error; err != nil {
					return err
				}
				if err := tx.Create(&task).Error; err != nil {
					return err
				}
				return nil
			}); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "room not found"})
					return
				}
				log.Printf("Error creating housekeeping task for room %d: %s\n", body.RoomID, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"success": true, "task": task, "message": "Housekeeping task created"})
		}).
		POST("/housekeeping/tasks/:id/start", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			database := db.GetDb()
			if err := database.Transaction(func(tx *gorm.DB) error {
				var task models.HousekeepingTask
				if err := tx.Where(&models.HousekeepingTask{ID: params.ID}).First(&task).Error; err != nil {
					return err
				}
				if task.Status != types.HOUSEKEEPING_PENDING {
					return errors.New("task is not pending")
				}
				if err := tx.
					Model(&models.HousekeepingTask{}).
					Where("id = ?", params.ID).
					Update("status", types.HOUSEKEEPING_IN_PROGRESS).
					Error; err != nil {
					return err
				}
				return nil
			}); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "task not found"})
					return
				}
				log.Printf("Error starting housekeeping task %d: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Task started"})
		}).
		POST("/housekeeping/tasks/:id/complete", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			var task models.HousekeepingTask
			database := db.GetDb()
			if err := database.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.HousekeepingTask{ID: params.ID}).First(&task).Error; err != nil {
					return err
				}
				if task.Status == types.HOUSEKEEPING_DONE {
					return errors.New("task is already done")
				}
				now := time.Now()
				if err := tx.
					Model(&models.HousekeepingTask{}).
					Where("id = ?", params.ID).
					Updates(map[string]any{
						"status":       types.HOUSEKEEPING_DONE,
						"completed_at": &now,
					}).
					Error; err != nil {
					return err
				}
				// Room is released only if housekeeping was what held it.
				if err := tx.
					Model(&models.Room{}).
					Where("id = ?", task.RoomID).
					Where("status = ?", types.ROOM_CLEANING).
					Update("status", types.ROOM_AVAILABLE).
					Error; err != nil {
					return err
				}
				return nil
			}); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "task not found"})
					return
				}
				log.Printf("Error completing housekeeping task %d: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "task": task, "message": "Task completed"})
		})
	return g
}
