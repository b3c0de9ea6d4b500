package main

import (
	"errors"
	"hms/src/db"
	"hms/src/models"
	"hms/src/types"
	"log"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func customerHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/customers", func(ctx *gin.Context) {
			var query struct {
				Page   int    `form:"page,default=1"`
				Limit  int    `form:"limit,default=20"`
				Search string `form:"search"`
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
			q := database.Model(&models.Customer{})
			if query.Search != "" {
				pattern := "%" + query.Search + "%"
				q = q.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", pattern, pattern, pattern, pattern)
			}
			var total int64
			if err := q.Count(&total).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "something went wrong", "details": err.Error()})
				return
			}
			var customers []models.Customer
			if err := q.
				Order("last_name asc, first_name asc").
				Offset((query.Page - 1) * query.Limit).
				Limit(query.Limit).
				Find(&customers).
				Error; err != nil {
				log.Printf("Error listing customers: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "something went wrong", "details": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"success":   true,
				"customers": customers,
				"pagination": types.Pagination{
					Page:       query.Page,
					Limit:      query.Limit,
					Total:      total,
					TotalPages: int(math.Ceil(float64(total) / float64(query.Limit))),
				},
			})
		}).
		GET("/customers/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			var customer models.Customer
			database := db.GetDb()
			if err := database.
				Model(&models.Customer{}).
				Where(&models.Customer{ID: params.ID}).
				Preload("Reservations", func(db *gorm.DB) *gorm.DB {
					return db.Order("check_in_date desc").Limit(20)
				}).
				First(&customer).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "customer not found", "details": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "customer": customer})
		}).
		POST("/customers", func(ctx *gin.Context) {
			var body types.CreateCustomerRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			customer := models.Customer{
				FirstName: body.FirstName,
				LastName:  body.LastName,
				Email:     body.Email,
				Phone:     body.Phone,
				Address:   body.Address,
				City:      body.City,
				Country:   body.Country,
				IDType:    body.IDType,
				IDNumber:  body.IDNumber,
				Notes:     body.Notes,
			}
			database := db.GetDb()
			if err := database.Create(&customer).Error; err != nil {
				log.Printf("Error creating customer: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"success": true, "customer": customer, "message": "Customer created"})
		}).
		PUT("/customers/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			var patch types.CustomerPatch
			if err := ctx.ShouldBindJSON(&patch); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			changes := patch.Changes()
			if len(changes) == 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "no fields to update"})
				return
			}
			var customer models.Customer
			database := db.GetDb()
			if err := database.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.Customer{ID: params.ID}).First(&customer).Error; err != nil {
					return err
				}
				if err := tx.
					Model(&models.Customer{}).
					Where("id = ?", params.ID).
					Updates(changes).
					Error; err != nil {
					return err
				}
				if err := tx.Where(&models.Customer{ID: params.ID}).First(&customer).Error; err != nil {
					return err
				}
				return nil
			}); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "customer not found"})
					return
				}
				log.Printf("Error updating customer %d: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "customer": customer, "message": "Customer updated"})
		}).
		DELETE("/customers/:id", func(ctx *gin.Context) {
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
					Where("customer_id = ?", params.ID).
					Where("status IN ?", []types.ReservationStatus{types.RESERVATION_CONFIRMED, types.RESERVATION_CHECKED_IN}).
					Count(&active).
					Error; err != nil {
					return err
				}
				if active > 0 {
					return errors.New("customer has active reservations")
				}
				if err := tx.Delete(&models.Customer{}, params.ID).Error; err != nil {
					return err
				}
				return nil
			}); err != nil {
				log.Printf("Error deleting customer %d: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Customer deleted"})
		})
	return g
}
