package main

import (
	"errors"
	"fmt"
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

var orderStatuses = []types.OrderStatus{
	types.ORDER_OPEN,
	types.ORDER_BILLED,
	types.ORDER_SETTLED,
	types.ORDER_CANCELLED,
}

func validOrderStatus(s types.OrderStatus) bool {
	for _, known := range orderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func restaurantHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/restaurant/orders", func(ctx *gin.Context) {
			var query struct {
				Status      string `form:"status"`
				TableNumber string `form:"tableNumber"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			database := db.GetDb()
			q := database.Model(&models.RestaurantOrder{})
			if query.Status != "" {
				q = q.Where("status = ?", query.Status)
			}
			if query.TableNumber != "" {
				q = q.Where("table_number = ?", query.TableNumber)
			}
			var orders []models.RestaurantOrder
			if err := q.
				Preload("Items").
				Order("created_at desc").
				Find(&orders).
				Error; err != nil {
				log.Printf("Error listing restaurant orders: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "something went wrong", "details": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "orders": orders, "count": len(orders)})
		}).
		GET("/restaurant/orders/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			var order models.RestaurantOrder
			database := db.GetDb()
			if err := database.
				Model(&models.RestaurantOrder{}).
				Where(&models.RestaurantOrder{ID: params.ID}).
				Preload("Items").
				Preload("Reservation").
				First(&order).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found", "details": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "order": order})
		}).
		POST("/restaurant/orders", func(ctx *gin.Context) {
			var body types.CreateOrderRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			if body.ServiceCharge < 0 || body.Tax < 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "service charge and tax must not be negative"})
				return
			}
			var subtotal float64
			items := make([]*models.RestaurantOrderItem, 0, len(body.Items))
			for _, in := range body.Items {
				if in.UnitPrice < 0 {
					ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": fmt.Sprintf("unit price for %s must not be negative", in.Name)})
					return
				}
				lineTotal := in.UnitPrice * float64(in.Qty)
				subtotal += lineTotal
				items = append(items, &models.RestaurantOrderItem{
					Name:      in.Name,
					Qty:       in.Qty,
					UnitPrice: in.UnitPrice,
					LineTotal: lineTotal,
				})
			}
			order := models.RestaurantOrder{
				TableNumber:   body.TableNumber,
				Status:        types.ORDER_OPEN,
				Subtotal:      subtotal,
				ServiceCharge: body.ServiceCharge,
				Tax:           body.Tax,
				TotalAmount:   subtotal + body.ServiceCharge + body.Tax,
				Items:         items,
			}
			database := db.GetDb()
			if err := database.Transaction(func(tx *gorm.DB) error {
				if body.ReservationID != nil {
					var reservation models.Reservation
					if err := tx.Where(&models.Reservation{ID: *body.ReservationID}).First(&reservation).Error; err != nil {
						return err
					}
					if reservation.Status != types.RESERVATION_CHECKED_IN {
						return errors.New("room charge requires a checked-in reservation")
					}
					order.ReservationID = body.ReservationID
				}
				order.OrderNumber = utils.NextOrderNumber(tx, time.Now())
				if err := tx.Create(&order).Error; err != nil {
					return err
				}
				return nil
			}); err != nil {
				log.Printf("Error creating restaurant order: %s\n", err.Error())
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "reservation not found", "details": err.Error()})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{
				"success": true,
				"order":   order,
				"message": fmt.Sprintf("Order %s created", order.OrderNumber),
			})
		}).
		PATCH("/restaurant/orders/:id/status", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			var body struct {
				NewStatus types.OrderStatus `json:"new_status" binding:"required"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			if !validOrderStatus(body.NewStatus) {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid order status"})
				return
			}
			database := db.GetDb()
			if err := database.Transaction(func(tx *gorm.DB) error {
				var order models.RestaurantOrder
				if err := tx.Where(&models.RestaurantOrder{ID: params.ID}).First(&order).Error; err != nil {
					return err
				}
				if order.Status == types.ORDER_SETTLED || order.Status == types.ORDER_CANCELLED {
					return errors.New("order is already closed")
				}
				if err := tx.
					Model(&models.RestaurantOrder{}).
					Where("id = ?", params.ID).
					Update("status", body.NewStatus).
					Error; err != nil {
					return err
				}
				return nil
			}); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
					return
				}
				log.Printf("Error updating order %d status: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Order status updated"})
		})
	return g
}
