package main

import (
	"hms/src/db"
	"hms/src/models"
	"hms/src/types"
	"hms/src/utils"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func assetHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/assets", func(ctx *gin.Context) {
			var query struct {
				Category string `form:"category"`
				Search   string `form:"search"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			database := db.GetDb()
			q := database.Model(&models.Asset{})
			if query.Category != "" {
				q = q.Where("category = ?", query.Category)
			}
			if query.Search != "" {
				pattern := "%" + query.Search + "%"
				q = q.Where("name ILIKE ? OR tag ILIKE ? OR location ILIKE ?", pattern, pattern, pattern)
			}
			var assets []models.Asset
			if err := q.Order("name asc").Find(&assets).Error; err != nil {
				log.Printf("Error listing assets: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "something went wrong", "details": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "assets": assets, "count": len(assets)})
		}).
		POST("/assets", func(ctx *gin.Context) {
			var body types.CreateAssetRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			asset := models.Asset{
				Name:     body.Name,
				Tag:      uuid.NewString(),
				Category: body.Category,
				Location: body.Location,
				Notes:    body.Notes,
			}
			if body.Condition != "" {
				asset.Condition = body.Condition
			}
			if body.PurchasePrice != nil {
				asset.PurchasePrice = *body.PurchasePrice
			}
			if body.PurchaseDate != nil {
				parsed, err := utils.ParseStayDate(*body.PurchaseDate)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
					return
				}
				asset.PurchaseDate = &parsed
			}
			database := db.GetDb()
			if err := database.Create(&asset).Error; err != nil {
				log.Printf("Error creating asset %s: %s\n", body.Name, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"success": true, "asset": asset, "message": "Asset created"})
		}).
		PUT("/assets/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			var body map[string]any
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			allowed := map[string]bool{"name": true, "category": true, "location": true, "condition": true, "notes": true, "purchase_price": true}
			changes := map[string]any{}
			for k, v := range body {
				if allowed[k] {
					changes[k] = v
				}
			}
			if len(changes) == 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "no fields to update"})
				return
			}
			database := db.GetDb()
			var asset models.Asset
			if err := database.Where(&models.Asset{ID: params.ID}).First(&asset).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "asset not found"})
				return
			}
			if err := database.
				Model(&models.Asset{}).
				Where("id = ?", params.ID).
				Updates(changes).
				Error; err != nil {
				log.Printf("Error updating asset %d: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Asset updated"})
		}).
		DELETE("/assets/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			database := db.GetDb()
			if err := database.Delete(&models.Asset{}, params.ID).Error; err != nil {
				log.Printf("Error deleting asset %d: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Asset deleted"})
		})
	return g
}
