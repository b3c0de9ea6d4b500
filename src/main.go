package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hms/src/boot"
	"hms/src/db"
	"hms/src/lib"
	"hms/src/middlewares"
	"hms/src/models"
	"hms/src/types"
	"hms/src/utils"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"regexp"
	"strconv"
	"time"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api/v1"
)

var staydate validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := utils.ParseStayDate(date)
	return err == nil
}

var gtdate validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := utils.ParseStayDate(date)
	if err != nil {
		return false
	}
	field := fl.Parent().FieldByName(fl.Param())
	fieldValue, ok := field.Interface().(string)
	if !ok {
		return false
	}
	fielddatetime, err := utils.ParseStayDate(fieldValue)
	if err != nil {
		// The other field carries its own format check.
		return true
	}
	return datetime.After(fielddatetime)
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		mm := os.Getenv("MAINTENANCE_MODE")
		atoi, err := strconv.ParseBool(mm)
		if err == nil && atoi {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, err.Error())
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

type DashboardSummary struct {
	Rooms         map[string]int64        `json:"rooms"`
	OccupancyPct  float64                 `json:"occupancy_pct"`
	Reservations  *utils.ReservationStats `json:"reservations"`
	ArrivalsDue   int64                   `json:"arrivals_due"`
	DeparturesDue int64                   `json:"departures_due"`
}

func dashboardSummary() (*DashboardSummary, error) {
	const cacheKey = "dashboard:summary"
	rd := lib.GetRedisClient()
	if rd != nil {
		if val := rd.Get(context.Background(), cacheKey).Val(); val != "" {
			var cached DashboardSummary
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	database := db.GetDb()
	summary := DashboardSummary{Rooms: map[string]int64{}}
	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := database.
		Model(&models.Room{}).
		Select("status, count(*) as count").
		Where("is_active = ?", true).
		Group("status").
		Find(&counts).
		Error; err != nil {
		return nil, err
	}
	var total int64
	for _, c := range counts {
		summary.Rooms[c.Status] = c.Count
		total += c.Count
	}
	if total > 0 {
		summary.OccupancyPct = float64(summary.Rooms[string(types.ROOM_OCCUPIED)]) / float64(total) * 100
	}

	stats, err := utils.GetReservationStats()
	if err != nil {
		return nil, err
	}
	summary.Reservations = stats

	dayStart, dayEnd := dayWindow(time.Now())
	if err := database.
		Model(&models.Reservation{}).
		Where("status = ?", types.RESERVATION_CONFIRMED).
		Where("check_in_date >= ? AND check_in_date < ?", dayStart, dayEnd).
		Count(&summary.ArrivalsDue).
		Error; err != nil {
		return nil, err
	}
	if err := database.
		Model(&models.Reservation{}).
		Where("status = ?", types.RESERVATION_CHECKED_IN).
		Where("check_out_date >= ? AND check_out_date < ?", dayStart, dayEnd).
		Count(&summary.DeparturesDue).
		Error; err != nil {
		return nil, err
	}

	if rd != nil {
		if b, err := json.Marshal(&summary); err == nil {
			rd.SetEx(context.Background(), cacheKey, string(b), time.Minute)
		}
	}
	return &summary, nil
}

// dayWindow bounds the calendar day containing now, in now's own location,
// not the UTC epoch day.
func dayWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	boot.InitDb()
	boot.InitScheduler()
	defer boot.StopScheduler()

	router := setupRouter()

	appHost := os.Getenv("APP_HOST")
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOriginFunc = func(origin string) bool {
			match, _ := regexp.MatchString(appHost, origin)
			return match
		}
		cc.AllowCredentials = true
		cc.AllowAllOrigins = false
		router.Use(cors.New(cc))
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("staydate", staydate)
		v.RegisterValidation("gtdate", gtdate)
	}

	router = maintenanceModeMiddleware(router)

	authorized := apiv1Group(router)
	authorized.Use(middlewares.AuthMiddleware)
	{
		authorized = reservationHandlers(authorized)
		authorized = roomHandlers(authorized)
		authorized = customerHandlers(authorized)
		authorized = assetHandlers(authorized)
		authorized = restaurantHandlers(authorized)
		authorized = housekeepingHandlers(authorized)

		authorized.
			GET("/dashboard/summary", func(ctx *gin.Context) {
				summary, err := dashboardSummary()
				if err != nil {
					log.Printf("Error building dashboard summary: %s\n", err.Error())
					ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "something went wrong", "details": err.Error()})
					return
				}
				ctx.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
			})
	}

	if os.Getenv("TLS_ENABLE") == "true" {
		cwd, _ := os.Getwd()
		certpath := path.Join(cwd, "certificates", "localhost.pem")
		keypath := path.Join(cwd, "certificates", "localhost-key.pem")
		if err := router.RunTLS(fmt.Sprintf(":%s", serverPort()), certpath, keypath); err != nil {
			log.Fatalf("Failed to start server: %s", err)
		}
	}
	if err := router.Run(fmt.Sprintf(":%s", serverPort())); err != nil {
		log.Fatalf("Failed to start server: %s", err)
	}
}

func serverPort() string {
	if port := os.Getenv("API_PORT"); port != "" {
		return port
	}
	return "9090"
}
