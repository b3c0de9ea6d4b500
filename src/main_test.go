package main

import (
	"encoding/json"
	"hms/src/db"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
	DB   *gorm.DB
	Mock *sqlmock.Sqlmock
}

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func (s *TestSuite) SetupSuite() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("staydate", staydate)
		v.RegisterValidation("gtdate", gtdate)
	}

	d, mock := NewMockDB()
	db.NewDB(d)
	s.DB = d
	s.Mock = &mock
}

func (s *TestSuite) TearDownSuite() {
	inner, err := s.DB.DB()
	if err != nil {
		log.Printf("Error accessing inner db instance: %s\n", err.Error())
		return
	}
	inner.Close()
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")
	defer os.Unsetenv("MAINTENANCE_MODE")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	apiv1Group(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 503, w.Code)
}

func (s *TestSuite) TestReservations() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	reservationHandlers(apiv1)

	s.Run("Should name every missing field on an empty payload", func() {
		w := httptest.NewRecorder()
		body, _ := json.Marshal(map[string]any{})
		req, _ := http.NewRequest("POST", "/api/v1/reservations", strings.NewReader(string(body)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		errMsg := gjson.Get(string(rbytes), "error").String()
		assert.Contains(s.T(), errMsg, "customer_id")
		assert.Contains(s.T(), errMsg, "check_in_date")
		assert.Contains(s.T(), errMsg, "payment_method")
	})

	s.Run("Should reject a check-out on or before the check-in", func() {
		w := httptest.NewRecorder()
		body, _ := json.Marshal(map[string]any{
			"customer_id":    1,
			"room_id":        1,
			"room_class_id":  1,
			"check_in_date":  "2026-06-10",
			"check_out_date": "2026-06-08",
			"payment_method": "cash",
			"base_room_rate": 100,
			"total_amount":   200,
		})
		req, _ := http.NewRequest("POST", "/api/v1/reservations", strings.NewReader(string(body)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should reject a malformed stay date", func() {
		w := httptest.NewRecorder()
		body, _ := json.Marshal(map[string]any{
			"customer_id":    1,
			"room_id":        1,
			"room_class_id":  1,
			"check_in_date":  "10/06/2026",
			"check_out_date": "2026-06-12",
			"payment_method": "cash",
			"base_room_rate": 100,
			"total_amount":   200,
		})
		req, _ := http.NewRequest("POST", "/api/v1/reservations", strings.NewReader(string(body)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should require an id on cancellation", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/v1/reservations", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		errMsg := gjson.Get(string(rbytes), "error").String()
		assert.Contains(s.T(), errMsg, "missing reservation id")
	})

	s.Run("Should require an id on update", func() {
		w := httptest.NewRecorder()
		body, _ := json.Marshal(map[string]any{"adults": 2})
		req, _ := http.NewRequest("PUT", "/api/v1/reservations", strings.NewReader(string(body)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestRooms() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	roomHandlers(apiv1)

	s.Run("Should reject an unknown room status", func() {
		w := httptest.NewRecorder()
		body, _ := json.Marshal(map[string]any{"new_status": "broken"})
		req, _ := http.NewRequest("PATCH", "/api/v1/rooms/1/status", strings.NewReader(string(body)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		errMsg := gjson.Get(string(rbytes), "error").String()
		assert.Contains(s.T(), errMsg, "invalid room status")
	})

	s.Run("Should require a room number on create", func() {
		w := httptest.NewRecorder()
		body, _ := json.Marshal(map[string]any{"room_class_id": 1, "floor_id": 1})
		req, _ := http.NewRequest("POST", "/api/v1/rooms", strings.NewReader(string(body)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestCustomers() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	customerHandlers(apiv1)

	s.Run("Should return 404 for an unknown customer", func() {
		(*s.Mock).
			ExpectQuery(`SELECT (.+) FROM "customers"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/customers/42", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 404, w.Code)
	})

	s.Run("Should reject an empty patch", func() {
		w := httptest.NewRecorder()
		body, _ := json.Marshal(map[string]any{})
		req, _ := http.NewRequest("PUT", "/api/v1/customers/1", strings.NewReader(string(body)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		errMsg := gjson.Get(string(rbytes), "error").String()
		assert.Contains(s.T(), errMsg, "no fields to update")
	})
}

func (s *TestSuite) TestRestaurantOrders() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	restaurantHandlers(apiv1)

	s.Run("Should require at least one item", func() {
		w := httptest.NewRecorder()
		body, _ := json.Marshal(map[string]any{"table_number": "T4", "items": []any{}})
		req, _ := http.NewRequest("POST", "/api/v1/restaurant/orders", strings.NewReader(string(body)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should reject an unknown order status", func() {
		w := httptest.NewRecorder()
		body, _ := json.Marshal(map[string]any{"new_status": "paused"})
		req, _ := http.NewRequest("PATCH", "/api/v1/restaurant/orders/1/status", strings.NewReader(string(body)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestHousekeeping() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	housekeepingHandlers(apiv1)

	s.Run("Should require a room on task creation", func() {
		w := httptest.NewRecorder()
		body, _ := json.Marshal(map[string]any{"notes": "deep clean"})
		req, _ := http.NewRequest("POST", "/api/v1/housekeeping/tasks", strings.NewReader(string(body)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func TestDayWindow(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*60*60)
	now := time.Date(2026, time.June, 5, 1, 30, 0, 0, loc)

	start, end := dayWindow(now)
	assert.Equal(t, time.Date(2026, time.June, 5, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2026, time.June, 6, 0, 0, 0, 0, loc), end)
	// 01:30 local is still the previous UTC day; the window must not be.
	assert.Equal(t, now.Day(), start.Day())
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
