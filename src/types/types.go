package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type ReservationStatus string

const (
	RESERVATION_CONFIRMED   ReservationStatus = "confirmed"
	RESERVATION_CHECKED_IN  ReservationStatus = "checked_in"
	RESERVATION_CHECKED_OUT ReservationStatus = "checked_out"
	RESERVATION_CANCELLED   ReservationStatus = "cancelled"
)

type PaymentStatus string

const (
	PAYMENT_PENDING PaymentStatus = "pending"
	PAYMENT_PARTIAL PaymentStatus = "partial"
	PAYMENT_PAID    PaymentStatus = "paid"
)

type DiscountType string

const (
	DISCOUNT_NONE       DiscountType = "none"
	DISCOUNT_PERCENTAGE DiscountType = "percentage"
	DISCOUNT_FIXED      DiscountType = "fixed"
)

type RoomStatus string

const (
	ROOM_AVAILABLE    RoomStatus = "available"
	ROOM_OCCUPIED     RoomStatus = "occupied"
	ROOM_MAINTENANCE  RoomStatus = "maintenance"
	ROOM_CLEANING     RoomStatus = "cleaning"
	ROOM_OUT_OF_ORDER RoomStatus = "out_of_order"
)

type HousekeepingStatus string

const (
	HOUSEKEEPING_PENDING     HousekeepingStatus = "pending"
	HOUSEKEEPING_IN_PROGRESS HousekeepingStatus = "in_progress"
	HOUSEKEEPING_DONE        HousekeepingStatus = "done"
)

type OrderStatus string

const (
	ORDER_OPEN      OrderStatus = "open"
	ORDER_BILLED    OrderStatus = "billed"
	ORDER_SETTLED   OrderStatus = "settled"
	ORDER_CANCELLED OrderStatus = "cancelled"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// CreateReservationRequestBody carries the raw front-desk payload. Required
// fields are checked by MissingFields so the error can name every absent
// field at once instead of failing on the first binding tag.
type CreateReservationRequestBody struct {
	CustomerID    uint     `json:"customer_id"`
	RoomID        uint     `json:"room_id"`
	RoomClassID   uint     `json:"room_class_id"`
	CheckInDate   string   `json:"check_in_date" binding:"omitempty,staydate"`
	CheckOutDate  string   `json:"check_out_date" binding:"omitempty,staydate,gtdate=CheckInDate"`
	CheckInTime   string   `json:"check_in_time,omitempty"`
	CheckOutTime  string   `json:"check_out_time,omitempty"`
	Adults        int      `json:"adults,omitempty"`
	Children      int      `json:"children,omitempty"`
	Infants       int      `json:"infants,omitempty"`
	BaseRoomRate  *float64 `json:"base_room_rate"`
	ExtraCharges  float64  `json:"extra_charges,omitempty"`
	DiscountType  string   `json:"discount_type,omitempty"`
	DiscountValue float64  `json:"discount_value,omitempty"`
	ServiceCharge float64  `json:"service_charge,omitempty"`
	Tax           float64  `json:"tax,omitempty"`
	AdvanceAmount float64  `json:"advance_amount,omitempty"`
	PaymentMethod string   `json:"payment_method"`
	TotalAmount   *float64 `json:"total_amount"`
}

func (b *CreateReservationRequestBody) MissingFields() []string {
	var missing []string
	if b.CustomerID == 0 {
		missing = append(missing, "customer_id")
	}
	if b.RoomID == 0 {
		missing = append(missing, "room_id")
	}
	if b.RoomClassID == 0 {
		missing = append(missing, "room_class_id")
	}
	if b.CheckInDate == "" {
		missing = append(missing, "check_in_date")
	}
	if b.CheckOutDate == "" {
		missing = append(missing, "check_out_date")
	}
	if b.PaymentMethod == "" {
		missing = append(missing, "payment_method")
	}
	if b.TotalAmount == nil {
		missing = append(missing, "total_amount")
	}
	if b.BaseRoomRate == nil {
		missing = append(missing, "base_room_rate")
	}
	return missing
}

// CustomerPatch merges field-by-field: only non-nil fields overwrite the
// stored customer row.
type CustomerPatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	Country   *string `json:"country,omitempty"`
	IDType    *string `json:"id_type,omitempty"`
	IDNumber  *string `json:"id_number,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

func (p *CustomerPatch) Changes() map[string]any {
	changes := map[string]any{}
	if p.FirstName != nil {
		changes["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		changes["last_name"] = *p.LastName
	}
	if p.Email != nil {
		changes["email"] = *p.Email
	}
	if p.Phone != nil {
		changes["phone"] = *p.Phone
	}
	if p.Address != nil {
		changes["address"] = *p.Address
	}
	if p.City != nil {
		changes["city"] = *p.City
	}
	if p.Country != nil {
		changes["country"] = *p.Country
	}
	if p.IDType != nil {
		changes["id_type"] = *p.IDType
	}
	if p.IDNumber != nil {
		changes["id_number"] = *p.IDNumber
	}
	if p.Notes != nil {
		changes["notes"] = *p.Notes
	}
	return changes
}

// ReservationPatch keeps "field omitted" and "field cleared" apart: a nil
// pointer leaves the persisted value alone. The one exception is the
// discount: an absent or "none" discount type explicitly zeroes the
// discount fields rather than keeping them.
type ReservationPatch struct {
	RoomID        *uint          `json:"room_id,omitempty"`
	CheckInDate   *string        `json:"check_in_date,omitempty"`
	CheckOutDate  *string        `json:"check_out_date,omitempty"`
	CheckInTime   *string        `json:"check_in_time,omitempty"`
	CheckOutTime  *string        `json:"check_out_time,omitempty"`
	Adults        *int           `json:"adults,omitempty"`
	Children      *int           `json:"children,omitempty"`
	Infants       *int           `json:"infants,omitempty"`
	BaseRoomRate  *float64       `json:"base_room_rate,omitempty"`
	ExtraCharges  *float64       `json:"extra_charges,omitempty"`
	DiscountType  *string        `json:"discount_type,omitempty"`
	DiscountValue *float64       `json:"discount_value,omitempty"`
	ServiceCharge *float64       `json:"service_charge,omitempty"`
	Tax           *float64       `json:"tax,omitempty"`
	AdvanceAmount *float64       `json:"advance_amount,omitempty"`
	PaymentMethod *string        `json:"payment_method,omitempty"`
	Customer      *CustomerPatch `json:"customer,omitempty"`
}

type UpdateReservationRequestBody struct {
	ID uint `json:"id"`
	ReservationPatch
}

type CreateCustomerRequestBody struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
	IDType    string `json:"id_type,omitempty"`
	IDNumber  string `json:"id_number,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type CreateRoomRequestBody struct {
	RoomNumber     string `json:"room_number" binding:"required"`
	RoomClassID    uint   `json:"room_class_id" binding:"required"`
	FloorID        uint   `json:"floor_id" binding:"required"`
	HasBalcony     bool   `json:"has_balcony,omitempty"`
	HasSeaView     bool   `json:"has_sea_view,omitempty"`
	HasKitchenette bool   `json:"has_kitchenette,omitempty"`
}

type CreateRoomClassRequestBody struct {
	Name        string  `json:"name" binding:"required"`
	BaseRate    float64 `json:"base_rate" binding:"required"`
	MaxAdults   int     `json:"max_adults,omitempty"`
	MaxChildren int     `json:"max_children,omitempty"`
}

type CreateFloorRequestBody struct {
	Name  string `json:"name" binding:"required"`
	Level int    `json:"level"`
}

type CreateAssetRequestBody struct {
	Name          string   `json:"name" binding:"required"`
	Category      string   `json:"category" binding:"required"`
	Location      string   `json:"location,omitempty"`
	PurchaseDate  *string  `json:"purchase_date,omitempty"`
	PurchasePrice *float64 `json:"purchase_price,omitempty"`
	Condition     string   `json:"condition,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

type OrderItemInput struct {
	Name      string  `json:"name" binding:"required"`
	Qty       int     `json:"qty" binding:"required,min=1"`
	UnitPrice float64 `json:"unit_price" binding:"required"`
}

type CreateOrderRequestBody struct {
	TableNumber   string           `json:"table_number" binding:"required"`
	ReservationID *uint            `json:"reservation_id,omitempty"`
	ServiceCharge float64          `json:"service_charge,omitempty"`
	Tax           float64          `json:"tax,omitempty"`
	Items         []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

type CreateHousekeepingTaskRequestBody struct {
	RoomID       uint    `json:"room_id" binding:"required"`
	TaskType     string  `json:"task_type,omitempty"`
	AssignedTo   *uint   `json:"assigned_to,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	ScheduledFor *string `json:"scheduled_for,omitempty"`
}
