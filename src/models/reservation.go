package models

import (
	"hms/src/types"
	"time"
)

type Reservation struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	BookingNumber string    `gorm:"uniqueIndex;size:32" json:"booking_number,omitempty"`
	CustomerID    uint      `json:"customer_id,omitempty"`
	RoomID        uint      `gorm:"index" json:"room_id,omitempty"`
	RoomClassID   uint      `json:"room_class_id,omitempty"`
	CheckInDate   time.Time `json:"check_in_date,omitempty"`
	CheckOutDate  time.Time `json:"check_out_date,omitempty"`
	CheckInTime   string    `gorm:"size:8" json:"check_in_time,omitempty"`
	CheckOutTime  string    `gorm:"size:8" json:"check_out_time,omitempty"`
	Adults        int       `gorm:"default:1" json:"adults"`
	Children      int       `gorm:"default:0" json:"children"`
	Infants       int       `gorm:"default:0" json:"infants"`

	NumberOfNights  int                     `json:"number_of_nights,omitempty"`
	BaseRoomRate    float64                 `json:"base_room_rate,omitempty"`
	TotalRoomCharge float64                 `json:"total_room_charge,omitempty"`
	ExtraCharges    float64                 `json:"extra_charges,omitempty"`
	DiscountType    types.DiscountType      `gorm:"default:'none'" json:"discount_type,omitempty"`
	DiscountValue   float64                 `json:"discount_value,omitempty"`
	DiscountAmount  float64                 `json:"discount_amount,omitempty"`
	ServiceCharge   float64                 `json:"service_charge,omitempty"`
	Tax             float64                 `json:"tax,omitempty"`
	TotalAmount     float64                 `json:"total_amount,omitempty"`
	AdvanceAmount   float64                 `json:"advance_amount,omitempty"`
	BalanceAmount   float64                 `json:"balance_amount"`
	PaymentStatus   types.PaymentStatus     `gorm:"default:'pending'" json:"payment_status,omitempty"`
	PaymentMethod   string                  `json:"payment_method,omitempty"`
	Status          types.ReservationStatus `gorm:"default:'confirmed'" json:"status,omitempty"`

	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`

	Customer  *Customer  `gorm:"foreignKey:customer_id" json:"customer,omitempty"`
	Room      *Room      `gorm:"foreignKey:room_id" json:"room,omitempty"`
	RoomClass *RoomClass `gorm:"foreignKey:room_class_id" json:"room_class,omitempty"`

	types.Timestamps
}
