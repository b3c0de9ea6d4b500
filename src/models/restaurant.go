package models

import "hms/src/types"

type RestaurantOrder struct {
	ID            uint              `gorm:"primarykey" json:"id"`
	OrderNumber   string            `gorm:"uniqueIndex;size:32" json:"order_number,omitempty"`
	TableNumber   string            `json:"table_number,omitempty"`
	ReservationID *uint             `gorm:"index" json:"reservation_id,omitempty"`
	Status        types.OrderStatus `gorm:"default:'open'" json:"status,omitempty"`
	Subtotal      float64           `json:"subtotal,omitempty"`
	ServiceCharge float64           `json:"service_charge,omitempty"`
	Tax           float64           `json:"tax,omitempty"`
	TotalAmount   float64           `json:"total_amount,omitempty"`

	Items       []*RestaurantOrderItem `gorm:"foreignKey:order_id" json:"items,omitempty"`
	Reservation *Reservation           `gorm:"foreignKey:reservation_id" json:"reservation,omitempty"`

	types.Timestamps
}

type RestaurantOrderItem struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	OrderID   uint    `gorm:"index" json:"order_id,omitempty"`
	Name      string  `json:"name,omitempty"`
	Qty       int     `json:"qty,omitempty"`
	UnitPrice float64 `json:"unit_price,omitempty"`
	LineTotal float64 `json:"line_total,omitempty"`

	types.Timestamps
}
