package models

import "hms/src/types"

type Room struct {
	ID             uint             `gorm:"primarykey" json:"id"`
	RoomNumber     string           `gorm:"uniqueIndex;size:16" json:"room_number,omitempty"`
	Status         types.RoomStatus `gorm:"default:'available'" json:"status,omitempty"`
	RoomClassID    uint             `json:"room_class_id,omitempty"`
	FloorID        uint             `json:"floor_id,omitempty"`
	HasBalcony     bool             `json:"has_balcony"`
	HasSeaView     bool             `json:"has_sea_view"`
	HasKitchenette bool             `json:"has_kitchenette"`
	IsActive       bool             `gorm:"default:true" json:"is_active"`

	RoomClass    *RoomClass     `gorm:"foreignKey:room_class_id" json:"room_class,omitempty"`
	Floor        *Floor         `gorm:"foreignKey:floor_id" json:"floor,omitempty"`
	Reservations []*Reservation `gorm:"foreignKey:room_id" json:"reservations,omitempty"`

	types.Timestamps
}

type RoomClass struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	Name        string  `json:"name,omitempty"`
	Code        string  `gorm:"uniqueIndex;size:64" json:"code,omitempty"`
	BaseRate    float64 `json:"base_rate,omitempty"`
	MaxAdults   int     `gorm:"default:2" json:"max_adults"`
	MaxChildren int     `gorm:"default:1" json:"max_children"`

	Rooms []*Room `gorm:"foreignKey:room_class_id" json:"rooms,omitempty"`

	types.Timestamps
}

type Floor struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `json:"name,omitempty"`
	Level int    `json:"level"`

	Rooms []*Room `gorm:"foreignKey:floor_id" json:"rooms,omitempty"`

	types.Timestamps
}
