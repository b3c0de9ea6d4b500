package models

import (
	"hms/src/types"
	"time"
)

type Asset struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	Name          string     `json:"name,omitempty"`
	Tag           string     `gorm:"uniqueIndex;size:64" json:"tag,omitempty"`
	Category      string     `gorm:"index" json:"category,omitempty"`
	Location      string     `json:"location,omitempty"`
	PurchaseDate  *time.Time `json:"purchase_date,omitempty"`
	PurchasePrice float64    `json:"purchase_price,omitempty"`
	Condition     string     `gorm:"default:'good'" json:"condition,omitempty"`
	Notes         string     `json:"notes,omitempty"`

	types.Timestamps
}
