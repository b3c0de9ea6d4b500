package models

import "hms/src/types"

type Customer struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `gorm:"index" json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
	IDType    string `json:"id_type,omitempty"`
	IDNumber  string `json:"id_number,omitempty"`
	Notes     string `json:"notes,omitempty"`

	Reservations []*Reservation `gorm:"foreignKey:customer_id" json:"reservations,omitempty"`

	types.Timestamps
}
