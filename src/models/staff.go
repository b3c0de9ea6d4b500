package models

import "hms/src/types"

// Staff backs the bearer-token middleware. Role is informational only,
// there is no permission model behind it.
type Staff struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Name     string `json:"name,omitempty"`
	Email    string `gorm:"uniqueIndex" json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	types.Timestamps
}
