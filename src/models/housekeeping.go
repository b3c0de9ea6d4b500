package models

import (
	"hms/src/types"
	"time"
)

type HousekeepingTask struct {
	ID           uint                     `gorm:"primarykey" json:"id"`
	RoomID       uint                     `gorm:"index" json:"room_id,omitempty"`
	TaskType     string                   `gorm:"default:'cleaning'" json:"task_type,omitempty"`
	Status       types.HousekeepingStatus `gorm:"default:'pending'" json:"status,omitempty"`
	AssignedTo   *uint                    `json:"assigned_to,omitempty"`
	Notes        string                   `json:"notes,omitempty"`
	ScheduledFor *time.Time               `json:"scheduled_for,omitempty"`
	CompletedAt  *time.Time               `json:"completed_at,omitempty"`

	Room     *Room  `gorm:"foreignKey:room_id" json:"room,omitempty"`
	Assignee *Staff `gorm:"foreignKey:assigned_to" json:"assignee,omitempty"`

	types.Timestamps
}
