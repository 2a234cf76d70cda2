package models

import "time"

// Table disimpan dengan status numerik (lihat pos.StatusFromCode).
type Table struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	AreaID    uint           `gorm:"not null;default:0;index" json:"area_id"`
	Name      string         `gorm:"type:varchar(50);not null" json:"name"`
	Capacity  int            `gorm:"not null;default:0" json:"capacity"`
	Status    int            `gorm:"not null;default:0;index" json:"status"`
	Note      string         `gorm:"type:text" json:"note,omitempty"`
	Meta      map[string]any `gorm:"type:text;serializer:json" json:"meta,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}
