package models

import "time"

// Cliente is a wholesale buyer. Sales keep a denormalized copy of Nombre,
// so renaming a client never rewrites history.
type Cliente struct {
	ID        uint   `gorm:"primaryKey"`
	Nombre    string `gorm:"size:150;not null;index"`
	Telefono  string `gorm:"size:30"`
	Email     string `gorm:"size:100"`
	Direccion string `gorm:"size:255"`
	Notas     string `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
