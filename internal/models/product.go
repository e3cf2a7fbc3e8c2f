package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto is a catalog entry. Codigo is the business key shown in the
// printed catalog (e.g. "N0001"); Stock is decremented only by recorded
// sales and must never go negative.
type Producto struct {
	ID           uint            `gorm:"primaryKey"`
	Codigo       string          `gorm:"size:50;uniqueIndex;not null"`
	Nombre       string          `gorm:"size:150;not null"`
	Precio       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock        int             `gorm:"not null;default:0"`
	Categoria    string          `gorm:"size:80;not null;index"`
	Subcategoria string          `gorm:"size:80"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
