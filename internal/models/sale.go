package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type EstadoVenta string

const (
	EstadoPendiente EstadoVenta = "pendiente"
	EstadoPagado    EstadoVenta = "pagado"
	EstadoEntregado EstadoVenta = "entregado"
)

var ErrEstadoInvalido = errors.New("estado de venta no reconocido")

// ParseEstadoVenta normalizes free-form input (trim + lowercase) and rejects
// anything outside the closed set. Empty input defaults to pendiente.
func ParseEstadoVenta(raw string) (EstadoVenta, error) {
	s := EstadoVenta(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case "":
		return EstadoPendiente, nil
	case EstadoPendiente, EstadoPagado, EstadoEntregado:
		return s, nil
	default:
		return "", ErrEstadoInvalido
	}
}

// Venta is one recorded sale. Client and product display fields are frozen
// at creation time; only Estado may change afterwards.
type Venta struct {
	ID             uint            `gorm:"primaryKey"`
	ClienteID      uint            `gorm:"not null;index"`
	ClienteNombre  string          `gorm:"size:150;not null"`
	ProductoID     uint            `gorm:"not null;index"`
	ProductoCodigo string          `gorm:"size:50;not null"`
	ProductoNombre string          `gorm:"size:150;not null"`
	Cantidad       int             `gorm:"not null"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado         EstadoVenta     `gorm:"size:20;not null;index"`
	Notas          string          `gorm:"size:500"`
	Fecha          time.Time       `gorm:"autoCreateTime;index"`
}
