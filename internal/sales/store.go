package sales

import (
	"context"
	"errors"

	"mayorista-backend/internal/models"
)

// ErrSaleNotFound is returned when a venta with the given ID does not exist.
var ErrSaleNotFound = errors.New("venta no encontrada")

// ErrStockConflict is returned when the conditional stock decrement matches
// no row: a concurrent sale consumed the stock after our snapshot was read.
var ErrStockConflict = errors.New("conflicto de stock, la venta no fue registrada")

// Store is the ledger side: it persists ventas and applies the paired stock
// decrement. The decrement and the insert commit together or not at all.
type Store interface {
	// CreateSaleWithStockDecrement inserts venta and decrements the product's
	// stock by venta.Cantidad, guarded by stock >= cantidad. On success the
	// store fills in venta.ID and venta.Fecha. Returns ErrStockConflict when
	// the guard matches no row.
	CreateSaleWithStockDecrement(ctx context.Context, venta *models.Venta) error

	// UpdateEstado rewrites only the estado field.
	UpdateEstado(ctx context.Context, ventaID uint, estado models.EstadoVenta) error

	// ListSales returns all ventas, newest fecha first.
	ListSales(ctx context.Context) ([]models.Venta, error)

	// DeleteSale removes a venta. Stock is not restored.
	DeleteSale(ctx context.Context, ventaID uint) error
}
