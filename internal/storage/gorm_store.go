package storage

import (
	"context"
	"fmt"

	"mayorista-backend/internal/models"
	"mayorista-backend/internal/sales"

	"gorm.io/gorm"
)

// GormStore implements the directory and ledger store contracts over
// Postgres. It is the only writer of Producto.Stock during a sale.
type GormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ListClients(ctx context.Context) ([]models.Cliente, error) {
	var clientes []models.Cliente
	if err := s.db.WithContext(ctx).Order("nombre asc").Find(&clientes).Error; err != nil {
		return nil, err
	}
	return clientes, nil
}

func (s *GormStore) ListProducts(ctx context.Context) ([]models.Producto, error) {
	var productos []models.Producto
	if err := s.db.WithContext(ctx).Order("codigo asc").Find(&productos).Error; err != nil {
		return nil, err
	}
	return productos, nil
}

// CreateSaleWithStockDecrement commits the venta row and the stock decrement
// together. The decrement is guarded by stock >= cantidad, so a concurrent
// sale that already consumed the stock rolls the whole transaction back with
// sales.ErrStockConflict instead of driving stock negative.
func (s *GormStore) CreateSaleWithStockDecrement(ctx context.Context, venta *models.Venta) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Producto{}).
			Where("id = ? AND stock >= ?", venta.ProductoID, venta.Cantidad).
			UpdateColumn("stock", gorm.Expr("stock - ?", venta.Cantidad))
		if res.Error != nil {
			return fmt.Errorf("no se pudo descontar el stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return sales.ErrStockConflict
		}

		if err := tx.Create(venta).Error; err != nil {
			return fmt.Errorf("no se pudo insertar la venta: %w", err)
		}
		return nil
	})
}

func (s *GormStore) UpdateEstado(ctx context.Context, ventaID uint, estado models.EstadoVenta) error {
	res := s.db.WithContext(ctx).Model(&models.Venta{}).
		Where("id = ?", ventaID).
		Update("estado", estado)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return sales.ErrSaleNotFound
	}
	return nil
}

func (s *GormStore) ListSales(ctx context.Context) ([]models.Venta, error) {
	var ventas []models.Venta
	err := s.db.WithContext(ctx).Order("fecha desc, id desc").Find(&ventas).Error
	if err != nil {
		return nil, err
	}
	return ventas, nil
}

func (s *GormStore) DeleteSale(ctx context.Context, ventaID uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Venta{}, "id = ?", ventaID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return sales.ErrSaleNotFound
	}
	return nil
}
