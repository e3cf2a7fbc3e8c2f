package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mayorista-backend/internal/directory"
	"mayorista-backend/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Validation errors, surfaced before any write is attempted.
var (
	ErrInvalidQuantity   = errors.New("la cantidad debe ser un entero positivo")
	ErrClientRequired    = errors.New("se requiere un cliente existente")
	ErrProductNotFound   = errors.New("producto no encontrado")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// RecordSaleInput is one sale as submitted from the panel form.
type RecordSaleInput struct {
	ClienteID uint
	Codigo    string
	Cantidad  int
	Estado    string
	Notas     string
}

// Service validates and executes sale transactions against the directory
// snapshot and the ledger store.
type Service struct {
	store  Store
	dir    *directory.Cache
	logger *zap.Logger
}

func NewService(store Store, dir *directory.Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		dir:    dir,
		logger: logger,
	}
}

// RecordSale turns the input into a persisted Venta and decrements the
// product's stock in the same transaction. Validation runs entirely against
// the in-memory snapshot; the store re-checks stock at commit time.
func (s *Service) RecordSale(ctx context.Context, in RecordSaleInput) (*models.Venta, error) {
	if in.Cantidad <= 0 {
		return nil, ErrInvalidQuantity
	}

	estado, err := models.ParseEstadoVenta(in.Estado)
	if err != nil {
		return nil, err
	}

	cliente, err := s.dir.FindClientByID(in.ClienteID)
	if err != nil {
		return nil, ErrClientRequired
	}

	codigo := strings.TrimSpace(in.Codigo)
	if codigo == "" {
		return nil, ErrProductNotFound
	}
	producto, err := s.dir.FindProductByCode(codigo)
	if err != nil {
		return nil, ErrProductNotFound
	}

	if producto.Stock < in.Cantidad {
		return nil, fmt.Errorf("%w: disponible %d, pedido %d", ErrInsufficientStock, producto.Stock, in.Cantidad)
	}

	total := producto.Precio.Mul(decimal.NewFromInt(int64(in.Cantidad)))

	venta := &models.Venta{
		ClienteID:      cliente.ID,
		ClienteNombre:  cliente.Nombre,
		ProductoID:     producto.ID,
		ProductoCodigo: producto.Codigo,
		ProductoNombre: producto.Nombre,
		Cantidad:       in.Cantidad,
		Total:          total,
		Estado:         estado,
		Notas:          strings.TrimSpace(in.Notas),
	}

	if err := s.store.CreateSaleWithStockDecrement(ctx, venta); err != nil {
		if errors.Is(err, ErrStockConflict) {
			s.logger.Warn("venta perdió la carrera por el stock",
				zap.Uint("producto_id", producto.ID),
				zap.Int("cantidad", in.Cantidad),
			)
			return nil, err
		}
		s.logger.Error("no se pudo registrar la venta",
			zap.Uint("cliente_id", cliente.ID),
			zap.String("codigo", producto.Codigo),
			zap.Error(err),
		)
		return nil, fmt.Errorf("no se pudo registrar la venta: %w", err)
	}

	s.dir.ApplyStockDecrement(producto.ID, in.Cantidad)

	s.logger.Info("venta registrada",
		zap.Uint("venta_id", venta.ID),
		zap.String("cliente", venta.ClienteNombre),
		zap.String("codigo", venta.ProductoCodigo),
		zap.Int("cantidad", venta.Cantidad),
		zap.String("total", venta.Total.String()),
	)
	return venta, nil
}

// SetEstado normalizes and validates the new estado before writing it.
// Any estado may move to any other; there are no terminal states.
func (s *Service) SetEstado(ctx context.Context, ventaID uint, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return models.ErrEstadoInvalido
	}
	estado, err := models.ParseEstadoVenta(raw)
	if err != nil {
		return err
	}

	if err := s.store.UpdateEstado(ctx, ventaID, estado); err != nil {
		if errors.Is(err, ErrSaleNotFound) {
			return err
		}
		return fmt.Errorf("no se pudo actualizar el estado: %w", err)
	}

	s.logger.Info("estado de venta actualizado",
		zap.Uint("venta_id", ventaID),
		zap.String("estado", string(estado)),
	)
	return nil
}

// ListSales returns all ventas, newest first.
func (s *Service) ListSales(ctx context.Context) ([]models.Venta, error) {
	ventas, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("no se pudieron listar las ventas: %w", err)
	}
	return ventas, nil
}

// DeleteSale removes a venta by explicit admin action. The product's stock
// is deliberately left as is.
func (s *Service) DeleteSale(ctx context.Context, ventaID uint) error {
	if err := s.store.DeleteSale(ctx, ventaID); err != nil {
		if errors.Is(err, ErrSaleNotFound) {
			return err
		}
		return fmt.Errorf("no se pudo eliminar la venta: %w", err)
	}
	return nil
}

// RefreshDirectory reloads the client and product snapshots in full.
func (s *Service) RefreshDirectory(ctx context.Context) error {
	return s.dir.Reload(ctx)
}

// FilterSales applies a case-insensitive substring match over client name,
// product name, product code and estado. Pure function of its inputs.
func FilterSales(ventas []models.Venta, term string) []models.Venta {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		out := make([]models.Venta, len(ventas))
		copy(out, ventas)
		return out
	}

	out := make([]models.Venta, 0, len(ventas))
	for _, v := range ventas {
		if strings.Contains(strings.ToLower(v.ClienteNombre), term) ||
			strings.Contains(strings.ToLower(v.ProductoNombre), term) ||
			strings.Contains(strings.ToLower(v.ProductoCodigo), term) ||
			strings.Contains(strings.ToLower(string(v.Estado)), term) {
			out = append(out, v)
		}
	}
	return out
}
