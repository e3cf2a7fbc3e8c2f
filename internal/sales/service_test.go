package sales

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"mayorista-backend/internal/directory"
	"mayorista-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeDirStore feeds the directory cache in tests.
type fakeDirStore struct {
	clientes  []models.Cliente
	productos []models.Producto
}

func (f *fakeDirStore) ListClients(ctx context.Context) ([]models.Cliente, error) {
	out := make([]models.Cliente, len(f.clientes))
	copy(out, f.clientes)
	return out, nil
}

func (f *fakeDirStore) ListProducts(ctx context.Context) ([]models.Producto, error) {
	out := make([]models.Producto, len(f.productos))
	copy(out, f.productos)
	return out, nil
}

// memStore is an in-memory ledger honoring the Store contract, including
// the conditional stock decrement.
type memStore struct {
	mu     sync.Mutex
	nextID uint
	stock  map[uint]int
	ventas []models.Venta
}

func newMemStore(stock map[uint]int) *memStore {
	return &memStore{nextID: 1, stock: stock}
}

func (m *memStore) CreateSaleWithStockDecrement(ctx context.Context, venta *models.Venta) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stock[venta.ProductoID] < venta.Cantidad {
		return ErrStockConflict
	}
	m.stock[venta.ProductoID] -= venta.Cantidad

	venta.ID = m.nextID
	m.nextID++
	if venta.Fecha.IsZero() {
		venta.Fecha = time.Now()
	}
	m.ventas = append(m.ventas, *venta)
	return nil
}

func (m *memStore) UpdateEstado(ctx context.Context, ventaID uint, estado models.EstadoVenta) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.ventas {
		if m.ventas[i].ID == ventaID {
			m.ventas[i].Estado = estado
			return nil
		}
	}
	return ErrSaleNotFound
}

func (m *memStore) ListSales(ctx context.Context) ([]models.Venta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Venta, len(m.ventas))
	copy(out, m.ventas)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	return out, nil
}

func (m *memStore) DeleteSale(ctx context.Context, ventaID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.ventas {
		if m.ventas[i].ID == ventaID {
			m.ventas = append(m.ventas[:i], m.ventas[i+1:]...)
			return nil
		}
	}
	return ErrSaleNotFound
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ventas)
}

func newTestService(t *testing.T, stock int) (*Service, *memStore, *directory.Cache) {
	t.Helper()

	dirStore := &fakeDirStore{
		clientes: []models.Cliente{{ID: 1, Nombre: "Juan"}},
		productos: []models.Producto{{
			ID:        10,
			Codigo:    "N0001",
			Nombre:    "Cuaderno rayado",
			Precio:    decimal.NewFromInt(100),
			Stock:     stock,
			Categoria: "papelería",
		}},
	}
	cache := directory.NewCache(dirStore)
	require.NoError(t, cache.Reload(context.Background()))

	store := newMemStore(map[uint]int{10: stock})
	svc := NewService(store, cache, zaptest.NewLogger(t))
	return svc, store, cache
}

func TestRecordSale_HappyPath(t *testing.T) {
	svc, store, cache := newTestService(t, 5)

	venta, err := svc.RecordSale(context.Background(), RecordSaleInput{
		ClienteID: 1,
		Codigo:    "N0001",
		Cantidad:  3,
	})
	require.NoError(t, err)

	assert.NotZero(t, venta.ID)
	assert.Equal(t, "Juan", venta.ClienteNombre)
	assert.Equal(t, "N0001", venta.ProductoCodigo)
	assert.Equal(t, "Cuaderno rayado", venta.ProductoNombre)
	assert.Equal(t, 3, venta.Cantidad)
	assert.True(t, decimal.NewFromInt(300).Equal(venta.Total), "total = %s", venta.Total)
	assert.Equal(t, models.EstadoPendiente, venta.Estado)
	assert.False(t, venta.Fecha.IsZero())

	// Both the store and the snapshot see the decrement.
	assert.Equal(t, 2, store.stock[10])
	p, err := cache.FindProductByCode("N0001")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)
}

func TestRecordSale_CodigoCaseInsensitive(t *testing.T) {
	svc, _, _ := newTestService(t, 5)

	venta, err := svc.RecordSale(context.Background(), RecordSaleInput{
		ClienteID: 1,
		Codigo:    "n0001",
		Cantidad:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, "N0001", venta.ProductoCodigo)
}

func TestRecordSale_InsufficientStock(t *testing.T) {
	svc, store, cache := newTestService(t, 2)

	_, err := svc.RecordSale(context.Background(), RecordSaleInput{
		ClienteID: 1,
		Codigo:    "N0001",
		Cantidad:  3,
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "disponible 2")

	// Zero writes happened.
	assert.Equal(t, 0, store.count())
	assert.Equal(t, 2, store.stock[10])
	p, _ := cache.FindProductByCode("N0001")
	assert.Equal(t, 2, p.Stock)
}

func TestRecordSale_InvalidQuantity(t *testing.T) {
	svc, store, _ := newTestService(t, 5)

	for _, cantidad := range []int{0, -2} {
		_, err := svc.RecordSale(context.Background(), RecordSaleInput{
			ClienteID: 1,
			Codigo:    "N0001",
			Cantidad:  cantidad,
		})
		assert.ErrorIs(t, err, ErrInvalidQuantity, "cantidad %d", cantidad)
	}
	assert.Equal(t, 0, store.count())
}

func TestRecordSale_ClientRequired(t *testing.T) {
	svc, store, _ := newTestService(t, 5)

	_, err := svc.RecordSale(context.Background(), RecordSaleInput{
		ClienteID: 99,
		Codigo:    "N0001",
		Cantidad:  1,
	})
	assert.ErrorIs(t, err, ErrClientRequired)
	assert.Equal(t, 0, store.count())
}

func TestRecordSale_ProductNotFound(t *testing.T) {
	svc, store, _ := newTestService(t, 5)

	for _, codigo := range []string{"", "   ", "X9999"} {
		_, err := svc.RecordSale(context.Background(), RecordSaleInput{
			ClienteID: 1,
			Codigo:    codigo,
			Cantidad:  1,
		})
		assert.ErrorIs(t, err, ErrProductNotFound, "codigo %q", codigo)
	}
	assert.Equal(t, 0, store.count())
}

func TestRecordSale_EstadoInvalido(t *testing.T) {
	svc, store, _ := newTestService(t, 5)

	_, err := svc.RecordSale(context.Background(), RecordSaleInput{
		ClienteID: 1,
		Codigo:    "N0001",
		Cantidad:  1,
		Estado:    "enviado",
	})
	assert.ErrorIs(t, err, models.ErrEstadoInvalido)
	assert.Equal(t, 0, store.count())
}

func TestRecordSale_StockConflict(t *testing.T) {
	svc, store, cache := newTestService(t, 5)

	// Otra sesión consumió el stock después de nuestra última recarga.
	store.stock[10] = 0

	_, err := svc.RecordSale(context.Background(), RecordSaleInput{
		ClienteID: 1,
		Codigo:    "N0001",
		Cantidad:  1,
	})
	require.ErrorIs(t, err, ErrStockConflict)

	assert.Equal(t, 0, store.count())
	// El snapshot queda como estaba, stale pero consistente.
	p, _ := cache.FindProductByCode("N0001")
	assert.Equal(t, 5, p.Stock)
}

func TestSetEstado(t *testing.T) {
	svc, store, _ := newTestService(t, 5)

	venta, err := svc.RecordSale(context.Background(), RecordSaleInput{
		ClienteID: 1,
		Codigo:    "N0001",
		Cantidad:  1,
	})
	require.NoError(t, err)

	// Free-form input is normalized before it hits the store.
	require.NoError(t, svc.SetEstado(context.Background(), venta.ID, "Pagado"))
	assert.Equal(t, models.EstadoPagado, store.ventas[0].Estado)

	// Any estado may move to any other.
	require.NoError(t, svc.SetEstado(context.Background(), venta.ID, "pendiente"))
	assert.Equal(t, models.EstadoPendiente, store.ventas[0].Estado)
}

func TestSetEstado_Invalido(t *testing.T) {
	svc, _, _ := newTestService(t, 5)

	err := svc.SetEstado(context.Background(), 1, "")
	assert.ErrorIs(t, err, models.ErrEstadoInvalido)

	err = svc.SetEstado(context.Background(), 1, "cancelado")
	assert.ErrorIs(t, err, models.ErrEstadoInvalido)
}

func TestSetEstado_VentaInexistente(t *testing.T) {
	svc, _, _ := newTestService(t, 5)

	err := svc.SetEstado(context.Background(), 42, "pagado")
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestDeleteSale(t *testing.T) {
	svc, store, _ := newTestService(t, 5)

	venta, err := svc.RecordSale(context.Background(), RecordSaleInput{
		ClienteID: 1,
		Codigo:    "N0001",
		Cantidad:  1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSale(context.Background(), venta.ID))
	assert.Equal(t, 0, store.count())

	assert.ErrorIs(t, svc.DeleteSale(context.Background(), venta.ID), ErrSaleNotFound)
}

func TestListSales_NewestFirst(t *testing.T) {
	svc, store, _ := newTestService(t, 10)

	base := time.Now()
	store.ventas = []models.Venta{
		{ID: 1, ClienteNombre: "Juan", Fecha: base.Add(-2 * time.Hour)},
		{ID: 2, ClienteNombre: "Juan", Fecha: base},
		{ID: 3, ClienteNombre: "Juan", Fecha: base.Add(-1 * time.Hour)},
	}

	ventas, err := svc.ListSales(context.Background())
	require.NoError(t, err)
	require.Len(t, ventas, 3)
	assert.Equal(t, uint(2), ventas[0].ID)
	assert.Equal(t, uint(3), ventas[1].ID)
	assert.Equal(t, uint(1), ventas[2].ID)
}

func TestFilterSales(t *testing.T) {
	ventas := []models.Venta{
		{ID: 1, ClienteNombre: "Juan Pérez", ProductoNombre: "Cuaderno rayado", ProductoCodigo: "N0001", Estado: models.EstadoPendiente},
		{ID: 2, ClienteNombre: "Marta Díaz", ProductoNombre: "Lapicera azul", ProductoCodigo: "L0100", Estado: models.EstadoPagado},
		{ID: 3, ClienteNombre: "Juan Pérez", ProductoNombre: "Lapicera roja", ProductoCodigo: "L0101", Estado: models.EstadoEntregado},
	}

	byClient := FilterSales(ventas, "juan")
	assert.Len(t, byClient, 2)

	byCode := FilterSales(ventas, "n0001")
	require.Len(t, byCode, 1)
	assert.Equal(t, uint(1), byCode[0].ID)

	byEstado := FilterSales(ventas, "PAGADO")
	require.Len(t, byEstado, 1)
	assert.Equal(t, uint(2), byEstado[0].ID)

	byProduct := FilterSales(ventas, "lapicera")
	assert.Len(t, byProduct, 2)

	assert.Empty(t, FilterSales(ventas, "zzz"))
	assert.Len(t, FilterSales(ventas, ""), 3)
}

func TestFilterSales_PureAndIdempotent(t *testing.T) {
	ventas := []models.Venta{
		{ID: 1, ClienteNombre: "Juan", ProductoCodigo: "N0001", Estado: models.EstadoPendiente},
		{ID: 2, ClienteNombre: "Marta", ProductoCodigo: "L0100", Estado: models.EstadoPagado},
	}

	first := FilterSales(ventas, "juan")
	second := FilterSales(ventas, "juan")
	assert.Equal(t, first, second)

	// The input slice is never mutated.
	assert.Equal(t, uint(1), ventas[0].ID)
	assert.Len(t, ventas, 2)
}
