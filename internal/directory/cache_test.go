package directory

import (
	"context"
	"errors"
	"testing"

	"mayorista-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	clientes  []models.Cliente
	productos []models.Producto
	err       error
}

func (f *fakeStore) ListClients(ctx context.Context) ([]models.Cliente, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Cliente, len(f.clientes))
	copy(out, f.clientes)
	return out, nil
}

func (f *fakeStore) ListProducts(ctx context.Context) ([]models.Producto, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Producto, len(f.productos))
	copy(out, f.productos)
	return out, nil
}

func newLoadedCache(t *testing.T) (*Cache, *fakeStore) {
	t.Helper()
	store := &fakeStore{
		clientes: []models.Cliente{
			{ID: 1, Nombre: "Juan"},
			{ID: 2, Nombre: "Marta"},
		},
		productos: []models.Producto{
			{ID: 10, Codigo: "N0001", Nombre: "Cuaderno rayado", Precio: decimal.NewFromInt(100), Stock: 5},
			{ID: 12, Codigo: "", Nombre: "Producto legado", Precio: decimal.NewFromInt(50), Stock: 3},
		},
	}
	cache := NewCache(store)
	require.NoError(t, cache.Reload(context.Background()))
	return cache, store
}

func TestFindClientByID(t *testing.T) {
	cache, _ := newLoadedCache(t)

	cl, err := cache.FindClientByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Juan", cl.Nombre)

	_, err = cache.FindClientByID(99)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestFindProductByCode_CaseInsensitive(t *testing.T) {
	cache, _ := newLoadedCache(t)

	upper, err := cache.FindProductByCode("N0001")
	require.NoError(t, err)
	lower, err := cache.FindProductByCode("n0001")
	require.NoError(t, err)
	assert.Equal(t, upper.ID, lower.ID)

	padded, err := cache.FindProductByCode("  n0001 ")
	require.NoError(t, err)
	assert.Equal(t, upper.ID, padded.ID)
}

func TestFindProductByCode_FallbackToID(t *testing.T) {
	cache, _ := newLoadedCache(t)

	p, err := cache.FindProductByCode("12")
	require.NoError(t, err)
	assert.Equal(t, "Producto legado", p.Nombre)
}

func TestFindProductByCode_NotFound(t *testing.T) {
	cache, _ := newLoadedCache(t)

	_, err := cache.FindProductByCode("X9999")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = cache.FindProductByCode("")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestReload_ReplacesSnapshot(t *testing.T) {
	cache, store := newLoadedCache(t)

	// An external edit is invisible until the next reload.
	store.productos[0].Stock = 1
	p, err := cache.FindProductByCode("N0001")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)

	require.NoError(t, cache.ReloadProducts(context.Background()))
	p, err = cache.FindProductByCode("N0001")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock)
}

func TestReload_PropagatesStoreError(t *testing.T) {
	cache, store := newLoadedCache(t)

	store.err = errors.New("backend caído")
	err := cache.Reload(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.err)

	// The old snapshot survives a failed reload.
	_, err = cache.FindProductByCode("N0001")
	assert.NoError(t, err)
}

func TestApplyStockDecrement(t *testing.T) {
	cache, _ := newLoadedCache(t)

	cache.ApplyStockDecrement(10, 3)

	p, err := cache.FindProductByCode("N0001")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)
}

func TestSnapshotCopiesAreIsolated(t *testing.T) {
	cache, _ := newLoadedCache(t)

	productos := cache.Products()
	productos[0].Stock = -99

	p, err := cache.FindProductByCode("N0001")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)

	clientes := cache.Clients()
	clientes[0].Nombre = "otro"
	cl, err := cache.FindClientByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Juan", cl.Nombre)
}
