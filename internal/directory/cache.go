package directory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"mayorista-backend/internal/models"
)

var (
	ErrClientNotFound  = errors.New("cliente no encontrado")
	ErrProductNotFound = errors.New("producto no encontrado")
)

// Store is the read side of the directory collections.
type Store interface {
	ListClients(ctx context.Context) ([]models.Cliente, error)
	ListProducts(ctx context.Context) ([]models.Producto, error)
}

// Cache holds a point-in-time snapshot of all clients and products.
// Reloads replace the whole snapshot; there is no partial invalidation,
// so edits made elsewhere stay invisible until the next reload.
type Cache struct {
	mu    sync.RWMutex
	store Store

	clientes  []models.Cliente
	productos []models.Producto
}

func NewCache(store Store) *Cache {
	return &Cache{store: store}
}

// Reload replaces both snapshots.
func (c *Cache) Reload(ctx context.Context) error {
	if err := c.ReloadClients(ctx); err != nil {
		return err
	}
	return c.ReloadProducts(ctx)
}

func (c *Cache) ReloadClients(ctx context.Context) error {
	clientes, err := c.store.ListClients(ctx)
	if err != nil {
		return fmt.Errorf("no se pudieron cargar los clientes: %w", err)
	}

	c.mu.Lock()
	c.clientes = clientes
	c.mu.Unlock()
	return nil
}

func (c *Cache) ReloadProducts(ctx context.Context) error {
	productos, err := c.store.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("no se pudieron cargar los productos: %w", err)
	}

	c.mu.Lock()
	c.productos = productos
	c.mu.Unlock()
	return nil
}

// Clients returns a copy of the current snapshot.
func (c *Cache) Clients() []models.Cliente {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Cliente, len(c.clientes))
	copy(out, c.clientes)
	return out
}

// Products returns a copy of the current snapshot.
func (c *Cache) Products() []models.Producto {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Producto, len(c.productos))
	copy(out, c.productos)
	return out
}

func (c *Cache) FindClientByID(id uint) (models.Cliente, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, cl := range c.clientes {
		if cl.ID == id {
			return cl, nil
		}
	}
	return models.Cliente{}, ErrClientNotFound
}

// FindProductByCode matches Codigo case-insensitively. Legacy rows imported
// without a codigo are matched by their numeric id instead.
func (c *Cache) FindProductByCode(code string) (models.Producto, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return models.Producto{}, ErrProductNotFound
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.productos {
		if p.Codigo != "" {
			if strings.ToLower(p.Codigo) == code {
				return p, nil
			}
			continue
		}
		if strconv.FormatUint(uint64(p.ID), 10) == code {
			return p, nil
		}
	}
	return models.Producto{}, ErrProductNotFound
}

// ApplyStockDecrement mirrors a committed stock decrement into the snapshot
// so later sales in the same session see it without a full reload.
func (c *Cache) ApplyStockDecrement(productoID uint, cantidad int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.productos {
		if c.productos[i].ID == productoID {
			c.productos[i].Stock -= cantidad
			return
		}
	}
}
