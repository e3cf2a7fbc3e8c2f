package catalog

import (
	"fmt"
	"strings"

	"mayorista-backend/internal/audit"
	"mayorista-backend/internal/auth"
	"mayorista-backend/internal/database"
	"mayorista-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ProductoResponse struct {
	ID           uint   `json:"id"`
	Codigo       string `json:"codigo"`
	Nombre       string `json:"nombre"`
	Precio       string `json:"precio"`
	Stock        int    `json:"stock"`
	Categoria    string `json:"categoria"`
	Subcategoria string `json:"subcategoria,omitempty"`
}

type CreateProductoRequest struct {
	Codigo       string          `json:"codigo"`
	Nombre       string          `json:"nombre"`
	Precio       decimal.Decimal `json:"precio"`
	Stock        int             `json:"stock"`
	Categoria    string          `json:"categoria"`
	Subcategoria string          `json:"subcategoria"`
}

type UpdateProductoRequest struct {
	Codigo       *string          `json:"codigo"`
	Nombre       *string          `json:"nombre"`
	Precio       *decimal.Decimal `json:"precio"`
	Stock        *int             `json:"stock"`
	Categoria    *string          `json:"categoria"`
	Subcategoria *string          `json:"subcategoria"`
}

func toProductoResponse(p models.Producto) ProductoResponse {
	return ProductoResponse{
		ID:           p.ID,
		Codigo:       p.Codigo,
		Nombre:       p.Nombre,
		Precio:       p.Precio.StringFixed(2),
		Stock:        p.Stock,
		Categoria:    p.Categoria,
		Subcategoria: p.Subcategoria,
	}
}

// GET /api/products?categoria=&q=
func ListProductosHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Producto{})

		if categoria := c.Query("categoria"); categoria != "" {
			dbq = dbq.Where("categoria = ?", categoria)
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			dbq = dbq.Where("lower(nombre) LIKE ? OR lower(codigo) LIKE ?", like, like)
		}

		var productos []models.Producto
		if err := dbq.Order("codigo asc").Find(&productos).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los productos")
		}

		resp := make([]ProductoResponse, 0, len(productos))
		for _, p := range productos {
			resp = append(resp, toProductoResponse(p))
		}
		return c.JSON(resp)
	}
}

// POST /api/products (solo admin)
func CreateProductoHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductoRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		body.Codigo = strings.ToUpper(strings.TrimSpace(body.Codigo))
		body.Nombre = strings.TrimSpace(body.Nombre)
		body.Categoria = strings.TrimSpace(body.Categoria)

		if body.Codigo == "" || body.Nombre == "" || body.Categoria == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Código, nombre y categoría son obligatorios")
		}
		if body.Precio.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "El precio no puede ser negativo")
		}
		if body.Stock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El stock no puede ser negativo")
		}

		var existing models.Producto
		if err := database.DB.Where("codigo = ?", body.Codigo).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ese código ya está en uso")
		}

		p := models.Producto{
			Codigo:       body.Codigo,
			Nombre:       body.Nombre,
			Precio:       body.Precio,
			Stock:        body.Stock,
			Categoria:    body.Categoria,
			Subcategoria: strings.TrimSpace(body.Subcategoria),
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el producto")
		}

		writeAudit(c, "producto", p.ID, models.AuditActionCreate, fmt.Sprintf("Producto %s creado", p.Codigo))

		return c.Status(fiber.StatusCreated).JSON(toProductoResponse(p))
	}
}

// PUT /api/products/:id (solo admin)
func UpdateProductoHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Producto
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
		}

		var body UpdateProductoRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if body.Codigo != nil {
			codigo := strings.ToUpper(strings.TrimSpace(*body.Codigo))
			if codigo == "" {
				return fiber.NewError(fiber.StatusBadRequest, "El código no puede quedar vacío")
			}
			if codigo != p.Codigo {
				var existing models.Producto
				if err := database.DB.Where("codigo = ?", codigo).First(&existing).Error; err == nil {
					return fiber.NewError(fiber.StatusBadRequest, "Ese código ya está en uso")
				}
			}
			p.Codigo = codigo
		}
		if body.Nombre != nil {
			nombre := strings.TrimSpace(*body.Nombre)
			if nombre == "" {
				return fiber.NewError(fiber.StatusBadRequest, "El nombre no puede quedar vacío")
			}
			p.Nombre = nombre
		}
		if body.Precio != nil {
			if body.Precio.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "El precio no puede ser negativo")
			}
			p.Precio = *body.Precio
		}
		if body.Stock != nil {
			if *body.Stock < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "El stock no puede ser negativo")
			}
			p.Stock = *body.Stock
		}
		if body.Categoria != nil {
			categoria := strings.TrimSpace(*body.Categoria)
			if categoria == "" {
				return fiber.NewError(fiber.StatusBadRequest, "La categoría no puede quedar vacía")
			}
			p.Categoria = categoria
		}
		if body.Subcategoria != nil {
			p.Subcategoria = strings.TrimSpace(*body.Subcategoria)
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el producto")
		}

		writeAudit(c, "producto", p.ID, models.AuditActionUpdate, fmt.Sprintf("Producto %s actualizado", p.Codigo))

		return c.JSON(toProductoResponse(p))
	}
}

// DELETE /api/products/:id (solo admin)
func DeleteProductoHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID de producto inválido")
		}

		if err := database.DB.Delete(&models.Producto{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el producto")
		}

		writeAudit(c, "producto", uint(id), models.AuditActionDelete, "Producto eliminado")

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// writeAudit is best effort; a failed audit write never fails the request.
func writeAudit(c *fiber.Ctx, entityType string, entityID uint, action models.AuditAction, description string) {
	userID, ok := c.Locals(auth.CtxUserIDKey).(uint)
	if !ok {
		return
	}
	userName, _ := c.Locals(auth.CtxUserNameKey).(string)

	_ = audit.WriteLog(audit.LogOptions{
		UserID:      userID,
		UserName:    userName,
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Description: description,
	})
}
