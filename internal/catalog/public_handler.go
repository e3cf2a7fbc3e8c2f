package catalog

import (
	"strings"

	"mayorista-backend/internal/config"
	"mayorista-backend/internal/database"
	"mayorista-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Storefront endpoints. No auth: this is what the public catalog pages hit.

type ProductoPublico struct {
	Codigo       string `json:"codigo"`
	Nombre       string `json:"nombre"`
	Precio       string `json:"precio"`
	Categoria    string `json:"categoria"`
	Subcategoria string `json:"subcategoria,omitempty"`
	Disponible   bool   `json:"disponible"`
}

// GET /catalogo/productos?categoria=&q=&disponibles=true
func PublicCatalogHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Producto{})

		if categoria := c.Query("categoria"); categoria != "" {
			dbq = dbq.Where("categoria = ?", categoria)
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			dbq = dbq.Where("lower(nombre) LIKE ? OR lower(codigo) LIKE ?", like, like)
		}
		if c.Query("disponibles") == "true" {
			dbq = dbq.Where("stock > 0")
		}

		var productos []models.Producto
		if err := dbq.Order("categoria asc, codigo asc").Find(&productos).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo cargar el catálogo")
		}

		resp := make([]ProductoPublico, 0, len(productos))
		for _, p := range productos {
			resp = append(resp, ProductoPublico{
				Codigo:       p.Codigo,
				Nombre:       p.Nombre,
				Precio:       p.Precio.StringFixed(2),
				Categoria:    p.Categoria,
				Subcategoria: p.Subcategoria,
				Disponible:   p.Stock > 0,
			})
		}
		return c.JSON(resp)
	}
}

type WhatsAppOrderRequest struct {
	Nombre string `json:"nombre"`
	Items  []struct {
		Codigo   string `json:"codigo"`
		Cantidad int    `json:"cantidad"`
	} `json:"items"`
}

// POST /catalogo/pedido-whatsapp
// Resolves the cart against the catalog and answers with the wa.me link the
// storefront opens to hand the order over to WhatsApp.
func WhatsAppOrderHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.WhatsAppPhone == "" {
			return fiber.NewError(fiber.StatusServiceUnavailable, "El checkout por WhatsApp no está configurado")
		}

		var body WhatsAppOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El pedido está vacío")
		}

		lines := make([]OrderLine, 0, len(body.Items))
		for _, item := range body.Items {
			codigo := strings.ToUpper(strings.TrimSpace(item.Codigo))
			if codigo == "" || item.Cantidad <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Cada ítem necesita código y cantidad positiva")
			}

			var p models.Producto
			if err := database.DB.Where("upper(codigo) = ?", codigo).First(&p).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Producto no encontrado: "+codigo)
			}

			lines = append(lines, OrderLine{
				Codigo:   p.Codigo,
				Nombre:   p.Nombre,
				Cantidad: item.Cantidad,
				Precio:   p.Precio,
			})
		}

		mensaje := BuildOrderMessage(body.Nombre, lines)
		return c.JSON(fiber.Map{
			"mensaje": mensaje,
			"url":     BuildWhatsAppLink(cfg.WhatsAppPhone, mensaje),
		})
	}
}
