package main

import (
	"context"
	"log"
	"strings"

	"mayorista-backend/internal/audit"
	"mayorista-backend/internal/auth"
	"mayorista-backend/internal/catalog"
	"mayorista-backend/internal/config"
	"mayorista-backend/internal/database"
	"mayorista-backend/internal/directory"
	"mayorista-backend/internal/models"
	"mayorista-backend/internal/sales"
	"mayorista-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("No se pudo inicializar el logger: %v", err)
	}
	defer logger.Sync()

	store := storage.New(database.DB)
	dirCache := directory.NewCache(store)
	if err := dirCache.Reload(context.Background()); err != nil {
		// Arrancar con el directorio vacío es válido; se recarga a demanda.
		logger.Warn("no se pudo precargar el directorio", zap.Error(err))
	}

	salesService := sales.NewService(store, dirCache, logger)
	salesHandler := sales.NewHandler(salesService, logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logger.Error("error inesperado", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error inesperado del servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	// Catálogo público (lo consume la tienda, sin sesión)
	app.Get("/catalogo/productos", catalog.PublicCatalogHandler())
	app.Post("/catalogo/pedido-whatsapp", catalog.WhatsAppOrderHandler(cfg))

	api := app.Group("/api")

	// Auth pública
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Panel (requiere sesión)
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Ventas
	salesHandler.RegisterRoutes(protected)

	// Clientes
	protected.Get("/clients", catalog.ListClientesHandler())
	protected.Post("/clients", catalog.CreateClienteHandler())
	protected.Put("/clients/:id", catalog.UpdateClienteHandler())
	protected.Delete("/clients/:id", catalog.DeleteClienteHandler())

	// Productos (lectura para todo el panel, mutaciones solo admin)
	protected.Get("/products", catalog.ListProductosHandler())

	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireRol(models.RoleAdmin))
	adminRoutes.Post("/products", catalog.CreateProductoHandler())
	adminRoutes.Put("/products/:id", catalog.UpdateProductoHandler())
	adminRoutes.Delete("/products/:id", catalog.DeleteProductoHandler())
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Servidor escuchando en el puerto:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
