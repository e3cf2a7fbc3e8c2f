package sales

import (
	"errors"
	"fmt"

	"mayorista-backend/internal/audit"
	"mayorista-backend/internal/auth"
	"mayorista-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RecordSaleRequest struct {
	ClienteID uint   `json:"cliente_id"`
	Codigo    string `json:"codigo"`
	Cantidad  int    `json:"cantidad"`
	Estado    string `json:"estado"`
	Notas     string `json:"notas"`
}

type SetEstadoRequest struct {
	Estado string `json:"estado"`
}

type VentaResponse struct {
	ID             uint   `json:"id"`
	ClienteID      uint   `json:"cliente_id"`
	ClienteNombre  string `json:"cliente_nombre"`
	ProductoID     uint   `json:"producto_id"`
	ProductoCodigo string `json:"producto_codigo"`
	ProductoNombre string `json:"producto_nombre"`
	Cantidad       int    `json:"cantidad"`
	Total          string `json:"total"`
	Estado         string `json:"estado"`
	Notas          string `json:"notas,omitempty"`
	Fecha          string `json:"fecha"`
}

func toVentaResponse(v models.Venta) VentaResponse {
	return VentaResponse{
		ID:             v.ID,
		ClienteID:      v.ClienteID,
		ClienteNombre:  v.ClienteNombre,
		ProductoID:     v.ProductoID,
		ProductoCodigo: v.ProductoCodigo,
		ProductoNombre: v.ProductoNombre,
		Cantidad:       v.Cantidad,
		Total:          v.Total.StringFixed(2),
		Estado:         string(v.Estado),
		Notas:          v.Notas,
		Fecha:          v.Fecha.Format("2006-01-02 15:04:05"),
	}
}

type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes binds the sales endpoints on an authenticated router group.
func (h *Handler) RegisterRoutes(r fiber.Router) {
	r.Post("/sales", h.RecordSale)
	r.Get("/sales", h.ListSales)
	r.Patch("/sales/:id/estado", h.SetEstado)
	r.Delete("/sales/:id", h.DeleteSale)
	r.Post("/directory/reload", h.ReloadDirectory)
}

// POST /api/sales
func (h *Handler) RecordSale(c *fiber.Ctx) error {
	var body RecordSaleRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}

	venta, err := h.svc.RecordSale(c.Context(), RecordSaleInput{
		ClienteID: body.ClienteID,
		Codigo:    body.Codigo,
		Cantidad:  body.Cantidad,
		Estado:    body.Estado,
		Notas:     body.Notas,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidQuantity),
			errors.Is(err, ErrClientRequired),
			errors.Is(err, ErrProductNotFound),
			errors.Is(err, ErrInsufficientStock),
			errors.Is(err, models.ErrEstadoInvalido):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, ErrStockConflict):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo registrar la venta")
		}
	}

	h.writeAudit(c, "venta", venta.ID, models.AuditActionCreate,
		fmt.Sprintf("Venta de %dx %s a %s", venta.Cantidad, venta.ProductoCodigo, venta.ClienteNombre))

	return c.Status(fiber.StatusCreated).JSON(toVentaResponse(*venta))
}

// GET /api/sales?q=
func (h *Handler) ListSales(c *fiber.Ctx) error {
	ventas, err := h.svc.ListSales(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar las ventas")
	}

	if q := c.Query("q"); q != "" {
		ventas = FilterSales(ventas, q)
	}

	resp := make([]VentaResponse, 0, len(ventas))
	for _, v := range ventas {
		resp = append(resp, toVentaResponse(v))
	}
	return c.JSON(resp)
}

// PATCH /api/sales/:id/estado
func (h *Handler) SetEstado(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "ID de venta inválido")
	}

	var body SetEstadoRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}

	if err := h.svc.SetEstado(c.Context(), uint(id), body.Estado); err != nil {
		switch {
		case errors.Is(err, models.ErrEstadoInvalido):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, ErrSaleNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el estado")
		}
	}

	h.writeAudit(c, "venta", uint(id), models.AuditActionUpdate,
		fmt.Sprintf("Estado cambiado a %q", body.Estado))

	return c.JSON(fiber.Map{"message": "Estado actualizado"})
}

// DELETE /api/sales/:id
func (h *Handler) DeleteSale(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "ID de venta inválido")
	}

	if err := h.svc.DeleteSale(c.Context(), uint(id)); err != nil {
		if errors.Is(err, ErrSaleNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar la venta")
	}

	h.writeAudit(c, "venta", uint(id), models.AuditActionDelete, "Venta eliminada")

	return c.SendStatus(fiber.StatusNoContent)
}

// POST /api/directory/reload
func (h *Handler) ReloadDirectory(c *fiber.Ctx) error {
	if err := h.svc.RefreshDirectory(c.Context()); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "No se pudo recargar el directorio")
	}
	return c.JSON(fiber.Map{"message": "Directorio recargado"})
}

// writeAudit is best effort: a failed audit write never fails the request.
func (h *Handler) writeAudit(c *fiber.Ctx, entityType string, entityID uint, action models.AuditAction, description string) {
	userID, ok := c.Locals(auth.CtxUserIDKey).(uint)
	if !ok {
		return
	}
	userName, _ := c.Locals(auth.CtxUserNameKey).(string)

	if err := audit.WriteLog(audit.LogOptions{
		UserID:      userID,
		UserName:    userName,
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Description: description,
	}); err != nil {
		h.logger.Warn("no se pudo registrar el audit log", zap.Error(err))
	}
}
