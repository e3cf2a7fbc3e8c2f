package catalog

import (
	"fmt"
	"strings"

	"mayorista-backend/internal/database"
	"mayorista-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ClienteResponse struct {
	ID        uint   `json:"id"`
	Nombre    string `json:"nombre"`
	Telefono  string `json:"telefono,omitempty"`
	Email     string `json:"email,omitempty"`
	Direccion string `json:"direccion,omitempty"`
	Notas     string `json:"notas,omitempty"`
}

type CreateClienteRequest struct {
	Nombre    string `json:"nombre"`
	Telefono  string `json:"telefono"`
	Email     string `json:"email"`
	Direccion string `json:"direccion"`
	Notas     string `json:"notas"`
}

type UpdateClienteRequest struct {
	Nombre    *string `json:"nombre"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email"`
	Direccion *string `json:"direccion"`
	Notas     *string `json:"notas"`
}

func toClienteResponse(cl models.Cliente) ClienteResponse {
	return ClienteResponse{
		ID:        cl.ID,
		Nombre:    cl.Nombre,
		Telefono:  cl.Telefono,
		Email:     cl.Email,
		Direccion: cl.Direccion,
		Notas:     cl.Notas,
	}
}

// GET /api/clients?q=
func ListClientesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Cliente{})

		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			dbq = dbq.Where("lower(nombre) LIKE ? OR lower(email) LIKE ?", like, like)
		}

		var clientes []models.Cliente
		if err := dbq.Order("nombre asc").Find(&clientes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los clientes")
		}

		resp := make([]ClienteResponse, 0, len(clientes))
		for _, cl := range clientes {
			resp = append(resp, toClienteResponse(cl))
		}
		return c.JSON(resp)
	}
}

// POST /api/clients
func CreateClienteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateClienteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		body.Nombre = strings.TrimSpace(body.Nombre)
		if body.Nombre == "" {
			return fiber.NewError(fiber.StatusBadRequest, "El nombre es obligatorio")
		}

		cl := models.Cliente{
			Nombre:    body.Nombre,
			Telefono:  strings.TrimSpace(body.Telefono),
			Email:     strings.TrimSpace(strings.ToLower(body.Email)),
			Direccion: strings.TrimSpace(body.Direccion),
			Notas:     strings.TrimSpace(body.Notas),
		}

		if err := database.DB.Create(&cl).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el cliente")
		}

		writeAudit(c, "cliente", cl.ID, models.AuditActionCreate, fmt.Sprintf("Cliente %s creado", cl.Nombre))

		return c.Status(fiber.StatusCreated).JSON(toClienteResponse(cl))
	}
}

// PUT /api/clients/:id
func UpdateClienteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cl models.Cliente
		if err := database.DB.First(&cl, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente no encontrado")
		}

		var body UpdateClienteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if body.Nombre != nil {
			nombre := strings.TrimSpace(*body.Nombre)
			if nombre == "" {
				return fiber.NewError(fiber.StatusBadRequest, "El nombre no puede quedar vacío")
			}
			cl.Nombre = nombre
		}
		if body.Telefono != nil {
			cl.Telefono = strings.TrimSpace(*body.Telefono)
		}
		if body.Email != nil {
			cl.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.Direccion != nil {
			cl.Direccion = strings.TrimSpace(*body.Direccion)
		}
		if body.Notas != nil {
			cl.Notas = strings.TrimSpace(*body.Notas)
		}

		if err := database.DB.Save(&cl).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el cliente")
		}

		writeAudit(c, "cliente", cl.ID, models.AuditActionUpdate, fmt.Sprintf("Cliente %s actualizado", cl.Nombre))

		return c.JSON(toClienteResponse(cl))
	}
}

// DELETE /api/clients/:id
func DeleteClienteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID de cliente inválido")
		}

		if err := database.DB.Delete(&models.Cliente{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el cliente")
		}

		writeAudit(c, "cliente", uint(id), models.AuditActionDelete, "Cliente eliminado")

		return c.SendStatus(fiber.StatusNoContent)
	}
}
