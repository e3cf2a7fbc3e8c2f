package audit

import (
	"fmt"

	"mayorista-backend/internal/database"
	"mayorista-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
}

// WriteLog appends one audit entry. Entries are never updated or undone;
// the log is the paper trail for admin mutations on productos, clientes
// and ventas.
func WriteLog(opts LogOptions) error {
	entry := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("no se pudo guardar el audit log: %w", err)
	}

	return nil
}
