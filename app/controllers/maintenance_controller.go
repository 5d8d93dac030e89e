package controllers

import (
	"net/http"

	"github.com/brianmacetas/admin-api/app/services"
	"github.com/brianmacetas/admin-api/pkg/ctx"
)

type MaintenanceController struct {
	maintenance *services.MaintenanceService
}

func NewMaintenanceController(maintenance *services.MaintenanceService) *MaintenanceController {
	return &MaintenanceController{maintenance: maintenance}
}

// Health handles GET /.
func (mc *MaintenanceController) Health(c *ctx.Context) {
	c.OK("Servidor funcionando")
}

// Usage handles GET /get-usages: media host account metrics plus the
// database size.
func (mc *MaintenanceController) Usage(c *ctx.Context) {
	report, err := mc.maintenance.Usage(c.Context())
	if err != nil {
		fail(c, err,
			"No se pudo obtener el uso",
			"Error interno del servidor: no se pudo obtener el uso")
		return
	}
	c.JSON(http.StatusOK, report)
}

// CleanDB handles POST /clean-db.
func (mc *MaintenanceController) CleanDB(c *ctx.Context) {
	if err := mc.maintenance.CleanDB(c.Context()); err != nil {
		fail(c, err,
			"La limpieza solo aplica a postgres",
			"Hubo un error al hacer la limpieza de la BD")
		return
	}
	c.OK("Limpieza de la BD exitosa!")
}
