package controllers

import (
	"net/http"
	"strconv"

	"github.com/brianmacetas/admin-api/app/services"
	"github.com/brianmacetas/admin-api/pkg/ctx"
	"github.com/brianmacetas/admin-api/pkg/response"
)

type CatalogController struct {
	listings *services.ListingService
}

func NewCatalogController(listings *services.ListingService) *CatalogController {
	return &CatalogController{listings: listings}
}

// FetchAll handles GET /fetch-all-data for the admin panel.
func (cc *CatalogController) FetchAll(c *ctx.Context) {
	snap, err := cc.listings.Snapshot(c.Context())
	if err != nil {
		c.Error(500, "Error interno del servidor: No se pudo traer todos los datos")
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Products handles GET /products?page=N&per_page=M.
func (cc *CatalogController) Products(c *ctx.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	products, pagination, err := cc.listings.Products(c.Context(), page, perPage)
	if err != nil {
		c.Error(500, "Error interno del servidor: No se pudieron traer los productos")
		return
	}
	response.Paginated(c.W, products, pagination)
}

// View handles GET /get_products_view for the storefront.
func (cc *CatalogController) View(c *ctx.Context) {
	view, err := cc.listings.View(c.Context())
	if err != nil {
		c.Error(500, "Error interno del servidor: No se pudo traer todos los datos")
		return
	}
	c.JSON(http.StatusOK, view)
}
