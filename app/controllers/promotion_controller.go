package controllers

import (
	"strconv"

	"github.com/brianmacetas/admin-api/app/services"
	"github.com/brianmacetas/admin-api/pkg/ctx"
	"github.com/brianmacetas/admin-api/pkg/media"
	"github.com/brianmacetas/admin-api/pkg/validate"
)

type PromotionController struct {
	promotions *services.PromotionService
}

func NewPromotionController(promotions *services.PromotionService) *PromotionController {
	return &PromotionController{promotions: promotions}
}

// promotionInput reads the multipart form fields the panel sends.
func (pc *PromotionController) promotionInput(c *ctx.Context) (services.PromotionInput, bool) {
	price, err := strconv.ParseFloat(c.PostForm("promoPrice"), 64)
	if err != nil {
		c.Error(400, "El precio de la promoción es inválido")
		return services.PromotionInput{}, false
	}

	enabled := false
	if raw := c.PostForm("enabled"); raw != "" {
		if enabled, err = strconv.ParseBool(raw); err != nil {
			c.Error(400, "El estado de la promoción es inválido")
			return services.PromotionInput{}, false
		}
	}

	ids, err := parseIDList(c.PostForm("productsIDs"))
	if err != nil {
		c.Error(400, "El listado de productos es inválido")
		return services.PromotionInput{}, false
	}

	in := services.PromotionInput{
		Name:       c.PostForm("promoName"),
		Price:      price,
		StartDate:  c.PostForm("startDate"),
		EndDate:    c.PostForm("endDate"),
		Enabled:    enabled,
		ProductIDs: ids,
	}
	if errs := c.Validate(in); validate.HasErrors(errs) {
		c.ValidationError(errs)
		return services.PromotionInput{}, false
	}
	return in, true
}

// promoImage returns the optional single file under "promoImage".
func promoImage(c *ctx.Context) (*media.File, bool) {
	files, err := formFiles(c, "promoImage")
	if err != nil {
		c.Error(400, "No se pudo leer la imagen de la promoción")
		return nil, false
	}
	if len(files) == 0 {
		return nil, true
	}
	return &files[0], true
}

// Create handles POST /create-promotion.
func (pc *PromotionController) Create(c *ctx.Context) {
	in, ok := pc.promotionInput(c)
	if !ok {
		return
	}
	image, ok := promoImage(c)
	if !ok {
		return
	}

	promo, err := pc.promotions.Create(c.Context(), in, image)
	if err != nil {
		fail(c, err,
			"Hubo un error y no se pudo crear la promoción",
			"Error interno del servidor: no se pudo crear la promoción")
		return
	}
	c.Created("Promoción creada exitosamente!", promo)
}

// Update handles POST /update-promotion. When the panel keeps the current
// image it sends "existingImage"; when it swaps, "imageToDelete" plus a new
// file under "promoImage".
func (pc *PromotionController) Update(c *ctx.Context) {
	id, err := strconv.ParseUint(c.PostForm("promotionID"), 10, 32)
	if err != nil || id == 0 {
		c.Error(400, "El id de la promoción es inválido")
		return
	}
	in, ok := pc.promotionInput(c)
	if !ok {
		return
	}

	existing := c.PostForm("existingImage")
	toDelete := c.PostForm("imageToDelete")

	var image *media.File
	if existing == "" {
		if image, ok = promoImage(c); !ok {
			return
		}
		if image == nil {
			c.Error(400, "No se encontró ninguna imagen para subir")
			return
		}
	}

	if err := pc.promotions.Update(c.Context(), uint(id), in, toDelete, image); err != nil {
		fail(c, err,
			"Error al actualizar la promoción",
			"Error interno del servidor: no se pudo actualizar la promoción")
		return
	}
	c.OK("Promoción actualizada")
}

// Delete handles DELETE /delete-promotion/{promotionID}?imageUrl=...
func (pc *PromotionController) Delete(c *ctx.Context) {
	id, ok := uintParam(c, "promotionID")
	if !ok {
		return
	}

	if err := pc.promotions.Delete(c.Context(), id, c.Query("imageUrl")); err != nil {
		fail(c, err,
			"Error intentando eliminar la promoción",
			"Error interno del servidor: no se pudo eliminar la promoción")
		return
	}
	c.OK("Promoción eliminada")
}

// DeleteExpired handles POST /automatic-delete-promotions.
func (pc *PromotionController) DeleteExpired(c *ctx.Context) {
	n, err := pc.promotions.DeleteExpired(c.Context())
	if err != nil {
		fail(c, err,
			"Error intentando eliminar las promociones vencidas",
			"Error interno del servidor: no se pudieron eliminar las promociones")
		return
	}
	c.OK(strconv.Itoa(n) + " promociones eliminadas.")
}

// EnableStarting handles PUT /automatic-enable-promotions.
func (pc *PromotionController) EnableStarting(c *ctx.Context) {
	n, err := pc.promotions.EnableStarting(c.Context())
	if err != nil {
		fail(c, err,
			"Error intentando habilitar las promociones",
			"Error interno del servidor: no se pudieron habilitar las promociones")
		return
	}
	c.OK(strconv.Itoa(n) + " filas fueron actualizadas")
}
