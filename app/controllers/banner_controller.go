package controllers

import (
	"github.com/brianmacetas/admin-api/app/services"
	"github.com/brianmacetas/admin-api/pkg/ctx"
)

type BannerController struct {
	banners *services.BannerService
}

func NewBannerController(banners *services.BannerService) *BannerController {
	return &BannerController{banners: banners}
}

// Create handles POST /upload_banner: "bannerName" plus files under
// "bannerImages".
func (bc *BannerController) Create(c *ctx.Context) {
	files, err := formFiles(c, "bannerImages")
	if err != nil {
		c.Error(400, "No se pudieron leer las imágenes del banner")
		return
	}
	if len(files) == 0 {
		c.Error(400, "No se pudieron insertar el/los banner/s")
		return
	}

	banner, err := bc.banners.Create(c.Context(), c.PostForm("bannerName"), files)
	if err != nil {
		fail(c, err,
			"No se pudieron insertar el/los banner/s",
			"Error al subir el banner")
		return
	}
	c.Created("Banner subido correctamente", banner)
}

// Delete handles DELETE /delete_banner/{id}. Every image of the banner is
// destroyed on the host before the row goes.
func (bc *BannerController) Delete(c *ctx.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := bc.banners.Delete(c.Context(), id); err != nil {
		fail(c, err,
			"Error al eliminar el banner",
			"Error interno del servidor: no se pudo eliminar el banner")
		return
	}
	c.OK("Banner eliminado correctamente")
}
