package controllers

import (
	"encoding/json"
	"strconv"

	"github.com/brianmacetas/admin-api/app/services"
	"github.com/brianmacetas/admin-api/pkg/ctx"
	"github.com/brianmacetas/admin-api/pkg/validate"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// productInput reads the multipart form fields the panel sends.
func (pc *ProductController) productInput(c *ctx.Context) (services.ProductInput, bool) {
	price, err := strconv.ParseFloat(c.PostForm("productPrice"), 64)
	if err != nil {
		c.Error(400, "El precio del producto es inválido")
		return services.ProductInput{}, false
	}
	category, err := strconv.ParseUint(c.PostForm("productCategory"), 10, 32)
	if err != nil {
		c.Error(400, "La categoría del producto es inválida")
		return services.ProductInput{}, false
	}

	in := services.ProductInput{
		Name:        c.PostForm("productName"),
		Description: c.PostForm("productDescription"),
		Price:       price,
		CategoryID:  uint(category),
	}
	if errs := c.Validate(in); validate.HasErrors(errs) {
		c.ValidationError(errs)
		return services.ProductInput{}, false
	}
	return in, true
}

// Create handles POST /upload-product: multipart fields plus any number of
// files under "productImages".
func (pc *ProductController) Create(c *ctx.Context) {
	in, ok := pc.productInput(c)
	if !ok {
		return
	}

	files, err := formFiles(c, "productImages")
	if err != nil {
		c.Error(400, "No se pudieron leer las imágenes del producto")
		return
	}

	product, err := pc.products.Create(c.Context(), in, files)
	if err != nil {
		fail(c, err,
			"Hubo un error y no se pudo crear el producto",
			"Error interno del servidor: no se pudo subir el producto")
		return
	}
	c.Created("Producto subido correctamente", product)
}

// Update handles POST /update-product/{id}: patched fields, the
// "imagesToDelete" JSON list, and new files under "newImages".
func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	in, ok := pc.productInput(c)
	if !ok {
		return
	}

	var toDelete []services.ImageRef
	if raw := c.PostForm("imagesToDelete"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &toDelete); err != nil {
			c.Error(400, "El listado de imágenes a eliminar es inválido")
			return
		}
		for _, ref := range toDelete {
			if errs := c.Validate(ref); validate.HasErrors(errs) {
				c.ValidationError(errs)
				return
			}
		}
	}

	files, err := formFiles(c, "newImages")
	if err != nil {
		c.Error(400, "No se pudieron leer las imágenes nuevas")
		return
	}

	if err := pc.products.Update(c.Context(), id, in, toDelete, files); err != nil {
		fail(c, err,
			"Error intentando actualizar el producto",
			"Error interno del servidor: no se pudo actualizar el producto")
		return
	}
	c.OK("Producto actualizado correctamente")
}

// Delete handles DELETE /delete-product/{id}. The body lists the image rows
// so their remote assets can be destroyed before the relational delete.
func (pc *ProductController) Delete(c *ctx.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var body struct {
		Images []services.ImageRef `json:"images"`
	}
	if !c.BindJSON(&body) {
		return
	}

	urls := make([]string, 0, len(body.Images))
	for _, img := range body.Images {
		urls = append(urls, img.ImageURL)
	}

	if err := pc.products.Delete(c.Context(), id, urls); err != nil {
		fail(c, err,
			"Error intentando eliminar el producto",
			"Error interno del servidor: no se pudo eliminar el producto")
		return
	}
	c.OK("Producto eliminado correctamente")
}

// SetState handles PUT /update_product_state with form fields productId and
// is_available.
func (pc *ProductController) SetState(c *ctx.Context) {
	id, err := strconv.ParseUint(c.PostForm("productId"), 10, 32)
	if err != nil || id == 0 {
		c.Error(400, "El id del producto es inválido")
		return
	}
	available, err := strconv.ParseBool(c.PostForm("is_available"))
	if err != nil {
		c.Error(400, "El estado del producto es inválido")
		return
	}

	if err := pc.products.SetAvailability(c.Context(), uint(id), available); err != nil {
		fail(c, err,
			"Error intentando actualizar el estado del producto",
			"Hubo un error en el servidor intentando hacer la actualización del estado del producto")
		return
	}
	c.OK("Estado del producto actualizado!")
}
