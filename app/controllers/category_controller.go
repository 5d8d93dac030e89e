package controllers

import (
	"github.com/brianmacetas/admin-api/app/services"
	"github.com/brianmacetas/admin-api/pkg/ctx"
)

type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

type categoryBody struct {
	CategoryName string `json:"categoryName" validate:"required,max=255"`
	Description  string `json:"description"`
}

// Create handles POST /create-category.
func (cc *CategoryController) Create(c *ctx.Context) {
	var body categoryBody
	if !c.BindJSON(&body) {
		return
	}

	category, err := cc.categories.Create(c.Context(), services.CategoryInput{
		Name:        body.CategoryName,
		Description: body.Description,
	})
	if err != nil {
		fail(c, err,
			"Hubo un error y no se pudo crear la categoría",
			"Error interno del servidor: no se pudo crear la categoría")
		return
	}
	c.Created("Categoría creada exitosamente!", category)
}

// Update handles PUT /update-category/{id}. The panel nests the fields
// under a "data" key.
func (cc *CategoryController) Update(c *ctx.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var body struct {
		Data categoryBody `json:"data"`
	}
	if !c.BindJSON(&body) {
		return
	}

	err := cc.categories.Update(c.Context(), id, services.CategoryInput{
		Name:        body.Data.CategoryName,
		Description: body.Data.Description,
	})
	if err != nil {
		fail(c, err,
			"Error intentando actualizar la categoría",
			"Error interno del servidor: no se pudo actualizar la categoría")
		return
	}
	c.OK("Categoría actualizada")
}

// Delete handles DELETE /delete-category/{id}.
func (cc *CategoryController) Delete(c *ctx.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := cc.categories.Delete(c.Context(), id); err != nil {
		fail(c, err,
			"Error intentando eliminar la categoría",
			"Error interno del servidor: no se pudo eliminar la categoría")
		return
	}
	c.OK("Categoría eliminada")
}
