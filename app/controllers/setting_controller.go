package controllers

import (
	"github.com/brianmacetas/admin-api/app/services"
	"github.com/brianmacetas/admin-api/pkg/ctx"
)

type SettingController struct {
	settings *services.SettingService
}

func NewSettingController(settings *services.SettingService) *SettingController {
	return &SettingController{settings: settings}
}

// SetPageEnabled handles PUT /update_settings with body {"values": bool}.
func (sc *SettingController) SetPageEnabled(c *ctx.Context) {
	var body struct {
		Values bool `json:"values"`
	}
	if !c.BindJSON(&body) {
		return
	}

	if err := sc.settings.SetPageEnabled(c.Context(), body.Values); err != nil {
		fail(c, err,
			"Error al actualizar los ajustes",
			"Hubo un error al hacer la actualización")
		return
	}
	c.OK("Ajustes actualizados!")
}

// UpsertConditions handles POST /update_setting. Each non-empty condition
// text is written; absent fields stay untouched.
func (sc *SettingController) UpsertConditions(c *ctx.Context) {
	var body struct {
		ConditionPromotion string `json:"condition_promotion"`
		ConditionProduct   string `json:"condition_product"`
	}
	if !c.BindJSON(&body) {
		return
	}

	pairs := map[string]string{
		services.ConditionPromotion: body.ConditionPromotion,
		services.ConditionProduct:   body.ConditionProduct,
	}
	for column, value := range pairs {
		if value == "" {
			continue
		}
		if err := sc.settings.UpsertCondition(c.Context(), column, value); err != nil {
			fail(c, err,
				"Error al actualizar los ajustes",
				"Hubo un error al hacer la actualización")
			return
		}
	}
	c.OK("Ajustes actualizados!")
}
