package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"wayfarer/internal/models/request_models"
	"wayfarer/internal/services"
	"wayfarer/pkg/utils"
)

type PreferencesController struct {
	preferenceService services.PreferenceServiceInterface
}

func NewPreferencesController(preferenceService services.PreferenceServiceInterface) *PreferencesController {
	return &PreferencesController{preferenceService: preferenceService}
}

func (p *PreferencesController) GetPreferences(c *gin.Context) {
	prefs, err := p.preferenceService.GetPreferences(c.Param("sessionId"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, prefs, "Preferences fetched successfully")
}

func (p *PreferencesController) SavePreferences(c *gin.Context) {
	var req request_models.PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	prefs, err := p.preferenceService.SavePreferences(c.Param("sessionId"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, prefs, "Preferences saved successfully")
}

func (p *PreferencesController) ClearPreferences(c *gin.Context) {
	if err := p.preferenceService.ClearPreferences(c.Param("sessionId")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
