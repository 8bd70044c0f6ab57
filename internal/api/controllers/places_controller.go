package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"wayfarer/internal/models/request_models"
	"wayfarer/internal/services"
	"wayfarer/pkg/utils"
)

type PlacesController struct {
	placeService services.PlaceServiceInterface
}

func NewPlacesController(placeService services.PlaceServiceInterface) *PlacesController {
	return &PlacesController{placeService: placeService}
}

func (p *PlacesController) GetPlaceBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		utils.RespondError(c, http.StatusBadRequest, "Place slug is required")
		return
	}

	place, err := p.placeService.GetPlace(c.Request.Context(), slug)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, place, "Place fetched successfully")
}

func (p *PlacesController) ListPlaces(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrInvalidPage)
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrInvalidPageSize)
		return
	}

	places, err := p.placeService.ListPlaces(c.Request.Context(), request_models.PlaceListQuery{
		City:     c.Query("city"),
		District: c.Query("district"),
		Tag:      c.Query("tag"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, places, "Places fetched successfully")
}

func (p *PlacesController) GetFacets(c *gin.Context) {
	facets, err := p.placeService.Facets(c.Request.Context(), c.Query("city"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, facets, "Facets fetched successfully")
}

// UpsertPlace is the content feed entry point. Admin only.
func (p *PlacesController) UpsertPlace(c *gin.Context) {
	var req request_models.UpsertPlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	place, err := p.placeService.UpsertPlace(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, place, "Place saved successfully")
}
