package handlers

import (
	"net/http"

	"kalban_greenbag/internal/services"

	"github.com/gin-gonic/gin"
)

type ProductCustomizationHandler struct {
	customizationService services.ProductCustomizationService
}

func NewProductCustomizationHandler(customizationService services.ProductCustomizationService) *ProductCustomizationHandler {
	return &ProductCustomizationHandler{customizationService: customizationService}
}

func (h *ProductCustomizationHandler) Create(c *gin.Context) {
	var req services.AddProductCustomizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	customization, err := h.customizationService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customization)
}

func (h *ProductCustomizationHandler) Update(c *gin.Context) {
	var req services.UpdateProductCustomizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	customization, err := h.customizationService.Update(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customization)
}

func (h *ProductCustomizationHandler) ChangeStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	changed, err := h.customizationService.ChangeStatus(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, changed)
}

func (h *ProductCustomizationHandler) FindByID(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	customization, err := h.customizationService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customization)
}

func (h *ProductCustomizationHandler) GetAll(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.customizationService.GetAll(c.Request.Context(), q.Page, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ProductCustomizationHandler) GetAllActive(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.customizationService.FindAllByStatusTrue(c.Request.Context(), q.Page, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ProductCustomizationHandler) GetByUserID(c *gin.Context) {
	userID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.customizationService.GetProductCustomByUserID(c.Request.Context(), userID, q.Page, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
