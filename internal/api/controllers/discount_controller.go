package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadflow/internal/models/request_models"
	"leadflow/internal/services"
	"leadflow/pkg/utils"
)

type DiscountController struct {
	discountService services.DiscountService
}

func NewDiscountController(discountService services.DiscountService) *DiscountController {
	return &DiscountController{
		discountService: discountService,
	}
}

func (dc *DiscountController) Validate(c *gin.Context) {
	var request request_models.ValidateDiscountRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Code and amount are required")
		return
	}

	resp, err := dc.discountService.Validate(c.Request.Context(), request.Code, request.AmountMinor)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Discount code checked")
}
