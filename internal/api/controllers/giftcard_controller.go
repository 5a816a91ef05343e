package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadflow/internal/models/request_models"
	"leadflow/internal/services"
	"leadflow/pkg/utils"
)

type GiftCardController struct {
	giftCardService services.GiftCardService
}

func NewGiftCardController(giftCardService services.GiftCardService) *GiftCardController {
	return &GiftCardController{
		giftCardService: giftCardService,
	}
}

func (gc *GiftCardController) Redeem(c *gin.Context) {
	company, ok := companyID(c)
	if !ok {
		return
	}

	var request request_models.RedeemGiftCardRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Code is required")
		return
	}

	resp, err := gc.giftCardService.Redeem(c.Request.Context(), company, request.Code)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Gift card redeemed successfully")
}

func (gc *GiftCardController) Create(c *gin.Context) {
	var request request_models.CreateGiftCardRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := gc.giftCardService.Mint(c.Request.Context(), request.AmountMinor, request.ExpiresAt)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Gift card created successfully")
}
