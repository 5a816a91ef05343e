package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadflow/internal/models/request_models"
	"leadflow/internal/services"
	"leadflow/pkg/utils"
)

type PaymentController struct {
	rechargeService services.RechargeService
}

func NewPaymentController(rechargeService services.RechargeService) *PaymentController {
	return &PaymentController{
		rechargeService: rechargeService,
	}
}

func (pc *PaymentController) InitiateRecharge(c *gin.Context) {
	company, ok := companyID(c)
	if !ok {
		return
	}

	var request request_models.InitiateRechargeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := pc.rechargeService.Initiate(c.Request.Context(), company, request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Payment order created successfully")
}

func (pc *PaymentController) VerifyRecharge(c *gin.Context) {
	var request request_models.VerifyRechargeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := pc.rechargeService.Verify(c.Request.Context(), request.OrderID, request.PaymentID, request.Signature)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Recharge verified successfully")
}
