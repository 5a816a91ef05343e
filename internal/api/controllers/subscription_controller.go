package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"leadflow/internal/models/request_models"
	"leadflow/internal/services"
	"leadflow/pkg/utils"
)

type SubscriptionController struct {
	subscriptionService services.SubscriptionService
	rechargeService     services.RechargeService
}

func NewSubscriptionController(subscriptionService services.SubscriptionService, rechargeService services.RechargeService) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
		rechargeService:     rechargeService,
	}
}

func (sc *SubscriptionController) Manage(c *gin.Context) {
	company, ok := companyID(c)
	if !ok {
		return
	}

	var request request_models.ManageSubscriptionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := sc.subscriptionService.Manage(c.Request.Context(), company, request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Subscription updated successfully")
}

// RunAutoDebit is the cron entry point; guarded by the service key, not JWT.
// It also expires stale pending recharges so abandoned orders cannot settle.
func (sc *SubscriptionController) RunAutoDebit(c *gin.Context) {
	resp, err := sc.subscriptionService.RunSweep(c.Request.Context(), time.Now())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	if _, err := sc.rechargeService.ExpirePending(c.Request.Context()); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Auto-debit sweep completed")
}
