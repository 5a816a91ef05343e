package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadflow/internal/models/request_models"
	"leadflow/internal/services"
	"leadflow/pkg/utils"
)

type FeatureController struct {
	featureService services.FeatureService
}

func NewFeatureController(featureService services.FeatureService) *FeatureController {
	return &FeatureController{
		featureService: featureService,
	}
}

func (fc *FeatureController) Unlock(c *gin.Context) {
	company, ok := companyID(c)
	if !ok {
		return
	}

	var request request_models.UnlockFeatureRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Feature name is required")
		return
	}

	resp, err := fc.featureService.Unlock(c.Request.Context(), company, userID(c), request.FeatureName, request.AmountMinor)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Feature unlocked successfully")
}
