package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadflow/internal/models/db_models"
	"leadflow/internal/models/request_models"
	"leadflow/internal/models/response_models"
	"leadflow/internal/services"
	"leadflow/pkg/utils"
)

type WalletController struct {
	walletService services.WalletService
}

func NewWalletController(walletService services.WalletService) *WalletController {
	return &WalletController{
		walletService: walletService,
	}
}

func (wc *WalletController) GetBalance(c *gin.Context) {
	company, ok := companyID(c)
	if !ok {
		return
	}

	balance, err := wc.walletService.GetBalance(c.Request.Context(), company)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.BalanceResponse{BalanceMinor: balance}, "Fetched balance successfully")
}

func (wc *WalletController) ListTransactions(c *gin.Context) {
	company, ok := companyID(c)
	if !ok {
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page number")
		return
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page size (must be 1-100)")
		return
	}

	txns, err := wc.walletService.ListTransactions(c.Request.Context(), company, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, txns, "Fetched transactions successfully")
}

// AdminCredit grants credits to any company, off the normal payment rails.
// Admin-only; the target company comes from the body, not from the caller's
// own scope, and the grant lands on the ledger like any other credit.
func (wc *WalletController) AdminCredit(c *gin.Context) {
	var request request_models.AdminCreditRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Company id and amount are required")
		return
	}

	target, err := uuid.Parse(request.CompanyID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid company id")
		return
	}

	description := request.Description
	if description == "" {
		description = "Manual credit adjustment"
	}

	newBalance, err := wc.walletService.Credit(c.Request.Context(), target, request.AmountMinor,
		db_models.TxnCreditManualAdjustment, description, nil, map[string]interface{}{
			"granted_by": c.GetString("user_id"),
		})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.BalanceResponse{BalanceMinor: newBalance}, "Credits added successfully")
}
