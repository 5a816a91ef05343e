package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadflow/pkg/utils"
)

// companyID pulls the authenticated company scope set by the JWT middleware.
// Handlers never accept a company id from the request body.
func companyID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString("company_id"))
	if err != nil {
		utils.RespondError(c, http.StatusForbidden, "No company associated with this user")
		return uuid.Nil, false
	}
	return id, true
}

func userID(c *gin.Context) uuid.UUID {
	id, _ := uuid.Parse(c.GetString("user_id"))
	return id
}
