// internal/interfaces/http/handlers/handlers.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/eshop-backend/internal/errs"
	"github.com/your-org/eshop-backend/internal/pkg/money"
)

// respondError maps an error to its HTTP status. Configuration problems
// surface as server errors: they are operator mistakes, not client input.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errs.IsValidation(err):
		status = http.StatusBadRequest
	case errs.IsNotFound(err):
		status = http.StatusNotFound
	case errs.IsConflict(err):
		status = http.StatusConflict
	case errs.IsCollaborator(err):
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{
		"error": err.Error(),
	})
}

// requestCurrency returns the validated currency of the request, falling
// back to the default.
func requestCurrency(c *gin.Context) string {
	currency := c.Query("currency")
	if !money.IsSupportedCurrency(currency) {
		return money.DefaultCurrency
	}
	return currency
}
