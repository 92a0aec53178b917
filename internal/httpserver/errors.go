package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	identitysvc "storefront/internal/service/identity"
)

const internalError = "Something went wrong. Please try again."

// writeError maps service errors to a status and a user-facing message.
// Anything unrecognised is logged and reported generically.
func (h *handlers) writeError(c *gin.Context, err error) {
	var checkoutInvalid *checkoutsvc.ValidationError
	if errors.As(err, &checkoutInvalid) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         "Please fill in all required fields",
			"missingFields": checkoutInvalid.Missing,
		})
		return
	}
	var signUpInvalid *identitysvc.ValidationError
	if errors.As(err, &signUpInvalid) {
		body := gin.H{"error": signUpInvalid.Message}
		if signUpInvalid.Field != "" {
			body["field"] = signUpInvalid.Field
		}
		c.JSON(http.StatusBadRequest, body)
		return
	}

	status, msg := http.StatusInternalServerError, internalError
	switch {
	case errors.Is(err, cartsvc.ErrProductNotFound):
		status, msg = http.StatusNotFound, "Product not found"
	case errors.Is(err, cartsvc.ErrOutOfStock):
		status, msg = http.StatusConflict, "Product is out of stock"
	case errors.Is(err, cartsvc.ErrNoSession):
		abortSignIn(c)
		return
	case errors.Is(err, checkoutsvc.ErrCartEmpty):
		status, msg = http.StatusUnprocessableEntity, "Your cart is empty"
	case errors.Is(err, domain.ErrCartChanged):
		status, msg = http.StatusConflict, "Your cart changed during checkout. Please review your order and submit again."
	case errors.Is(err, checkoutsvc.ErrCheckoutNotStarted):
		status, msg = http.StatusConflict, "Checkout has not been started"
	case errors.Is(err, checkoutsvc.ErrUnknownPreset):
		status, msg = http.StatusBadRequest, "Unknown tip preset"
	case errors.Is(err, pricing.ErrNegativeTip):
		status, msg = http.StatusBadRequest, "Tip must not be negative"
	case errors.Is(err, identitysvc.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, identitysvc.ErrInvalidToken):
		status, msg = http.StatusUnauthorized, "Unauthorized - Invalid token"
	case errors.Is(err, identitysvc.ErrEmailTaken):
		status, msg = http.StatusBadRequest, "User with this email already exists"
	case errors.Is(err, domain.ErrNotFound):
		status, msg = http.StatusNotFound, "Not found"
	default:
		h.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
