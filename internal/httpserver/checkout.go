package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	checkoutsvc "storefront/internal/service/checkout"
)

// tipRequest selects a preset percentage or a custom amount. The amount may
// be sent as a JSON number or string.
type tipRequest struct {
	Preset *int             `json:"preset"`
	Amount *decimal.Decimal `json:"amount"`
}

func (h *handlers) beginCheckout(c *gin.Context) {
	sess := sessionFromContext(c.Request.Context())
	view, err := h.deps.Checkout.Begin(c.Request.Context(), sess)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCheckoutResponse(view))
}

func (h *handlers) viewCheckout(c *gin.Context) {
	sess := sessionFromContext(c.Request.Context())
	view, err := h.deps.Checkout.View(c.Request.Context(), sess)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCheckoutResponse(view))
}

func (h *handlers) updateCheckoutDetails(c *gin.Context) {
	var raw map[string]string
	if err := c.ShouldBindJSON(&raw); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	patch := make(map[domain.CheckoutField]string, len(raw))
	for name, value := range raw {
		f, ok := domain.ParseCheckoutField(name)
		if !ok {
			badRequest(c, "unknown field: "+name)
			return
		}
		patch[f] = value
	}

	sess := sessionFromContext(c.Request.Context())
	view, err := h.deps.Checkout.UpdateDetails(c.Request.Context(), sess, patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCheckoutResponse(view))
}

func (h *handlers) setCheckoutTip(c *gin.Context) {
	var req tipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if (req.Preset == nil) == (req.Amount == nil) {
		badRequest(c, "provide either preset or amount")
		return
	}

	ctx := c.Request.Context()
	sess := sessionFromContext(ctx)
	var (
		view *checkoutsvc.View
		err  error
	)
	if req.Preset != nil {
		view, err = h.deps.Checkout.SelectTipPreset(ctx, sess, *req.Preset)
	} else {
		view, err = h.deps.Checkout.SetCustomTip(ctx, sess, *req.Amount)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCheckoutResponse(view))
}

func (h *handlers) submitCheckout(c *gin.Context) {
	sess := sessionFromContext(c.Request.Context())
	receipt, err := h.deps.Checkout.Submit(c.Request.Context(), sess)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": receipt.Message,
		"state":   receipt.State,
		"order":   receipt.Order,
		"display": toTotalsResponse(pricing.Quote{
			Subtotal: receipt.Order.Subtotal,
			Shipping: receipt.Order.Shipping,
			Tax:      receipt.Order.Tax,
			Tip:      receipt.Order.Tip,
			Total:    receipt.Order.Total,
		}),
	})
}

func (h *handlers) listOrders(c *gin.Context) {
	sess := sessionFromContext(c.Request.Context())
	orders, err := h.deps.Checkout.Orders(c.Request.Context(), sess)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
