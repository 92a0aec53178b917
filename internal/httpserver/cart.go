package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *handlers) getCart(c *gin.Context) {
	sess := sessionFromContext(c.Request.Context())
	cart, err := h.deps.Cart.Get(c.Request.Context(), sess.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart, ""))
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "productId required")
		return
	}
	sess := sessionFromContext(c.Request.Context())
	cart, notice, err := h.deps.Cart.Add(c.Request.Context(), sess.ID, req.ProductID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart, string(notice)))
}

func (h *handlers) setCartItemQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "quantity required")
		return
	}
	sess := sessionFromContext(c.Request.Context())
	cart, notice, err := h.deps.Cart.SetQuantity(c.Request.Context(), sess.ID, c.Param("id"), *req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart, string(notice)))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	sess := sessionFromContext(c.Request.Context())
	cart, notice, err := h.deps.Cart.Remove(c.Request.Context(), sess.ID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart, string(notice)))
}

func (h *handlers) clearCart(c *gin.Context) {
	sess := sessionFromContext(c.Request.Context())
	if err := h.deps.Cart.Clear(c.Request.Context(), sess.ID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
