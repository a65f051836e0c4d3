package api

import (
	"net/http"

	"furnistore/internal/errs"
	"furnistore/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) getCart(c *gin.Context) {
	view, err := h.carts.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) addCartItem(c *gin.Context) {
	var req service.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validation("invalid request: %v", err))
		return
	}

	view, err := h.carts.AddItem(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) updateCartItem(c *gin.Context) {
	itemID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validation("invalid request: %v", err))
		return
	}

	view, err := h.carts.UpdateItemQuantity(c.Request.Context(), currentUserID(c), itemID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) removeCartItem(c *gin.Context) {
	itemID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.carts.RemoveItem(c.Request.Context(), currentUserID(c), itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
