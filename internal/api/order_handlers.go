package api

import (
	"net/http"

	"furnistore/internal/errs"
	"furnistore/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) createCheckoutSession(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validation("invalid request: %v", err))
		return
	}

	resp, err := h.checkout.CreateSession(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listMyOrders(c *gin.Context) {
	orders, err := h.orders.ListByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) getOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.orders.Get(c.Request.Context(), id, currentUserID(c), c.GetBool("isAdmin"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) adminListOrders(c *gin.Context) {
	orders, err := h.orders.AdminList(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validation("invalid request: %v", err))
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
