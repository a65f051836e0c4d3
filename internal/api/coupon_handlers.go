package api

import (
	"net/http"
	"strconv"

	"furnistore/internal/errs"
	"furnistore/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) createCoupon(c *gin.Context) {
	var req service.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validation("invalid request: %v", err))
		return
	}

	coupon, err := h.coupons.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, coupon)
}

func (h *Handler) updateCoupon(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req service.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validation("invalid request: %v", err))
		return
	}

	coupon, err := h.coupons.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupon)
}

func (h *Handler) deleteCoupon(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.coupons.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "coupon deleted"})
}

func (h *Handler) listCoupons(c *gin.Context) {
	coupons, err := h.coupons.AdminList(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupons)
}

func (h *Handler) listValidCoupons(c *gin.Context) {
	total, err := queryTotal(c)
	if err != nil {
		respondError(c, err)
		return
	}

	coupons, err := h.coupons.ListValid(c.Request.Context(), total)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupons)
}

func (h *Handler) validateCoupon(c *gin.Context) {
	total, err := queryTotal(c)
	if err != nil {
		respondError(c, err)
		return
	}

	coupon, discount, err := h.coupons.Validate(c.Request.Context(), c.Query("code"), total)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"coupon":          coupon,
		"discount_amount": discount,
	})
}

func queryTotal(c *gin.Context) (int64, error) {
	total, err := strconv.ParseInt(c.Query("total"), 10, 64)
	if err != nil {
		return 0, errs.Validation("invalid total: %s", c.Query("total"))
	}
	return total, nil
}
