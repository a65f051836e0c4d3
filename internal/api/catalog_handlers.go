package api

import (
	"net/http"

	"furnistore/internal/errs"
	"furnistore/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) createProduct(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validation("invalid request: %v", err))
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validation("invalid request: %v", err))
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

func (h *Handler) createColor(c *gin.Context) {
	productID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req service.ColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validation("invalid request: %v", err))
		return
	}

	color, err := h.catalog.CreateColor(c.Request.Context(), productID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, color)
}

func (h *Handler) updateColor(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req service.ColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validation("invalid request: %v", err))
		return
	}

	color, err := h.catalog.UpdateColor(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, color)
}

func (h *Handler) addReview(c *gin.Context) {
	var req service.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validation("invalid request: %v", err))
		return
	}

	review, err := h.catalog.AddReview(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *Handler) listReviews(c *gin.Context) {
	productID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	reviews, err := h.catalog.ListReviews(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *Handler) listWishlist(c *gin.Context) {
	items, err := h.catalog.ListWishlist(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) addToWishlist(c *gin.Context) {
	productID, err := pathID(c, "productId")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.catalog.AddToWishlist(c.Request.Context(), currentUserID(c), productID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "added to wishlist"})
}

func (h *Handler) removeFromWishlist(c *gin.Context) {
	productID, err := pathID(c, "productId")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.catalog.RemoveFromWishlist(c.Request.Context(), currentUserID(c), productID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "removed from wishlist"})
}
