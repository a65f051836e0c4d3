package api

import (
	"net/http"
	"strconv"
	"time"

	"furnistore/internal/errs"
	"furnistore/internal/service"
	"furnistore/internal/store"

	"github.com/gin-gonic/gin"
)

func (h *Handler) createBatch(c *gin.Context) {
	var req service.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validation("invalid request: %v", err))
		return
	}

	batch, err := h.batches.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, batch)
}

func (h *Handler) listBatches(c *gin.Context) {
	batches, err := h.batches.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, batches)
}

func (h *Handler) getBatch(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	batch, err := h.batches.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

func (h *Handler) listBatchUnits(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	units, err := h.batches.ListUnits(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, units)
}

func (h *Handler) updateBatch(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Lines []service.BatchLineRequest `json:"products" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validation("invalid request: %v", err))
		return
	}

	batch, err := h.batches.Update(c.Request.Context(), id, req.Lines)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

func (h *Handler) deleteBatch(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.batches.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "batch deleted"})
}

func (h *Handler) listStock(c *gin.Context) {
	var filter store.StockFilter

	if v := c.Query("product_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(c, errs.Validation("invalid product_id: %s", v))
			return
		}
		filter.ProductID = id
	}
	filter.TransactionType = c.Query("type")
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(c, errs.Validation("invalid from date: %s", v))
			return
		}
		filter.From = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(c, errs.Validation("invalid to date: %s", v))
			return
		}
		filter.To = t
	}

	entries, err := h.stock.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) checkColorStock(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.stock.CheckColor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
