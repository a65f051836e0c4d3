package service

import (
	"testing"

	"furnistore/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	assert.True(t, validStatus(models.OrderStatusAwaitingShipment))
	assert.True(t, validStatus(models.OrderStatusInTransit))
	assert.True(t, validStatus(models.OrderStatusDelivered))
	assert.True(t, validStatus(models.OrderStatusCancelled))

	assert.False(t, validStatus(""))
	assert.False(t, validStatus("shipped"))
}
