package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpreadDiscountProportional(t *testing.T) {
	// Two lines at 3000 and 1000 splitting a 400 discount 3:1.
	out := spreadDiscount([]int64{3000, 1000}, 400)

	assert.Equal(t, []int64{300, 100}, out)
	assert.Equal(t, int64(400), out[0]+out[1])
}

func TestSpreadDiscountRemainderOnLastLine(t *testing.T) {
	// 100 over three equal lines leaves a remainder of 1 after floor
	// division; the last line absorbs it so the parts sum exactly.
	out := spreadDiscount([]int64{1000, 1000, 1000}, 100)

	var sum int64
	for _, d := range out {
		sum += d
	}
	assert.Equal(t, int64(100), sum)
	assert.Equal(t, int64(33), out[0])
	assert.Equal(t, int64(33), out[1])
	assert.Equal(t, int64(34), out[2])
}

func TestSpreadDiscountZero(t *testing.T) {
	out := spreadDiscount([]int64{1000, 2000}, 0)
	assert.Equal(t, []int64{0, 0}, out)
}

func TestSpreadDiscountCappedAtSubtotal(t *testing.T) {
	out := spreadDiscount([]int64{300, 200}, 9999)

	assert.Equal(t, int64(300), out[0])
	assert.Equal(t, int64(200), out[1])
}

func TestSpreadDiscountEmptyLines(t *testing.T) {
	out := spreadDiscount(nil, 500)
	assert.Empty(t, out)
}
