package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindConflict, KindOf(Conflict("taken")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestKindOfWrapped(t *testing.T) {
	inner := Conflict("stock underflow")
	outer := fmt.Errorf("finalizing order: %w", inner)

	assert.Equal(t, KindConflict, KindOf(outer))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation("bad")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("missing")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict("taken")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(Unauthorized("nope")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(Upstream("provider down", nil)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}
