package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfThroughWrapping(t *testing.T) {
	base := Conflict("One or more selected seats are already booked")
	wrapped := fmt.Errorf("create booking: %w", base)

	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindConflict))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestMessageOfHidesInternalCause(t *testing.T) {
	cause := errors.New("pq: connection refused")

	assert.Equal(t, "Server Error", MessageOf(Internal("db failed", cause), "Server Error"))
	assert.Equal(t, "Server Error", MessageOf(cause, "Server Error"))
	assert.Equal(t, "Schedule not found", MessageOf(NotFound("Schedule not found"), "Server Error"))
}

func TestInternalUnwrapsToCause(t *testing.T) {
	cause := errors.New("timeout")
	err := Internal("load booking", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "load booking: timeout", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:   http.StatusBadRequest,
		KindConflict:     http.StatusBadRequest,
		KindPolicy:       http.StatusBadRequest,
		KindNotFound:     http.StatusNotFound,
		KindForbidden:    http.StatusForbidden,
		KindUnauthorized: http.StatusUnauthorized,
		KindInternal:     http.StatusInternalServerError,
	}
	for kind, status := range cases {
		t.Run(string(kind), func(t *testing.T) {
			assert.Equal(t, status, HTTPStatus(kind))
		})
	}
}
